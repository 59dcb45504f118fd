package cas

import (
	"sort"

	"github.com/itohio/numsimcas/pkg/core/logger"
)

// TensorSymbol builds a free tensor variable of the given (dim, rank).
func TensorSymbol(name string, dim, rank int) *TensorExpr {
	h := newHash().mix(uint64(TKSymbol)).mix(uint64(dim)).mix(uint64(rank)).mixString(name).sum()
	return &TensorExpr{kind: TKSymbol, hash: h, dim: dim, rank: rank, name: name}
}

// TensorIdentity builds the identity tensor of the given (dim, rank) —
// the output of d(trace X)/dX for a rank-2 X.
func TensorIdentity(dim, rank int) *TensorExpr {
	h := newHash().mix(uint64(TKIdentity)).mix(uint64(dim)).mix(uint64(rank)).sum()
	return &TensorExpr{kind: TKIdentity, hash: h, dim: dim, rank: rank}
}

// TensorNeg builds -x, absorbing double negation.
func TensorNeg(x *TensorExpr) *TensorExpr {
	if x.IsZero() {
		return x
	}
	if x.Kind() == TKNeg {
		return x.children[0]
	}
	return newTensorNode(TKNeg, x.Dim(), x.Rank(), []*TensorExpr{x}, nil)
}

// TensorDeviatoric builds the deviatoric (traceless) part of x. dev is
// idempotent and annihilates a purely volumetric operand, since the
// deviatoric/volumetric split is an orthogonal decomposition of x.
func TensorDeviatoric(x *TensorExpr) *TensorExpr {
	if x.IsZero() {
		return x
	}
	if x.Kind() == TKDeviatoric {
		return x
	}
	if x.Kind() == TKVolumetric {
		return TensorZero(x.Dim(), x.Rank())
	}
	return newTensorNode(TKDeviatoric, x.Dim(), x.Rank(), []*TensorExpr{x}, nil)
}

// TensorVolumetric builds the volumetric (isotropic) part of x.
func TensorVolumetric(x *TensorExpr) *TensorExpr {
	if x.IsZero() {
		return x
	}
	if x.Kind() == TKVolumetric {
		return x
	}
	if x.Kind() == TKDeviatoric {
		return TensorZero(x.Dim(), x.Rank())
	}
	return newTensorNode(TKVolumetric, x.Dim(), x.Rank(), []*TensorExpr{x}, nil)
}

func newTensorScalarMulNode(scalar *ScalarExpr, t *TensorExpr) *TensorExpr {
	h := newHash().mix(uint64(TKScalarMul)).mix(uint64(t.Dim())).mix(uint64(t.Rank())).mix(scalar.Hash()).mix(t.Hash())
	return &TensorExpr{kind: TKScalarMul, hash: h.sum(), dim: t.Dim(), rank: t.Rank(), children: []*TensorExpr{t}, scalar: scalar}
}

// wrapTensorScalar applies the scalar coefficient coeff to tensor t,
// folding into an existing tensor_scalar_mul node rather than nesting,
// so the scalar part stays simplified.
func wrapTensorScalar(coeff *ScalarExpr, t *TensorExpr) (*TensorExpr, error) {
	if t.IsZero() {
		return t, nil
	}
	if coeff.IsZero() {
		return TensorZero(t.Dim(), t.Rank()), nil
	}
	if coeff.IsOne() {
		return t, nil
	}
	if t.Kind() == TKScalarMul {
		merged, err := ScalarMul(coeff, t.scalar)
		if err != nil {
			return nil, err
		}
		return wrapTensorScalar(merged, t.children[0])
	}
	return newTensorScalarMulNode(coeff, t), nil
}

// TensorScalarMul is the public builder for the scalar*tensor bridge
// node.
func TensorScalarMul(scalar *ScalarExpr, t *TensorExpr) (*TensorExpr, error) {
	return wrapTensorScalar(scalar, t)
}

func sortTensorExprs(list []*TensorExpr) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Less(list[j]) })
}

func flattenTensorAdd(terms []*TensorExpr) []*TensorExpr {
	var out []*TensorExpr
	for _, t := range terms {
		if t.IsZero() {
			continue
		}
		if t.Kind() == TKAdd {
			out = append(out, flattenTensorAdd(t.children)...)
		} else {
			out = append(out, t)
		}
	}
	return out
}

// tensorCoeffBase splits a term into its leading scalar coefficient
// and tensor base, mirroring scalarCoeffBase for the tensor algebra.
func tensorCoeffBase(t *TensorExpr) (*ScalarExpr, *TensorExpr) {
	if t.Kind() == TKNeg {
		coeff, base := tensorCoeffBase(t.children[0])
		return ScalarNeg(coeff), base
	}
	if t.Kind() == TKScalarMul {
		return t.scalar, t.children[0]
	}
	return ScalarOne(), t
}

func findTensorBase(bases []*TensorExpr, base *TensorExpr) int {
	for i, b := range bases {
		if b.Equal(base) {
			return i
		}
	}
	return -1
}

// traceCanonicalTensor returns the representative of t under the
// cyclic permutations that leave a trace invariant: tr(A.B.C) ==
// tr(B.C.A) == tr(C.A.B). Picks the rotation whose factors sort
// lowest under the structural ordering and rebuilds a TKMul node
// directly from the rotated children — contraction has already run,
// so this only reorders, it never re-derives (dim, rank). Used solely
// by TTOSTrace so that tr(A.B) and tr(B.A) hash and compare equal.
func traceCanonicalTensor(t *TensorExpr) *TensorExpr {
	if t.Kind() != TKMul || len(t.children) < 2 {
		return t
	}
	n := len(t.children)
	best := t.children
	for start := 1; start < n; start++ {
		rotated := make([]*TensorExpr, n)
		for i := 0; i < n; i++ {
			rotated[i] = t.children[(start+i)%n]
		}
		if lessTensorSlice(rotated, best) {
			best = rotated
		}
	}
	return newTensorNode(TKMul, t.dim, t.rank, best, nil)
}

func lessTensorSlice(a, b []*TensorExpr) bool {
	for i := range a {
		if a[i].Less(b[i]) {
			return true
		}
		if b[i].Less(a[i]) {
			return false
		}
	}
	return false
}

// TensorAdd flattens nested sums, requires every operand to share
// (dim, rank), collects like terms by tensor base and summed scalar
// coefficient, and sorts the result, generalizing Add's rules to the
// tensor algebra.
func TensorAdd(terms ...*TensorExpr) (*TensorExpr, error) {
	flat := flattenTensorAdd(terms)
	if len(flat) == 0 {
		for _, t := range terms {
			if t != nil {
				return TensorZero(t.Dim(), t.Rank()), nil
			}
		}
		return nil, newErr(InvalidExpression, "tensor add has no operands to infer (dim, rank) from")
	}
	dim, rank := flat[0].Dim(), flat[0].Rank()
	for _, t := range flat {
		if t.Dim() != dim || t.Rank() != rank {
			logger.Log.Error().Int("wantDim", dim).Int("wantRank", rank).
				Int("gotDim", t.Dim()).Int("gotRank", t.Rank()).Msg("tensor add shape mismatch")
			return nil, newErr(InvalidExpression, "tensor add of incompatible (dim, rank)")
		}
	}

	var bases []*TensorExpr
	var coeffs []*ScalarExpr
	for _, t := range flat {
		coeff, base := tensorCoeffBase(t)
		if idx := findTensorBase(bases, base); idx >= 0 {
			merged, err := ScalarAdd(coeffs[idx], coeff)
			if err != nil {
				return nil, err
			}
			coeffs[idx] = merged
		} else {
			bases = append(bases, base)
			coeffs = append(coeffs, coeff)
		}
	}

	var result []*TensorExpr
	for i, base := range bases {
		if coeffs[i].IsZero() {
			continue
		}
		term, err := wrapTensorScalar(coeffs[i], base)
		if err != nil {
			return nil, err
		}
		result = append(result, term)
	}
	if len(result) == 0 {
		return TensorZero(dim, rank), nil
	}
	sortTensorExprs(result)
	if len(result) == 1 {
		return result[0], nil
	}
	return newTensorNode(TKAdd, dim, rank, result, nil), nil
}

// TensorMul contracts a chain of factors pairwise and left-associatively.
// Scalar-valued factors (tensor_scalar_mul nodes) are pulled out into one
// combined coefficient before contraction and reattached to the result,
// so scalar-valued factors migrate out before contraction.
func TensorMul(factors ...*TensorExpr) (*TensorExpr, error) {
	if len(factors) == 0 {
		return nil, newErr(InvalidExpression, "tensor mul with no factors")
	}

	coeff := ScalarOne()
	var bases []*TensorExpr
	dim := -1
	for _, f := range factors {
		base := f
		if f.Kind() == TKScalarMul {
			merged, err := ScalarMul(coeff, f.ScalarFactor())
			if err != nil {
				return nil, err
			}
			coeff = merged
			base = f.children[0]
		}
		if dim == -1 {
			dim = base.Dim()
		} else if base.Dim() != dim {
			logger.Log.Error().Int("wantDim", dim).Int("gotDim", base.Dim()).Msg("tensor contraction dimension mismatch")
			return nil, newErr(InvalidExpression, "tensor contraction dimension mismatch")
		}
		bases = append(bases, base)
	}

	rank := 0
	for _, b := range bases {
		rank += b.Rank()
	}
	rank -= 2 * (len(bases) - 1)
	if rank < 0 {
		return nil, newErr(InvalidExpression, "tensor contraction leaves a negative rank")
	}

	for _, b := range bases {
		if b.IsZero() {
			return wrapTensorScalar(coeff, TensorZero(dim, rank))
		}
	}

	var result *TensorExpr
	if len(bases) == 1 {
		result = bases[0]
	} else {
		result = newTensorNode(TKMul, dim, rank, bases, nil)
	}
	return wrapTensorScalar(coeff, result)
}
