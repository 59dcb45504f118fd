package cas

import "sort"

// TTOSSymbol builds a free tensor-to-scalar variable.
func TTOSSymbol(name string) *TTOSExpr {
	h := newHash().mix(uint64(TTKSymbol)).mixString(name).sum()
	return &TTOSExpr{kind: TTKSymbol, hash: h, name: name}
}

// TTOSNeg builds -x, absorbing double negation.
func TTOSNeg(x *TTOSExpr) *TTOSExpr {
	if x.IsZero() {
		return TTOSZero()
	}
	if x.Kind() == TTKNeg {
		return x.children[0]
	}
	return newTTOSNode(TTKNeg, []*TTOSExpr{x}, nil)
}

// TTOSExp builds exp(x).
func TTOSExp(x *TTOSExpr) *TTOSExpr {
	if x.IsZero() {
		return TTOSOne()
	}
	if x.Kind() == TTKLog {
		return x.children[0]
	}
	return newTTOSNode(TTKExp, []*TTOSExpr{x}, nil)
}

// TTOSLog builds log(x).
func TTOSLog(x *TTOSExpr) (*TTOSExpr, error) {
	if x.IsZero() {
		return nil, newErr(NotImplemented, "log(0) is undefined; use the limit engine for a directional limit")
	}
	if x.IsOne() {
		return TTOSZero(), nil
	}
	if x.Kind() == TTKExp {
		return x.children[0], nil
	}
	return newTTOSNode(TTKLog, []*TTOSExpr{x}, nil), nil
}

func newTTOSTraceNode(t *TensorExpr) *TTOSExpr {
	h := newHash().mix(uint64(TTKTrace)).mix(t.Hash()).sum()
	return &TTOSExpr{kind: TTKTrace, hash: h, tensor: t}
}

// TTOSTrace builds tr(t), the only tensor-to-scalar bridge.
// Only defined for a rank-2 tensor; dim is unconstrained, matching the
// TTOS algebra's own atoms carrying no dim. t is canonicalized under
// cyclic rotation first, so tr(A.B) and tr(B.A) build the identical
// node — the cyclic-invariance property of trace.
func TTOSTrace(t *TensorExpr) (*TTOSExpr, error) {
	if t.Rank() != 2 {
		return nil, newErr(InvalidExpression, "trace requires a rank-2 tensor")
	}
	if t.IsZero() {
		return TTOSZero(), nil
	}
	if t.Kind() == TKNeg {
		inner, err := TTOSTrace(t.children[0])
		if err != nil {
			return nil, err
		}
		return TTOSNeg(inner), nil
	}
	return newTTOSTraceNode(traceCanonicalTensor(t)), nil
}

// TTOSPower builds base^exp. Unlike the scalar algebra, TTOS carries no
// constant atom, so only the identity shortcuts and nested-power
// flattening apply; there is no literal^literal folding.
func TTOSPower(base, exp *TTOSExpr) (*TTOSExpr, error) {
	if exp.IsZero() {
		return TTOSOne(), nil
	}
	if exp.IsOne() {
		return base, nil
	}
	if base.IsOne() {
		return TTOSOne(), nil
	}
	if base.IsZero() {
		return TTOSZero(), nil
	}
	if base.Kind() == TTKPower {
		combinedExp, err := TTOSMul(base.children[1], exp)
		if err != nil {
			return nil, err
		}
		return TTOSPower(base.children[0], combinedExp)
	}
	return newTTOSNode(TTKPower, []*TTOSExpr{base, exp}, nil), nil
}

func sortTTOSExprs(list []*TTOSExpr) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Less(list[j]) })
}

func flattenTTOSAdd(terms []*TTOSExpr) []*TTOSExpr {
	var out []*TTOSExpr
	for _, t := range terms {
		if t.IsZero() {
			continue
		}
		if t.Kind() == TTKAdd {
			out = append(out, flattenTTOSAdd(t.children)...)
		} else {
			out = append(out, t)
		}
	}
	return out
}

// ttosSignBase splits a term into its leading sign (+1/-1) and base,
// recursing through Neg — the only "coefficient" this algebra's node
// kinds can represent, since it has no constant atom.
func ttosSignBase(t *TTOSExpr) (int, *TTOSExpr) {
	if t.Kind() == TTKNeg {
		sign, base := ttosSignBase(t.children[0])
		return -sign, base
	}
	return 1, t
}

// TTOSAdd flattens nested sums and collects like terms by base and
// net signed count. The algebra has no constant atom, so unlike
// Scalar/Tensor Add there is no numeric coefficient to fold — a net
// count outside {-1, 0, 1} simply re-emits that many literal copies of
// the base (e.g. x + x stays two terms, since "2*x" has no node kind
// here) — but an exact cancellation (x + (-x)) does collapse to zero,
// which is what makes tr(A.B) - tr(B.A) simplify away via the trace
// cyclic-invariance canonicalization in TTOSTrace.
func TTOSAdd(terms ...*TTOSExpr) (*TTOSExpr, error) {
	flat := flattenTTOSAdd(terms)

	var bases []*TTOSExpr
	var counts []int
	for _, t := range flat {
		sign, base := ttosSignBase(t)
		if idx := findTTOSBase(bases, base); idx >= 0 {
			counts[idx] += sign
		} else {
			bases = append(bases, base)
			counts = append(counts, sign)
		}
	}

	var result []*TTOSExpr
	for i, base := range bases {
		n := counts[i]
		if n == 0 {
			continue
		}
		term := base
		if n < 0 {
			term = TTOSNeg(base)
			n = -n
		}
		for k := 0; k < n; k++ {
			result = append(result, term)
		}
	}

	sortTTOSExprs(result)
	switch len(result) {
	case 0:
		return TTOSZero(), nil
	case 1:
		return result[0], nil
	default:
		return newTTOSNode(TTKAdd, result, nil), nil
	}
}

// TTOSSub builds a - b as add(a, neg(b)).
func TTOSSub(a, b *TTOSExpr) (*TTOSExpr, error) {
	return TTOSAdd(a, TTOSNeg(b))
}

func flattenTTOSMul(factors []*TTOSExpr) []*TTOSExpr {
	var out []*TTOSExpr
	for _, f := range factors {
		if f.IsOne() {
			continue
		}
		if f.Kind() == TTKMul {
			out = append(out, flattenTTOSMul(f.children)...)
		} else {
			out = append(out, f)
		}
	}
	return out
}

func ttosBaseExp(f *TTOSExpr) (*TTOSExpr, *TTOSExpr) {
	if f.Kind() == TTKPower {
		return f.children[0], f.children[1]
	}
	return f, TTOSOne()
}

func findTTOSBase(bases []*TTOSExpr, base *TTOSExpr) int {
	for i, b := range bases {
		if b.Equal(base) {
			return i
		}
	}
	return -1
}

// TTOSMul flattens nested products, drops identity factors, and
// collects like factors by base and summed exponent via TTKPower —
// the one place this algebra can represent repeated multiplication.
func TTOSMul(factors ...*TTOSExpr) (*TTOSExpr, error) {
	flat := flattenTTOSMul(factors)

	var bases []*TTOSExpr
	var exps []*TTOSExpr
	for _, f := range flat {
		if f.IsZero() {
			return TTOSZero(), nil
		}
		base, exp := ttosBaseExp(f)
		if idx := findTTOSBase(bases, base); idx >= 0 {
			summed, err := TTOSAdd(exps[idx], exp)
			if err != nil {
				return nil, err
			}
			exps[idx] = summed
		} else {
			bases = append(bases, base)
			exps = append(exps, exp)
		}
	}

	var result []*TTOSExpr
	for i, base := range bases {
		if exps[i].IsZero() {
			continue
		}
		term, err := TTOSPower(base, exps[i])
		if err != nil {
			return nil, err
		}
		if term.IsZero() {
			return TTOSZero(), nil
		}
		if !term.IsOne() {
			result = append(result, term)
		}
	}

	sortTTOSExprs(result)
	switch len(result) {
	case 0:
		return TTOSOne(), nil
	case 1:
		return result[0], nil
	default:
		return newTTOSNode(TTKMul, result, nil), nil
	}
}
