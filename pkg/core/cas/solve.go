package cas

import (
	"gonum.org/v1/gonum/mat"

	"github.com/itohio/numsimcas/pkg/core/numeric"
)

// TensorSolve solves the linear tensor equation lhs == rhs for the
// unknown x. Only the linear case is handled, returning zero or more
// solutions. The equation is rearranged to coeff*x + remainder
// == 0 by collecting every term whose tensor base is x; x = -remainder/coeff.
// The coefficient must reduce to a numeric scalar — a symbolic
// coefficient means the equation isn't linear in x in a way this
// solver can invert, and it reports NotImplemented.
func TensorSolve(lhs, rhs, x *TensorExpr) ([]*TensorExpr, error) {
	equation, err := TensorAdd(lhs, TensorNeg(rhs))
	if err != nil {
		return nil, err
	}
	coeff, remainder, err := collectTensorUnknown(equation, x)
	if err != nil {
		return nil, err
	}
	if coeff.IsZero() {
		if remainder.IsZero() {
			return nil, nil
		}
		return []*TensorExpr{}, nil
	}
	coeffVal, ok := coeff.Value()
	if coeff.IsOne() {
		coeffVal, ok = numeric.One(), true
	}
	if !ok {
		return nil, newErr(NotImplemented, "tensor solve requires a numeric coefficient on the unknown")
	}
	inv, err := invertScalarViaGonum(coeffVal)
	if err != nil {
		return nil, err
	}
	solution, err := TensorScalarMul(ScalarConstant(inv.Negate()), remainder)
	if err != nil {
		return nil, err
	}
	return []*TensorExpr{solution}, nil
}

// collectTensorUnknown splits equation's top-level additive terms into
// the summed scalar coefficient of x and the remaining x-free tensor.
func collectTensorUnknown(equation, x *TensorExpr) (*ScalarExpr, *TensorExpr, error) {
	terms := []*TensorExpr{equation}
	if equation.Kind() == TKAdd {
		terms = equation.children
	}

	coeff := ScalarZero()
	var remainderTerms []*TensorExpr
	for _, t := range terms {
		c, base := tensorCoeffBase(t)
		if base.Equal(x) {
			merged, err := ScalarAdd(coeff, c)
			if err != nil {
				return nil, nil, err
			}
			coeff = merged
		} else {
			remainderTerms = append(remainderTerms, t)
		}
	}

	if len(remainderTerms) == 0 {
		return coeff, TensorZero(x.Dim(), x.Rank()), nil
	}
	remainder, err := TensorAdd(remainderTerms...)
	if err != nil {
		return nil, nil, err
	}
	return coeff, remainder, nil
}

// invertScalarViaGonum computes 1/v by inverting the 1x1 matrix [v]
// with gonum/mat, which rejects a singular coefficient. An exact
// (integer or rational) v yields its exact reciprocal; a real v yields
// gonum's float64 inverse.
func invertScalarViaGonum(v numeric.Number) (numeric.Number, error) {
	f, ok := v.TryNumeric()
	if !ok || f == 0 {
		return numeric.Number{}, newErr(InvalidExpression, "tensor solve: coefficient is not a nonzero real number")
	}
	a := mat.NewDense(1, 1, []float64{f})
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return numeric.Number{}, wrapErr(InvalidExpression, "tensor solve: singular coefficient", err)
	}
	if v.IsRational() {
		return numeric.One().Div(v)
	}
	return numeric.Real(inv.At(0, 0)), nil
}
