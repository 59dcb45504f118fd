package cas

import "github.com/itohio/numsimcas/pkg/core/numeric"

// ScalarDiff differentiates a scalar expression w.r.t. a scalar
// variable, dispatching on expr's kind. Every rule funnels its result
// back through the builders, so the returned expression is already
// simplified.
func ScalarDiff(expr, v *ScalarExpr) (*ScalarExpr, error) {
	if expr.Equal(v) {
		return ScalarOne(), nil
	}
	switch expr.Kind() {
	case SKZero, SKOne, SKConstant:
		return ScalarZero(), nil
	case SKSymbol, SKAssumption:
		return ScalarZero(), nil
	case SKNeg:
		d, err := ScalarDiff(expr.children[0], v)
		if err != nil {
			return nil, err
		}
		return ScalarNeg(d), nil
	case SKAbs:
		x := expr.children[0]
		dx, err := ScalarDiff(x, v)
		if err != nil {
			return nil, err
		}
		sign, err := ScalarDiv(x, ScalarAbs(x))
		if err != nil {
			return nil, err
		}
		return ScalarMul(sign, dx)
	case SKExp:
		dx, err := ScalarDiff(expr.children[0], v)
		if err != nil {
			return nil, err
		}
		return ScalarMul(expr, dx)
	case SKLog:
		x := expr.children[0]
		dx, err := ScalarDiff(x, v)
		if err != nil {
			return nil, err
		}
		return ScalarDiv(dx, x)
	case SKSqrt:
		x := expr.children[0]
		dx, err := ScalarDiff(x, v)
		if err != nil {
			return nil, err
		}
		denom, err := ScalarMul(ScalarConstant(numeric.Int(2)), expr)
		if err != nil {
			return nil, err
		}
		return ScalarDiv(dx, denom)
	case SKFunction:
		arg := expr.children[0]
		darg, err := ScalarDiff(arg, v)
		if err != nil {
			return nil, err
		}
		rule, ok := knownFunctions.lookup(expr.name)
		if !ok {
			return newScalarDiffNode(expr, v), nil
		}
		dOuter, err := rule(arg)
		if err != nil {
			return nil, err
		}
		return ScalarMul(dOuter, darg)
	case SKPower:
		return diffScalarPower(expr, v)
	case SKDiff:
		return nil, newErr(NotImplemented, "second derivative of an unresolved diff node")
	case SKAdd:
		terms := make([]*ScalarExpr, len(expr.children))
		for i, c := range expr.children {
			d, err := ScalarDiff(c, v)
			if err != nil {
				return nil, err
			}
			terms[i] = d
		}
		return ScalarAdd(terms...)
	case SKMul:
		return diffScalarMul(expr, v)
	default:
		return nil, newErr(Internal, "unhandled scalar kind in differentiation")
	}
}

func diffScalarPower(expr, v *ScalarExpr) (*ScalarExpr, error) {
	base, exp := expr.children[0], expr.children[1]
	db, err := ScalarDiff(base, v)
	if err != nil {
		return nil, err
	}
	de, err := ScalarDiff(exp, v)
	if err != nil {
		return nil, err
	}
	if de.IsZero() {
		expMinus1, err := ScalarSub(exp, ScalarOne())
		if err != nil {
			return nil, err
		}
		powTerm, err := ScalarPower(base, expMinus1)
		if err != nil {
			return nil, err
		}
		return ScalarMul(exp, powTerm, db)
	}
	lnBase, err := ScalarLog(base)
	if err != nil {
		// ScalarLog rejects a literal zero or negative-constant base:
		// the general log-based power rule doesn't apply, leave an
		// opaque derivative behind.
		return newScalarDiffNode(expr, v), nil
	}
	term1, err := ScalarMul(de, lnBase)
	if err != nil {
		return nil, err
	}
	term2, err := ScalarDiv(db, base)
	if err != nil {
		return nil, err
	}
	term2, err = ScalarMul(exp, term2)
	if err != nil {
		return nil, err
	}
	inner, err := ScalarAdd(term1, term2)
	if err != nil {
		return nil, err
	}
	return ScalarMul(expr, inner)
}

// diffScalarMul applies the generalized product rule over n factors:
// d(f1*...*fn) = sum_i (df_i * prod_{j!=i} f_j).
func diffScalarMul(expr, v *ScalarExpr) (*ScalarExpr, error) {
	factors := expr.children
	var terms []*ScalarExpr
	for i, f := range factors {
		df, err := ScalarDiff(f, v)
		if err != nil {
			return nil, err
		}
		if df.IsZero() {
			continue
		}
		rest := make([]*ScalarExpr, 0, len(factors))
		rest = append(rest, df)
		for j, g := range factors {
			if j != i {
				rest = append(rest, g)
			}
		}
		term, err := ScalarMul(rest...)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return ScalarAdd(terms...)
}

// TensorDiff differentiates a tensor expression w.r.t. a tensor
// variable. The result's rank is
// rank(expr)+rank(v). Scalar coefficients are always treated as
// v-independent: this system has no (scalar, tensor) dispatch entry,
// so a scalar can never actually depend on a tensor variable.
// Deviatoric/volumetric and multi-factor contraction chains have no
// chain rule here; see DESIGN.md for the scope decision.
func TensorDiff(expr, v *TensorExpr) (*TensorExpr, error) {
	outRank := v.Rank() * 2
	if expr.Equal(v) {
		return TensorIdentity(v.Dim(), outRank), nil
	}
	switch expr.Kind() {
	case TKZero, TKIdentity:
		return TensorZero(v.Dim(), expr.Rank()+v.Rank()), nil
	case TKSymbol:
		return TensorZero(v.Dim(), expr.Rank()+v.Rank()), nil
	case TKNeg:
		d, err := TensorDiff(expr.children[0], v)
		if err != nil {
			return nil, err
		}
		return TensorNeg(d), nil
	case TKScalarMul:
		d, err := TensorDiff(expr.children[0], v)
		if err != nil {
			return nil, err
		}
		return TensorScalarMul(expr.scalar, d)
	case TKAdd:
		terms := make([]*TensorExpr, len(expr.children))
		for i, c := range expr.children {
			d, err := TensorDiff(c, v)
			if err != nil {
				return nil, err
			}
			terms[i] = d
		}
		return TensorAdd(terms...)
	case TKDeviatoric, TKVolumetric:
		return nil, newErr(NotImplemented, "no chain rule for deviatoric/volumetric w.r.t. a tensor variable")
	case TKMul:
		return nil, newErr(NotImplemented, "no chain rule for a tensor contraction w.r.t. a tensor variable")
	default:
		return nil, newErr(Internal, "unhandled tensor kind in differentiation")
	}
}

// TTOSDiff differentiates a tensor-to-scalar expression w.r.t. a
// tensor variable, yielding a tensor. Only the literally representable
// cases are implemented: trace(X) w.r.t. X itself, the
// additive/negation/zero rules, and nothing else — see DESIGN.md for why e.g. log(trace X) is out of
// scope (its gradient needs a ttos-to-tensor scaling bridge the node
// kind set doesn't define).
func TTOSDiff(expr *TTOSExpr, v *TensorExpr) (*TensorExpr, error) {
	switch expr.Kind() {
	case TTKZero, TTKOne:
		return TensorZero(v.Dim(), v.Rank()), nil
	case TTKNeg:
		d, err := TTOSDiff(expr.children[0], v)
		if err != nil {
			return nil, err
		}
		return TensorNeg(d), nil
	case TTKAdd:
		terms := make([]*TensorExpr, len(expr.children))
		for i, c := range expr.children {
			d, err := TTOSDiff(c, v)
			if err != nil {
				return nil, err
			}
			terms[i] = d
		}
		return TensorAdd(terms...)
	case TTKTrace:
		if expr.tensor.Equal(v) && v.Rank() == 2 {
			return TensorIdentity(v.Dim(), 2), nil
		}
		return nil, newErr(NotImplemented, "trace of an expression other than the differentiation variable")
	default:
		return nil, newErr(NotImplemented, "no tensor gradient rule for this tensor-to-scalar node kind")
	}
}
