package cas

import (
	"sort"

	"github.com/itohio/numsimcas/pkg/core/logger"
	"github.com/itohio/numsimcas/pkg/core/numeric"
)

// ScalarConstant wraps a numeric value as a scalar constant, collapsing
// to the zero/one singletons when applicable.
func ScalarConstant(v numeric.Number) *ScalarExpr {
	if v.IsZero() {
		return ScalarZero()
	}
	if v.IsOne() {
		return ScalarOne()
	}
	return &ScalarExpr{
		kind:  SKConstant,
		value: v,
		hash:  newHash().mix(uint64(SKConstant)).mix(v.Hash()).sum(),
	}
}

// ScalarSymbol builds a free scalar variable with no sign assumption.
func ScalarSymbol(name string) *ScalarExpr {
	return &ScalarExpr{
		kind: SKSymbol,
		name: name,
		hash: newHash().mix(uint64(SKSymbol)).mixString(name).sum(),
	}
}

// ScalarAssumption builds a named quantity known to lie in domain —
// the only atom that carries a sign assumption, which scalarSignInfo
// reads for the abs and exp-log build-time shortcuts.
func ScalarAssumption(name string, domain Domain) *ScalarExpr {
	return &ScalarExpr{
		kind:   SKAssumption,
		name:   name,
		domain: domain,
		hash:   newHash().mix(uint64(SKAssumption)).mixString(name).mix(uint64(domain)).sum(),
	}
}

// scalarSignInfo reports what is known about e's sign from its shape
// alone: exp(_) is always positive, abs(_) is always non-negative, a
// constant's sign is exact, and an assumption carries it explicitly.
// Everything else is unknown.
func scalarSignInfo(e *ScalarExpr) (nonNegative, positive bool) {
	switch e.Kind() {
	case SKAssumption:
		switch e.Domain() {
		case DomainPositive:
			return true, true
		case DomainNonNegative:
			return true, false
		}
	case SKOne:
		return true, true
	case SKConstant:
		v, _ := e.Value()
		s := v.Sign()
		return s >= 0, s > 0
	case SKExp:
		return true, true
	case SKAbs:
		return true, false
	}
	return false, false
}

// ScalarNeg builds -x, absorbing double negation and folding constants.
func ScalarNeg(x *ScalarExpr) *ScalarExpr {
	if x.IsZero() {
		return ScalarZero()
	}
	if x.Kind() == SKNeg {
		return x.children[0]
	}
	if x.IsOne() {
		return ScalarConstant(numeric.Int(-1))
	}
	if x.Kind() == SKConstant {
		v, _ := x.Value()
		return ScalarConstant(v.Negate())
	}
	return newScalarNode(SKNeg, []*ScalarExpr{x}, nil)
}

// ScalarAbs builds |x|, folding when x's sign is already known.
func ScalarAbs(x *ScalarExpr) *ScalarExpr {
	if x.IsZero() {
		return ScalarZero()
	}
	if nonNeg, _ := scalarSignInfo(x); nonNeg {
		return x
	}
	if x.Kind() == SKNeg {
		return ScalarAbs(x.children[0])
	}
	if x.Kind() == SKConstant {
		v, _ := x.Value()
		if v.Sign() < 0 {
			return ScalarConstant(v.Negate())
		}
		return x
	}
	return newScalarNode(SKAbs, []*ScalarExpr{x}, nil)
}

// ScalarExp builds exp(x). exp(log(y)) = y only fires once y is
// provably positive (an assumption or a positive constant, via
// scalarSignInfo) — for a free symbol with no such assumption,
// exp(log(x)) is left standing rather than collapsed, per the
// documented build-time shortcut convention.
func ScalarExp(x *ScalarExpr) *ScalarExpr {
	if x.IsZero() {
		return ScalarOne()
	}
	if x.Kind() == SKLog {
		arg := x.children[0]
		if _, positive := scalarSignInfo(arg); positive {
			return arg
		}
	}
	return newScalarNode(SKExp, []*ScalarExpr{x}, nil)
}

// ScalarLog builds log(x). Fails with NotImplemented for a negative
// constant or for literal zero: the limit engine, not the builder,
// speaks for the 0+ directional case.
func ScalarLog(x *ScalarExpr) (*ScalarExpr, error) {
	if x.IsZero() {
		return nil, newErr(NotImplemented, "log(0) is undefined; use the limit engine for a directional limit")
	}
	if x.IsOne() {
		return ScalarZero(), nil
	}
	if x.Kind() == SKConstant {
		v, _ := x.Value()
		if v.Sign() < 0 {
			return nil, newErr(NotImplemented, "log of a negative constant")
		}
	}
	if x.Kind() == SKExp {
		return x.children[0], nil
	}
	return newScalarNode(SKLog, []*ScalarExpr{x}, nil), nil
}

// ScalarSqrt builds sqrt(x).
func ScalarSqrt(x *ScalarExpr) *ScalarExpr {
	if x.IsZero() {
		return ScalarZero()
	}
	if x.IsOne() {
		return ScalarOne()
	}
	return newScalarNode(SKSqrt, []*ScalarExpr{x}, nil)
}

// ScalarFunction builds the opaque named-function application
// function(name, arg). Numeric evaluation of named functions beyond
// trivial constant folding is deliberately out of scope; the node
// persists symbolically regardless of arg.
func ScalarFunction(name string, arg *ScalarExpr) *ScalarExpr {
	return &ScalarExpr{
		kind:     SKFunction,
		name:     name,
		children: []*ScalarExpr{arg},
		hash:     newHash().mix(uint64(SKFunction)).mixString(name).mix(arg.Hash()).sum(),
	}
}

// ScalarRational builds an exact rational constant from num/den,
// folding to an integer constant when den divides num.
func ScalarRational(num, den int64) (*ScalarExpr, error) {
	v, err := numeric.Rational(num, den)
	if err != nil {
		return nil, wrapErr(InvalidExpression, "rational with zero denominator", err)
	}
	return ScalarConstant(v), nil
}

// ScalarPower builds base^exp, applying every identity shortcut:
// x^0=1 (including the documented 0^0=1 convention), x^1=x, 0^k=0 for
// k>0, 1^_=1, nested powers multiply exponents, integer powers
// distribute over a product, and literal^literal folds via
// numeric.Number.Pow: exactly for a rational base with an integer
// exponent, to a real approximation otherwise.
func ScalarPower(base, exp *ScalarExpr) (*ScalarExpr, error) {
	if exp.IsZero() {
		return ScalarOne(), nil
	}
	if exp.IsOne() {
		return base, nil
	}
	if base.IsOne() {
		return ScalarOne(), nil
	}
	if base.IsZero() {
		if exp.Kind() == SKConstant {
			v, _ := exp.Value()
			if v.Sign() > 0 {
				return ScalarZero(), nil
			}
			return nil, newErr(InvalidExpression, "0 raised to a non-positive power")
		}
		return newScalarNode(SKPower, []*ScalarExpr{base, exp}, nil), nil
	}
	if base.Kind() == SKPower {
		combinedExp, err := ScalarMul(base.children[1], exp)
		if err != nil {
			return nil, err
		}
		return ScalarPower(base.children[0], combinedExp)
	}
	if base.Kind() == SKMul && exp.Kind() == SKConstant {
		if k, ok := exp.Value(); ok && k.IsInteger() {
			ik, _ := k.Int64()
			factors := make([]*ScalarExpr, len(base.children))
			for i, f := range base.children {
				p, err := ScalarPower(f, ScalarConstant(numeric.Int(ik)))
				if err != nil {
					return nil, err
				}
				factors[i] = p
			}
			return ScalarMul(factors...)
		}
	}
	if base.Kind() == SKConstant && exp.Kind() == SKConstant {
		bv, _ := base.Value()
		ev, _ := exp.Value()
		folded := bv.Pow(ev)
		logger.Log.Debug().Str("base", bv.String()).Str("exp", ev.String()).
			Str("result", folded.String()).Msg("constant power folded")
		return ScalarConstant(folded), nil
	}
	return newScalarNode(SKPower, []*ScalarExpr{base, exp}, nil), nil
}

// newScalarDiffNode builds the opaque, unresolved diff(expr, v) node
// left behind when no differentiation rule applies.
func newScalarDiffNode(expr, v *ScalarExpr) *ScalarExpr {
	return newScalarNode(SKDiff, []*ScalarExpr{expr, v}, nil)
}

// scalarCoeffBase splits a term into its leading numeric coefficient
// and base, recursing through Neg so that e.g. 2*x and -x are
// recognized as like terms with coefficients 2 and -1.
func scalarCoeffBase(e *ScalarExpr) (numeric.Number, *ScalarExpr) {
	if e.Kind() == SKNeg {
		coeff, base := scalarCoeffBase(e.children[0])
		return coeff.Negate(), base
	}
	if e.Kind() == SKMul && len(e.children) > 0 && e.children[0].Kind() == SKConstant {
		coeff, _ := e.children[0].Value()
		rest := e.children[1:]
		if len(rest) == 1 {
			return coeff, rest[0]
		}
		return coeff, rawScalarMul(rest)
	}
	return numeric.One(), e
}

func rawScalarMul(children []*ScalarExpr) *ScalarExpr {
	return newScalarNode(SKMul, children, nil)
}

func rebuildCoeffTerm(coeff numeric.Number, base *ScalarExpr) (*ScalarExpr, error) {
	if coeff.IsOne() {
		return base, nil
	}
	if coeff.Equal(numeric.Int(-1)) {
		return ScalarNeg(base), nil
	}
	return ScalarMul(ScalarConstant(coeff), base)
}

func findScalarBase(bases []*ScalarExpr, base *ScalarExpr) int {
	for i, b := range bases {
		if b.Equal(base) {
			return i
		}
	}
	return -1
}

func flattenScalarAdd(terms []*ScalarExpr) []*ScalarExpr {
	var out []*ScalarExpr
	for _, t := range terms {
		if t.IsZero() {
			continue
		}
		if t.Kind() == SKAdd {
			out = append(out, flattenScalarAdd(t.children)...)
		} else {
			out = append(out, t)
		}
	}
	return out
}

func sortScalarExprs(list []*ScalarExpr) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Less(list[j]) })
}

// ScalarAdd flattens nested sums, collects like terms by base and
// numeric coefficient, folds the residual numeric term, and sorts the
// result by the structural ordering.
func ScalarAdd(terms ...*ScalarExpr) (*ScalarExpr, error) {
	flat := flattenScalarAdd(terms)

	numericAccum := numeric.Zero()
	var bases []*ScalarExpr
	var coeffs []numeric.Number

	for _, t := range flat {
		if t.IsOne() {
			numericAccum = numericAccum.Add(numeric.One())
			continue
		}
		if t.Kind() == SKConstant {
			v, _ := t.Value()
			numericAccum = numericAccum.Add(v)
			continue
		}
		coeff, base := scalarCoeffBase(t)
		if idx := findScalarBase(bases, base); idx >= 0 {
			coeffs[idx] = coeffs[idx].Add(coeff)
		} else {
			bases = append(bases, base)
			coeffs = append(coeffs, coeff)
		}
	}

	var result []*ScalarExpr
	for i, base := range bases {
		if coeffs[i].IsZero() {
			continue
		}
		term, err := rebuildCoeffTerm(coeffs[i], base)
		if err != nil {
			return nil, err
		}
		result = append(result, term)
	}

	if !numericAccum.IsZero() || len(result) == 0 {
		result = append(result, ScalarConstant(numericAccum))
	}

	sortScalarExprs(result)
	switch len(result) {
	case 0:
		return ScalarZero(), nil
	case 1:
		return result[0], nil
	default:
		return newScalarNode(SKAdd, result, nil), nil
	}
}

// ScalarSub builds a - b as add(a, neg(b)).
func ScalarSub(a, b *ScalarExpr) (*ScalarExpr, error) {
	return ScalarAdd(a, ScalarNeg(b))
}

func flattenScalarMul(factors []*ScalarExpr) []*ScalarExpr {
	var out []*ScalarExpr
	for _, f := range factors {
		if f.IsOne() {
			continue
		}
		if f.Kind() == SKMul {
			out = append(out, flattenScalarMul(f.children)...)
		} else {
			out = append(out, f)
		}
	}
	return out
}

func scalarBaseExp(f *ScalarExpr) (*ScalarExpr, *ScalarExpr) {
	if f.Kind() == SKPower {
		return f.children[0], f.children[1]
	}
	return f, ScalarOne()
}

// ScalarMul flattens nested products, extracts the numeric
// coefficient, collects like factors by base and summed (possibly
// symbolic) exponent, and sorts the result.
func ScalarMul(factors ...*ScalarExpr) (*ScalarExpr, error) {
	flat := flattenScalarMul(factors)

	coeffAccum := numeric.One()
	var bases []*ScalarExpr
	var exps []*ScalarExpr

	for _, f := range flat {
		if f.IsZero() {
			return ScalarZero(), nil
		}
		if f.Kind() == SKConstant {
			v, _ := f.Value()
			coeffAccum = coeffAccum.Mul(v)
			continue
		}
		base, exp := scalarBaseExp(f)
		if idx := findScalarBase(bases, base); idx >= 0 {
			summed, err := ScalarAdd(exps[idx], exp)
			if err != nil {
				return nil, err
			}
			exps[idx] = summed
		} else {
			bases = append(bases, base)
			exps = append(exps, exp)
		}
	}

	var result []*ScalarExpr
	for i, base := range bases {
		if exps[i].IsZero() {
			continue
		}
		term, err := ScalarPower(base, exps[i])
		if err != nil {
			return nil, err
		}
		if term.IsZero() {
			return ScalarZero(), nil
		}
		if !term.IsOne() {
			result = append(result, term)
		}
	}

	if coeffAccum.IsZero() {
		return ScalarZero(), nil
	}
	if !coeffAccum.IsOne() {
		result = append(result, ScalarConstant(coeffAccum))
	}

	sortScalarExprs(result)
	switch len(result) {
	case 0:
		return ScalarOne(), nil
	case 1:
		return result[0], nil
	default:
		return newScalarNode(SKMul, result, nil), nil
	}
}

// ScalarDiv builds a / b as a * b^-1. Fails with InvalidExpression if
// b is the literal zero constant.
func ScalarDiv(a, b *ScalarExpr) (*ScalarExpr, error) {
	if b.Kind() == SKConstant {
		v, _ := b.Value()
		if v.IsZero() {
			return nil, newErr(InvalidExpression, "division by zero")
		}
	}
	inv, err := ScalarPower(b, ScalarConstant(numeric.Int(-1)))
	if err != nil {
		return nil, err
	}
	return ScalarMul(a, inv)
}

// ScalarExpand distributes products over sums — e.g. (x+1)*(x-1)
// becomes x^2 - 1 — then re-simplifies. Ordinary Mul simplification
// never distributes on its own, so factored expressions stay factored
// unless Expand is called explicitly.
func ScalarExpand(e *ScalarExpr) (*ScalarExpr, error) {
	if e == nil || len(e.children) == 0 {
		return e, nil
	}
	children := make([]*ScalarExpr, len(e.children))
	for i, c := range e.children {
		ec, err := ScalarExpand(c)
		if err != nil {
			return nil, err
		}
		children[i] = ec
	}
	switch e.kind {
	case SKAdd:
		return ScalarAdd(children...)
	case SKNeg:
		return ScalarNeg(children[0]), nil
	case SKMul:
		return expandScalarMul(children)
	case SKPower:
		if children[1].Kind() == SKConstant {
			if v, ok := children[1].Value(); ok && v.IsInteger() {
				if n, _ := v.Int64(); n >= 2 && n <= 64 {
					acc := children[0]
					var err error
					for i := int64(1); i < n; i++ {
						acc, err = expandScalarMul([]*ScalarExpr{acc, children[0]})
						if err != nil {
							return nil, err
						}
					}
					return acc, nil
				}
			}
		}
		return ScalarPower(children[0], children[1])
	default:
		return rebuildScalarSameKind(e, children)
	}
}

// expandScalarMul distributes a chain of factors, any of which may be
// a sum, into a flattened sum of products.
func expandScalarMul(factors []*ScalarExpr) (*ScalarExpr, error) {
	terms := []*ScalarExpr{ScalarOne()}
	for _, f := range factors {
		var next []*ScalarExpr
		addends := []*ScalarExpr{f}
		if f.Kind() == SKAdd {
			addends = f.children
		}
		for _, partial := range terms {
			for _, addend := range addends {
				p, err := ScalarMul(partial, addend)
				if err != nil {
					return nil, err
				}
				next = append(next, p)
			}
		}
		terms = next
	}
	return ScalarAdd(terms...)
}

func rebuildScalarSameKind(e *ScalarExpr, children []*ScalarExpr) (*ScalarExpr, error) {
	switch e.kind {
	case SKAbs:
		return ScalarAbs(children[0]), nil
	case SKExp:
		return ScalarExp(children[0]), nil
	case SKLog:
		return ScalarLog(children[0])
	case SKSqrt:
		return ScalarSqrt(children[0]), nil
	case SKFunction:
		return ScalarFunction(e.name, children[0]), nil
	case SKDiff:
		return newScalarDiffNode(children[0], children[1]), nil
	default:
		return e, nil
	}
}
