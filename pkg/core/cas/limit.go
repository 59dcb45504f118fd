package cas

import "github.com/itohio/numsimcas/pkg/core/numeric"

// LimitDirection is the coarse behavior a subexpression settles into
// as the variable approaches its target.
type LimitDirection uint8

const (
	DirUnknown LimitDirection = iota
	DirZero
	DirFinitePositive
	DirFiniteNegative
	DirPosInf
	DirNegInf
	DirIndeterminate
)

func (d LimitDirection) String() string {
	switch d {
	case DirZero:
		return "zero"
	case DirFinitePositive:
		return "finite_positive"
	case DirFiniteNegative:
		return "finite_negative"
	case DirPosInf:
		return "+inf"
	case DirNegInf:
		return "-inf"
	case DirIndeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// GrowthKind orders how fast a diverging (or, internally, vanishing)
// quantity moves: constant < logarithmic < polynomial < exponential.
type GrowthKind uint8

const (
	GrowthConstant GrowthKind = iota
	GrowthLogarithmic
	GrowthPolynomial
	GrowthExponential
)

func (g GrowthKind) String() string {
	switch g {
	case GrowthLogarithmic:
		return "logarithmic"
	case GrowthPolynomial:
		return "polynomial"
	case GrowthExponential:
		return "exponential"
	default:
		return "constant"
	}
}

// GrowthRate is a growth_rate tag; Degree holds the polynomial degree
// or the exponential base, and is meaningless for constant/logarithmic.
type GrowthRate struct {
	Kind   GrowthKind
	Degree float64
}

// LimitResult is the outcome of evaluating one subexpression's limit.
type LimitResult struct {
	Direction    LimitDirection
	Growth       GrowthRate
	ApproachSign int8 // -1/0/+1; meaningful only when Direction == DirZero
}

// Target is the point a scalar variable approaches.
type Target uint8

const (
	TargetZeroPos Target = iota
	TargetZeroNeg
	TargetPosInf
	TargetNegInf
)

func (t Target) String() string {
	switch t {
	case TargetZeroPos:
		return "0+"
	case TargetZeroNeg:
		return "0-"
	case TargetPosInf:
		return "+inf"
	default:
		return "-inf"
	}
}

// Limit evaluates expr's behavior as v approaches target, combining
// per-kind rules bottom-up. The returned Growth is only
// meaningful when Direction is +inf or -inf; it is normalized to
// "constant" for zero/finite results, matching the documented
// convention that growth_rate describes divergence, not decay.
func Limit(expr, v *ScalarExpr, target Target) (LimitResult, error) {
	r, err := limitRec(expr, v, target)
	if err != nil {
		return LimitResult{}, err
	}
	return normalizeLimitResult(r), nil
}

func normalizeLimitResult(r LimitResult) LimitResult {
	if r.Direction == DirZero || r.Direction == DirFinitePositive || r.Direction == DirFiniteNegative {
		r.Growth = GrowthRate{Kind: GrowthConstant}
	}
	return r
}

func limitRec(expr, v *ScalarExpr, target Target) (LimitResult, error) {
	if expr.Equal(v) {
		return variableLimit(target), nil
	}
	switch expr.Kind() {
	case SKZero:
		return LimitResult{Direction: DirZero}, nil
	case SKOne:
		return LimitResult{Direction: DirFinitePositive}, nil
	case SKConstant:
		val, _ := expr.Value()
		return constantLimit(val), nil
	case SKSymbol, SKAssumption:
		return LimitResult{Direction: DirUnknown}, nil
	case SKNeg:
		inner, err := limitRec(expr.children[0], v, target)
		if err != nil {
			return LimitResult{}, err
		}
		return negLimit(inner), nil
	case SKAbs:
		inner, err := limitRec(expr.children[0], v, target)
		if err != nil {
			return LimitResult{}, err
		}
		return absLimit(inner), nil
	case SKExp:
		inner, err := limitRec(expr.children[0], v, target)
		if err != nil {
			return LimitResult{}, err
		}
		return expLimit(inner), nil
	case SKLog:
		inner, err := limitRec(expr.children[0], v, target)
		if err != nil {
			return LimitResult{}, err
		}
		return logLimit(inner), nil
	case SKSqrt:
		inner, err := limitRec(expr.children[0], v, target)
		if err != nil {
			return LimitResult{}, err
		}
		return sqrtLimit(inner), nil
	case SKPower:
		base, err := limitRec(expr.children[0], v, target)
		if err != nil {
			return LimitResult{}, err
		}
		if expr.children[1].Kind() == SKConstant {
			k, _ := expr.children[1].Value()
			return powLimitConstExp(base, k), nil
		}
		exp, err := limitRec(expr.children[1], v, target)
		if err != nil {
			return LimitResult{}, err
		}
		return powLimit(base, exp), nil
	case SKFunction:
		return LimitResult{Direction: DirUnknown}, nil
	case SKDiff:
		return LimitResult{}, newErr(NotImplemented, "limit of an unresolved derivative node")
	case SKAdd:
		acc := LimitResult{Direction: DirZero}
		for _, c := range expr.children {
			cr, err := limitRec(c, v, target)
			if err != nil {
				return LimitResult{}, err
			}
			acc = addLimit(acc, cr)
		}
		return acc, nil
	case SKMul:
		acc := LimitResult{Direction: DirFinitePositive}
		for _, c := range expr.children {
			cr, err := limitRec(c, v, target)
			if err != nil {
				return LimitResult{}, err
			}
			acc = mulLimit(acc, cr)
		}
		return acc, nil
	default:
		return LimitResult{}, newErr(Internal, "unhandled scalar kind in limit analysis")
	}
}

func variableLimit(target Target) LimitResult {
	switch target {
	case TargetZeroPos:
		return LimitResult{Direction: DirZero, ApproachSign: 1}
	case TargetZeroNeg:
		return LimitResult{Direction: DirZero, ApproachSign: -1}
	case TargetPosInf:
		return LimitResult{Direction: DirPosInf, Growth: GrowthRate{Kind: GrowthPolynomial, Degree: 1}}
	default:
		return LimitResult{Direction: DirNegInf, Growth: GrowthRate{Kind: GrowthPolynomial, Degree: 1}}
	}
}

func constantLimit(v numeric.Number) LimitResult {
	switch v.Sign() {
	case 0:
		return LimitResult{Direction: DirZero}
	case 1:
		return LimitResult{Direction: DirFinitePositive}
	default:
		return LimitResult{Direction: DirFiniteNegative}
	}
}

func dirSign(d LimitDirection) int {
	if d == DirFiniteNegative || d == DirNegInf {
		return -1
	}
	return 1
}

func growthOrderValue(k GrowthKind) int { return int(k) }

func negLimit(r LimitResult) LimitResult {
	switch r.Direction {
	case DirZero:
		r.ApproachSign = -r.ApproachSign
		return r
	case DirFinitePositive:
		return LimitResult{Direction: DirFiniteNegative}
	case DirFiniteNegative:
		return LimitResult{Direction: DirFinitePositive}
	case DirPosInf:
		return LimitResult{Direction: DirNegInf, Growth: r.Growth}
	case DirNegInf:
		return LimitResult{Direction: DirPosInf, Growth: r.Growth}
	default:
		return r
	}
}

func absLimit(r LimitResult) LimitResult {
	switch r.Direction {
	case DirZero:
		r.ApproachSign = 0
		return r
	case DirFiniteNegative:
		return LimitResult{Direction: DirFinitePositive}
	case DirNegInf:
		return LimitResult{Direction: DirPosInf, Growth: r.Growth}
	default:
		return r
	}
}

func expLimit(r LimitResult) LimitResult {
	switch r.Direction {
	case DirNegInf:
		return LimitResult{Direction: DirZero, ApproachSign: 1}
	case DirPosInf:
		return LimitResult{Direction: DirPosInf, Growth: GrowthRate{Kind: GrowthExponential, Degree: 2.718281828459045}}
	case DirZero, DirFinitePositive, DirFiniteNegative:
		return LimitResult{Direction: DirFinitePositive}
	default:
		return r
	}
}

// logLimit: 0+ -> -inf; +inf -> +inf; anything negative or
// ambiguous-signed -> unknown (outside the real domain).
func logLimit(r LimitResult) LimitResult {
	switch r.Direction {
	case DirZero:
		if r.ApproachSign > 0 {
			return LimitResult{Direction: DirNegInf, Growth: GrowthRate{Kind: GrowthLogarithmic}}
		}
		return LimitResult{Direction: DirUnknown}
	case DirPosInf:
		return LimitResult{Direction: DirPosInf, Growth: GrowthRate{Kind: GrowthLogarithmic}}
	case DirIndeterminate:
		return r
	default:
		return LimitResult{Direction: DirUnknown}
	}
}

func sqrtLimit(r LimitResult) LimitResult {
	switch r.Direction {
	case DirZero:
		if r.ApproachSign >= 0 {
			return r
		}
		return LimitResult{Direction: DirUnknown}
	case DirPosInf:
		return LimitResult{Direction: DirPosInf, Growth: scaleGrowth(r.Growth, 0.5)}
	case DirFinitePositive:
		return r
	case DirIndeterminate:
		return r
	default:
		return LimitResult{Direction: DirUnknown}
	}
}

func scaleGrowth(g GrowthRate, factor float64) GrowthRate {
	if g.Kind == GrowthPolynomial {
		return GrowthRate{Kind: GrowthPolynomial, Degree: g.Degree * factor}
	}
	return g
}

func isEvenInt(f float64) bool {
	i := int64(f)
	return float64(i) == f && i%2 == 0
}

// addLimit combines two partial sums, picking the dominant direction
// by growth order; opposite infinities are indeterminate.
func addLimit(a, b LimitResult) LimitResult {
	if a.Direction == DirIndeterminate || b.Direction == DirIndeterminate {
		return LimitResult{Direction: DirIndeterminate}
	}
	aInf := a.Direction == DirPosInf || a.Direction == DirNegInf
	bInf := b.Direction == DirPosInf || b.Direction == DirNegInf
	if aInf && bInf {
		if a.Direction == b.Direction {
			return LimitResult{Direction: a.Direction, Growth: dominantGrowth(a.Growth, b.Growth)}
		}
		return LimitResult{Direction: DirIndeterminate}
	}
	if aInf {
		return a
	}
	if bInf {
		return b
	}
	if a.Direction == DirUnknown || b.Direction == DirUnknown {
		return LimitResult{Direction: DirUnknown}
	}
	if a.Direction == DirZero && b.Direction == DirZero {
		return LimitResult{Direction: DirZero}
	}
	if a.Direction == DirZero {
		return b
	}
	if b.Direction == DirZero {
		return a
	}
	if a.Direction == b.Direction {
		return LimitResult{Direction: a.Direction}
	}
	return LimitResult{Direction: DirUnknown}
}

func dominantGrowth(a, b GrowthRate) GrowthRate {
	if growthOrderValue(a.Kind) == growthOrderValue(b.Kind) {
		if a.Degree >= b.Degree {
			return a
		}
		return b
	}
	if growthOrderValue(a.Kind) > growthOrderValue(b.Kind) {
		return a
	}
	return b
}

func sumGrowth(a, b GrowthRate) GrowthRate {
	if a.Kind == GrowthPolynomial && b.Kind == GrowthPolynomial {
		return GrowthRate{Kind: GrowthPolynomial, Degree: a.Degree + b.Degree}
	}
	return dominantGrowth(a, b)
}

// mulLimit combines signs; zero*bounded=zero; zero*infinity defers to
// zeroTimesInfinity, which uses the growth tags to decide when the
// product is actually decidable (e.g. log(x)/x -> 0) instead of always
// reporting indeterminate.
func mulLimit(a, b LimitResult) LimitResult {
	if a.Direction == DirIndeterminate || b.Direction == DirIndeterminate {
		return LimitResult{Direction: DirIndeterminate}
	}
	aInf := a.Direction == DirPosInf || a.Direction == DirNegInf
	bInf := b.Direction == DirPosInf || b.Direction == DirNegInf
	aZero := a.Direction == DirZero
	bZero := b.Direction == DirZero
	if aZero && bInf {
		return zeroTimesInfinity(a, b)
	}
	if bZero && aInf {
		return zeroTimesInfinity(b, a)
	}
	if aZero || bZero {
		// Keep the vanishing factor's growth tag so that a later
		// infinite factor is still weighed against it.
		switch {
		case aZero && bZero:
			return LimitResult{Direction: DirZero, Growth: sumGrowth(a.Growth, b.Growth)}
		case aZero:
			return LimitResult{Direction: DirZero, Growth: a.Growth}
		default:
			return LimitResult{Direction: DirZero, Growth: b.Growth}
		}
	}
	if a.Direction == DirUnknown || b.Direction == DirUnknown {
		return LimitResult{Direction: DirUnknown}
	}
	sign := dirSign(a.Direction) * dirSign(b.Direction)
	if aInf || bInf {
		var g GrowthRate
		switch {
		case aInf && bInf:
			g = sumGrowth(a.Growth, b.Growth)
		case aInf:
			g = a.Growth
		default:
			g = b.Growth
		}
		if sign > 0 {
			return LimitResult{Direction: DirPosInf, Growth: g}
		}
		return LimitResult{Direction: DirNegInf, Growth: g}
	}
	if sign > 0 {
		return LimitResult{Direction: DirFinitePositive}
	}
	return LimitResult{Direction: DirFiniteNegative}
}

func zeroTimesInfinity(zero, inf LimitResult) LimitResult {
	zo := growthOrderValue(zero.Growth.Kind)
	io := growthOrderValue(inf.Growth.Kind)
	switch {
	case io > zo:
		if dirSign(inf.Direction) > 0 {
			return LimitResult{Direction: DirPosInf, Growth: inf.Growth}
		}
		return LimitResult{Direction: DirNegInf, Growth: inf.Growth}
	case zo > io:
		return LimitResult{Direction: DirZero, Growth: zero.Growth}
	default:
		return LimitResult{Direction: DirIndeterminate}
	}
}

// powLimit handles a non-constant exponent coarsely: without an exact
// magnitude, 1^infinity can't be distinguished from e.g. 1.1^infinity,
// so a finite nonzero base raised to an infinite exponent reports
// unknown rather than guessing.
func powLimit(base, exp LimitResult) LimitResult {
	if base.Direction == DirIndeterminate || exp.Direction == DirIndeterminate {
		return LimitResult{Direction: DirIndeterminate}
	}
	baseInf := base.Direction == DirPosInf || base.Direction == DirNegInf
	expInf := exp.Direction == DirPosInf || exp.Direction == DirNegInf
	if base.Direction == DirZero && exp.Direction == DirZero {
		return LimitResult{Direction: DirIndeterminate}
	}
	if baseInf && exp.Direction == DirZero {
		return LimitResult{Direction: DirIndeterminate}
	}
	if base.Direction == DirZero {
		if dirSign(exp.Direction) > 0 {
			return LimitResult{Direction: DirZero}
		}
		return LimitResult{Direction: DirPosInf, Growth: GrowthRate{Kind: GrowthExponential}}
	}
	if baseInf {
		if expInf {
			if exp.Direction == DirPosInf {
				return LimitResult{Direction: base.Direction, Growth: GrowthRate{Kind: GrowthExponential}}
			}
			return LimitResult{Direction: DirZero}
		}
		if dirSign(exp.Direction) > 0 {
			return LimitResult{Direction: base.Direction, Growth: base.Growth}
		}
		return LimitResult{Direction: DirZero}
	}
	if expInf {
		return LimitResult{Direction: DirUnknown}
	}
	return LimitResult{Direction: DirFinitePositive}
}

// powLimitConstExp is the precise path used whenever the exponent is a
// literal constant, scaling the base's growth order by the exponent's
// real value instead of only consulting its coarse sign.
func powLimitConstExp(base LimitResult, k numeric.Number) LimitResult {
	kf, ok := k.TryNumeric()
	if !ok {
		return LimitResult{Direction: DirUnknown}
	}
	if kf == 0 {
		if base.Direction == DirZero {
			return LimitResult{Direction: DirIndeterminate}
		}
		return LimitResult{Direction: DirFinitePositive}
	}
	switch base.Direction {
	case DirZero:
		if kf > 0 {
			return LimitResult{Direction: DirZero, Growth: scaleGrowth(base.Growth, kf)}
		}
		if base.ApproachSign >= 0 {
			return LimitResult{Direction: DirPosInf, Growth: scaleGrowth(base.Growth, -kf)}
		}
		return LimitResult{Direction: DirIndeterminate}
	case DirPosInf:
		if kf > 0 {
			return LimitResult{Direction: DirPosInf, Growth: scaleGrowth(base.Growth, kf)}
		}
		return LimitResult{Direction: DirZero, Growth: scaleGrowth(base.Growth, -kf), ApproachSign: 1}
	case DirNegInf:
		if kf > 0 {
			if isEvenInt(kf) {
				return LimitResult{Direction: DirPosInf, Growth: scaleGrowth(base.Growth, kf)}
			}
			return LimitResult{Direction: DirNegInf, Growth: scaleGrowth(base.Growth, kf)}
		}
		return LimitResult{Direction: DirZero, Growth: scaleGrowth(base.Growth, -kf)}
	case DirFinitePositive, DirFiniteNegative:
		return LimitResult{Direction: DirFinitePositive}
	default:
		return LimitResult{Direction: DirUnknown}
	}
}
