// Package numeric implements the tagged numeric value described by the
// kernel's number core: exact integer and rational arithmetic with
// graceful demotion to a real (float64) approximation whenever exactness
// cannot be preserved.
package numeric

import (
	"errors"
	"fmt"
	"math"
)

// Kind tags which representation a Number currently holds. The zero
// value is KindInteger, so a zero-value Number is the exact integer 0.
type Kind uint8

const (
	KindInteger Kind = iota
	KindRational
	KindReal
)

// ErrZeroDenominator is returned by Rational when asked to build n/0.
var ErrZeroDenominator = errors.New("numeric: zero denominator")

// ErrDivByZero is returned by Div when the exact (integer/rational)
// divisor is zero. Division of a real by zero is not an error here —
// it follows IEEE 754 and produces +/-Inf or NaN — the builder layer
// rejects that before it reaches a constant node.
var ErrDivByZero = errors.New("numeric: division by zero")

// Number is a tagged union over {integer, rational, real}. Values are
// immutable; every method returns a new Number.
type Number struct {
	kind Kind
	i    int64 // KindInteger
	num  int64 // KindRational: normalized numerator
	den  int64 // KindRational: normalized denominator, always > 0, coprime with num
	r    float64
}

// Int builds an exact integer value.
func Int(v int64) Number { return Number{kind: KindInteger, i: v} }

// Real builds an inexact real value.
func Real(v float64) Number { return Number{kind: KindReal, r: v} }

// Rational builds num/den, reduced to lowest terms and collapsed to an
// integer when the denominator divides the numerator. Fails with
// ErrZeroDenominator when den == 0.
func Rational(num, den int64) (Number, error) {
	if den == 0 {
		return Number{}, ErrZeroDenominator
	}
	return normalizeRational(num, den), nil
}

func normalizeRational(num, den int64) Number {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Int(0)
	}
	g := gcd(abs64(num), den)
	num /= g
	den /= g
	if den == 1 {
		return Int(num)
	}
	return Number{kind: KindRational, num: num, den: den}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Zero is the exact integer 0.
func Zero() Number { return Int(0) }

// One is the exact integer 1.
func One() Number { return Int(1) }

// Kind reports which representation n currently holds.
func (n Number) Kind() Kind { return n.kind }

func (n Number) IsZero() bool {
	switch n.kind {
	case KindInteger:
		return n.i == 0
	case KindRational:
		return n.num == 0
	default:
		return n.r == 0
	}
}

func (n Number) IsOne() bool {
	switch n.kind {
	case KindInteger:
		return n.i == 1
	case KindRational:
		return false // a normalized rational never has den == 1
	default:
		return n.r == 1
	}
}

// Sign returns -1, 0, or 1.
func (n Number) Sign() int {
	switch n.kind {
	case KindInteger:
		return sign64(n.i)
	case KindRational:
		return sign64(n.num)
	default:
		switch {
		case n.r > 0:
			return 1
		case n.r < 0:
			return -1
		}
		return 0
	}
}

func sign64(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// TryNumeric extracts a float64 approximation. ok is false only when
// the value is a non-finite real (NaN or +/-Inf).
func (n Number) TryNumeric() (value float64, ok bool) {
	v := n.approx()
	return v, !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (n Number) approx() float64 {
	switch n.kind {
	case KindInteger:
		return float64(n.i)
	case KindRational:
		return float64(n.num) / float64(n.den)
	default:
		return n.r
	}
}

// IsInteger reports whether n holds an exact integer.
func (n Number) IsInteger() bool { return n.kind == KindInteger }

// IsRational reports whether n holds an exact integer or rational.
func (n Number) IsRational() bool { return n.kind == KindInteger || n.kind == KindRational }

// Int64 returns the exact integer value; ok is false unless IsInteger().
func (n Number) Int64() (v int64, ok bool) {
	if n.kind != KindInteger {
		return 0, false
	}
	return n.i, true
}

// RatParts returns the normalized numerator/denominator; ok is false
// for a real value.
func (n Number) RatParts() (num, den int64, ok bool) {
	switch n.kind {
	case KindInteger:
		return n.i, 1, true
	case KindRational:
		return n.num, n.den, true
	default:
		return 0, 0, false
	}
}

func promote(a, b Number) Kind {
	if a.kind == KindReal || b.kind == KindReal {
		return KindReal
	}
	if a.kind == KindRational || b.kind == KindRational {
		return KindRational
	}
	return KindInteger
}

// Add returns n + m, staying exact when both operands are exact.
func (n Number) Add(m Number) Number {
	switch promote(n, m) {
	case KindInteger:
		return Int(n.i + m.i)
	case KindRational:
		an, ad, _ := n.RatParts()
		bn, bd, _ := m.RatParts()
		return normalizeRational(an*bd+bn*ad, ad*bd)
	default:
		return Real(n.approx() + m.approx())
	}
}

// Sub returns n - m.
func (n Number) Sub(m Number) Number { return n.Add(m.Negate()) }

// Mul returns n * m.
func (n Number) Mul(m Number) Number {
	switch promote(n, m) {
	case KindInteger:
		return Int(n.i * m.i)
	case KindRational:
		an, ad, _ := n.RatParts()
		bn, bd, _ := m.RatParts()
		return normalizeRational(an*bn, ad*bd)
	default:
		return Real(n.approx() * m.approx())
	}
}

// Div returns n / m. Division by an exact zero fails with ErrDivByZero.
func (n Number) Div(m Number) (Number, error) {
	if m.kind != KindReal && m.IsZero() {
		return Number{}, ErrDivByZero
	}
	switch promote(n, m) {
	case KindInteger:
		return normalizeRational(n.i, m.i), nil
	case KindRational:
		an, ad, _ := n.RatParts()
		bn, bd, _ := m.RatParts()
		return normalizeRational(an*bd, ad*bn), nil
	default:
		return Real(n.approx() / m.approx()), nil
	}
}

// Negate returns -n.
func (n Number) Negate() Number {
	switch n.kind {
	case KindInteger:
		return Int(-n.i)
	case KindRational:
		return Number{kind: KindRational, num: -n.num, den: n.den}
	default:
		return Real(-n.r)
	}
}

// Pow raises n to the power m. pow(rational, integer) — including a
// negative integer exponent — stays exact; every other combination
// promotes to a real approximation via math.Pow.
func (n Number) Pow(m Number) Number {
	if exp, ok := m.Int64(); ok && n.kind != KindReal {
		return n.powInt(exp)
	}
	base, _ := n.TryNumeric()
	exp, _ := m.TryNumeric()
	return Real(math.Pow(base, exp))
}

func (n Number) powInt(exp int64) Number {
	if exp == 0 {
		return One()
	}
	neg := exp < 0
	if neg {
		exp = -exp
	}
	bn, bd, _ := n.RatParts()
	rn, rd := int64(1), int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			rn *= bn
			rd *= bd
		}
		bn *= bn
		bd *= bd
		exp >>= 1
	}
	if neg {
		rn, rd = rd, rn
	}
	return normalizeRational(rn, rd)
}

// Cmp implements the total order required by the node model's
// structural ordering: integers < rationals < reals, and the natural
// numeric order within a kind.
func (n Number) Cmp(m Number) int {
	if n.kind != m.kind {
		if n.kind < m.kind {
			return -1
		}
		return 1
	}
	switch n.kind {
	case KindInteger:
		return cmp64(n.i, m.i)
	case KindRational:
		// Both denominators are normalized positive, so cross-multiplying
		// preserves order without an intermediate float.
		return cmp64(n.num*m.den, m.num*n.den)
	default:
		switch {
		case n.r < m.r:
			return -1
		case n.r > m.r:
			return 1
		}
		return 0
	}
}

func cmp64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports value equality, consistent with Cmp and Hash.
func (n Number) Equal(m Number) bool { return n.Cmp(m) == 0 }

// Hash is a stable 64-bit FNV-1a hash consistent with Equal.
func (n Number) Hash() uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	mix := func(x uint64) {
		h ^= x
		h *= prime64
	}
	mix(uint64(n.kind))
	switch n.kind {
	case KindInteger:
		mix(uint64(n.i))
	case KindRational:
		mix(uint64(n.num))
		mix(uint64(n.den))
	default:
		mix(math.Float64bits(n.r))
	}
	return h
}

func (n Number) String() string {
	switch n.kind {
	case KindInteger:
		return fmt.Sprintf("%d", n.i)
	case KindRational:
		return fmt.Sprintf("%d/%d", n.num, n.den)
	default:
		return fmt.Sprintf("%g", n.r)
	}
}
