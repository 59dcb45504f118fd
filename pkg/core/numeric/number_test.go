package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRational_Normalizes(t *testing.T) {
	tests := []struct {
		name       string
		num, den   int64
		wantKind   Kind
		wantString string
	}{
		{"reduces to lowest terms", 2, 4, KindRational, "1/2"},
		{"negative denominator moves sign to numerator", 1, -2, KindRational, "-1/2"},
		{"divides evenly collapses to integer", 6, 3, KindInteger, "2"},
		{"zero numerator collapses to integer zero", 0, 5, KindInteger, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Rational(tt.num, tt.den)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, n.Kind())
			assert.Equal(t, tt.wantString, n.String())
		})
	}
}

func TestRational_ZeroDenominator(t *testing.T) {
	_, err := Rational(1, 0)
	assert.ErrorIs(t, err, ErrZeroDenominator)
}

func TestNumber_Arithmetic(t *testing.T) {
	half, err := Rational(1, 2)
	require.NoError(t, err)
	third, err := Rational(1, 3)
	require.NoError(t, err)

	tests := []struct {
		name string
		got  Number
		want Number
	}{
		{"int + int stays int", Int(2).Add(Int(3)), Int(5)},
		{"1/2 + 1/3 = 5/6", half.Add(third), mustRat(t, 5, 6)},
		{"1/2 * 2 collapses to int", half.Mul(Int(2)), Int(1)},
		{"mixing real promotes", Int(1).Add(Real(0.5)), Real(1.5)},
		{"negate rational", half.Negate(), mustRat(t, -1, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.got), "got %v want %v", tt.got, tt.want)
		})
	}
}

func TestNumber_DivByZero(t *testing.T) {
	_, err := Int(1).Div(Int(0))
	assert.ErrorIs(t, err, ErrDivByZero)

	half, _ := Rational(1, 2)
	_, err = half.Div(Int(0))
	assert.ErrorIs(t, err, ErrDivByZero)
}

func TestNumber_Pow(t *testing.T) {
	half, _ := Rational(1, 2)

	tests := []struct {
		name string
		got  Number
		want Number
	}{
		{"rational ^ positive int stays exact", half.Pow(Int(2)), mustRat(t, 1, 4)},
		{"rational ^ negative int inverts", half.Pow(Int(-1)), Int(2)},
		{"int ^ 0 is one", Int(5).Pow(Int(0)), Int(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.got), "got %v want %v", tt.got, tt.want)
		})
	}

	got := Int(2).Pow(Real(0.5))
	v, ok := got.TryNumeric()
	require.True(t, ok)
	assert.InDelta(t, 1.4142135, v, 1e-6)
}

func TestNumber_Ordering(t *testing.T) {
	half, _ := Rational(1, 2)
	values := []Number{Int(1), half, Real(0.75)}
	assert.Equal(t, -1, values[0].Cmp(values[1]))
	assert.Equal(t, -1, values[1].Cmp(values[2]))
	assert.Equal(t, 1, values[2].Cmp(values[0]))
	assert.Equal(t, 0, Int(3).Cmp(Int(3)))
}

func TestNumber_HashConsistentWithEqual(t *testing.T) {
	a, _ := Rational(2, 4)
	b, _ := Rational(1, 2)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func mustRat(t *testing.T, num, den int64) Number {
	t.Helper()
	n, err := Rational(num, den)
	require.NoError(t, err)
	return n
}
