package cas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/numsimcas/pkg/core/numeric"
)

func TestScalarAdd_CollectsLikeTerms(t *testing.T) {
	x := ScalarSymbol("x")
	twoX, err := ScalarMul(ScalarConstant(numeric.Int(2)), x)
	require.NoError(t, err)
	threeX, err := ScalarMul(ScalarConstant(numeric.Int(3)), x)
	require.NoError(t, err)

	sum, err := ScalarAdd(x, twoX, threeX)
	require.NoError(t, err)

	sixX, err := ScalarMul(ScalarConstant(numeric.Int(6)), x)
	require.NoError(t, err)
	assert.True(t, sum.Equal(sixX))
	assert.Equal(t, sixX.Hash(), sum.Hash())
}

func TestScalarAdd_DropsZeroSum(t *testing.T) {
	x := ScalarSymbol("x")
	negX := ScalarNeg(x)
	sum, err := ScalarAdd(x, negX)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestScalarAdd_NoOperandsIsZero(t *testing.T) {
	sum, err := ScalarAdd()
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestScalarMul_Identities(t *testing.T) {
	x := ScalarSymbol("x")

	t.Run("mul by zero", func(t *testing.T) {
		r, err := ScalarMul(x, ScalarZero())
		require.NoError(t, err)
		assert.True(t, r.IsZero())
	})
	t.Run("mul by one", func(t *testing.T) {
		r, err := ScalarMul(x, ScalarOne())
		require.NoError(t, err)
		assert.True(t, r.Equal(x))
	})
	t.Run("commutative by structural equality", func(t *testing.T) {
		y := ScalarSymbol("y")
		ab, err := ScalarMul(x, y)
		require.NoError(t, err)
		ba, err := ScalarMul(y, x)
		require.NoError(t, err)
		assert.True(t, ab.Equal(ba))
	})
}

func TestScalarMul_CollectsLikeFactors(t *testing.T) {
	x := ScalarSymbol("x")
	xSquared, err := ScalarPower(x, ScalarConstant(numeric.Int(2)))
	require.NoError(t, err)
	product, err := ScalarMul(x, x)
	require.NoError(t, err)
	assert.True(t, product.Equal(xSquared))
}

func TestScalarNeg_DoubleNegationCancels(t *testing.T) {
	x := ScalarSymbol("x")
	assert.True(t, ScalarNeg(ScalarNeg(x)).Equal(x))
}

func TestScalarPower_IdentityShortcuts(t *testing.T) {
	x := ScalarSymbol("x")

	p0, err := ScalarPower(x, ScalarZero())
	require.NoError(t, err)
	assert.True(t, p0.IsOne())

	p1, err := ScalarPower(x, ScalarOne())
	require.NoError(t, err)
	assert.True(t, p1.Equal(x))

	zeroPow, err := ScalarPower(ScalarZero(), ScalarConstant(numeric.Int(3)))
	require.NoError(t, err)
	assert.True(t, zeroPow.IsZero())

	onePow, err := ScalarPower(ScalarOne(), x)
	require.NoError(t, err)
	assert.True(t, onePow.IsOne())
}

func TestScalarPower_ZeroToZeroConvention(t *testing.T) {
	// documented convention: 0^0 = 1.
	p, err := ScalarPower(ScalarZero(), ScalarZero())
	require.NoError(t, err)
	assert.True(t, p.IsOne())
}

func TestScalarPower_NestedMultipliesExponents(t *testing.T) {
	x := ScalarSymbol("x")
	inner, err := ScalarPower(x, ScalarConstant(numeric.Int(2)))
	require.NoError(t, err)
	outer, err := ScalarPower(inner, ScalarConstant(numeric.Int(3)))
	require.NoError(t, err)
	want, err := ScalarPower(x, ScalarConstant(numeric.Int(6)))
	require.NoError(t, err)
	assert.True(t, outer.Equal(want))
}

func TestScalarRational_ZeroDenominatorFails(t *testing.T) {
	_, err := ScalarRational(1, 0)
	require.Error(t, err)
	var casErr *Error
	require.ErrorAs(t, err, &casErr)
	assert.Equal(t, InvalidExpression, casErr.Kind)
}

func TestScalarRational_FoldsToInteger(t *testing.T) {
	r, err := ScalarRational(6, 3)
	require.NoError(t, err)
	assert.True(t, r.Equal(ScalarConstant(numeric.Int(2))))
}

func TestScalarLog_Shortcuts(t *testing.T) {
	x := ScalarSymbol("x")

	one, err := ScalarLog(ScalarOne())
	require.NoError(t, err)
	assert.True(t, one.IsZero())

	expLog, err := ScalarLog(ScalarExp(x))
	require.NoError(t, err)
	assert.True(t, expLog.Equal(x))

	_, err = ScalarLog(ScalarZero())
	require.Error(t, err)
	var casErr *Error
	require.ErrorAs(t, err, &casErr)
	assert.Equal(t, NotImplemented, casErr.Kind)
}

func TestScalarAbs_UsesSignAssumption(t *testing.T) {
	pos := ScalarAssumption("p", DomainPositive)
	assert.True(t, ScalarAbs(pos).Equal(pos))

	neg := ScalarNeg(ScalarSymbol("y"))
	y := ScalarSymbol("y")
	assert.True(t, ScalarAbs(neg).Equal(ScalarAbs(y)))
}

func TestScalarExpand_DifferenceOfSquares(t *testing.T) {
	x := ScalarSymbol("x")
	xPlus1, err := ScalarAdd(x, ScalarOne())
	require.NoError(t, err)
	xMinus1, err := ScalarSub(x, ScalarOne())
	require.NoError(t, err)
	factored, err := ScalarMul(xPlus1, xMinus1)
	require.NoError(t, err)

	expanded, err := ScalarExpand(factored)
	require.NoError(t, err)

	xSquared, err := ScalarPower(x, ScalarConstant(numeric.Int(2)))
	require.NoError(t, err)
	want, err := ScalarSub(xSquared, ScalarOne())
	require.NoError(t, err)
	assert.True(t, expanded.Equal(want))
}

func TestScalarSimplify_Idempotent(t *testing.T) {
	x := ScalarSymbol("x")
	y := ScalarSymbol("y")
	a, err := ScalarAdd(x, y, x)
	require.NoError(t, err)
	b, err := ScalarAdd(a, ScalarZero())
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestScalarOrdering_IsStrictWeakOrder(t *testing.T) {
	// The documented fix to the source's "scalar_one < scalar_one == true"
	// bug: equal atoms must compare incomparable.
	assert.False(t, ScalarOne().Less(ScalarOne()))
	assert.False(t, ScalarZero().Less(ScalarZero()))

	x := ScalarSymbol("x")
	y := ScalarSymbol("y")
	z := ScalarSymbol("z")
	if x.Less(y) {
		assert.False(t, y.Less(x))
	}
	_ = z
}

func TestScalarDiv_ByZeroConstantFails(t *testing.T) {
	x := ScalarSymbol("x")
	_, err := ScalarDiv(x, ScalarZero())
	require.Error(t, err)
	var casErr *Error
	require.ErrorAs(t, err, &casErr)
	assert.Equal(t, InvalidExpression, casErr.Kind)
}

func TestScalarHash_ConsistentWithEqual(t *testing.T) {
	x := ScalarSymbol("x")
	a, err := ScalarAdd(x, ScalarOne())
	require.NoError(t, err)
	b, err := ScalarAdd(ScalarOne(), x)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}
