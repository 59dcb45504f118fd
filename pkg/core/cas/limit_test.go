package cas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/numsimcas/pkg/core/numeric"
)

func TestLimit_VariableAtInfinity(t *testing.T) {
	x := ScalarSymbol("x")
	r, err := Limit(x, x, TargetPosInf)
	require.NoError(t, err)
	assert.Equal(t, DirPosInf, r.Direction)
	assert.Equal(t, GrowthPolynomial, r.Growth.Kind)
}

func TestLimit_ConstantIsItself(t *testing.T) {
	x := ScalarSymbol("x")
	r, err := Limit(ScalarConstant(numeric.Int(5)), x, TargetPosInf)
	require.NoError(t, err)
	assert.Equal(t, DirFinitePositive, r.Direction)
	// growth is normalized away for finite results
	assert.Equal(t, GrowthConstant, r.Growth.Kind)
}

func TestLimit_LogOverXGoesToZero(t *testing.T) {
	// The zeroTimesInfinity growth-order resolver: log grows slower than
	// x, so log(x) * x^-1 settles to zero instead of "indeterminate".
	x := ScalarSymbol("x")
	logX, err := ScalarLog(x)
	require.NoError(t, err)
	inv, err := ScalarPower(x, ScalarConstant(numeric.Int(-1)))
	require.NoError(t, err)
	expr, err := ScalarMul(logX, inv)
	require.NoError(t, err)

	r, err := Limit(expr, x, TargetPosInf)
	require.NoError(t, err)
	assert.Equal(t, DirZero, r.Direction)
}

func TestLimit_XOverLogXDivergesToInfinity(t *testing.T) {
	x := ScalarSymbol("x")
	logX, err := ScalarLog(x)
	require.NoError(t, err)
	invLogX, err := ScalarPower(logX, ScalarConstant(numeric.Int(-1)))
	require.NoError(t, err)
	expr, err := ScalarMul(x, invLogX)
	require.NoError(t, err)

	r, err := Limit(expr, x, TargetPosInf)
	require.NoError(t, err)
	assert.Equal(t, DirPosInf, r.Direction)
}

func TestLimit_SameOrderGrowthIsIndeterminate(t *testing.T) {
	// x * (x+1)^-1: x * x^-1 itself would simplify to 1 at build time.
	x := ScalarSymbol("x")
	xPlus1, err := ScalarAdd(x, ScalarOne())
	require.NoError(t, err)
	inv, err := ScalarPower(xPlus1, ScalarConstant(numeric.Int(-1)))
	require.NoError(t, err)
	expr, err := ScalarMul(x, inv)
	require.NoError(t, err)

	r, err := Limit(expr, x, TargetPosInf)
	require.NoError(t, err)
	assert.Equal(t, DirIndeterminate, r.Direction)
}

func TestLimit_ExpOfNegInfIsZero(t *testing.T) {
	x := ScalarSymbol("x")
	expr := ScalarExp(x)
	r, err := Limit(expr, x, TargetNegInf)
	require.NoError(t, err)
	assert.Equal(t, DirZero, r.Direction)
}

func TestLimit_LogApproachingZeroFromPositiveSideIsNegInf(t *testing.T) {
	x := ScalarSymbol("x")
	logX, err := ScalarLog(x)
	require.NoError(t, err)
	r, err := Limit(logX, x, TargetZeroPos)
	require.NoError(t, err)
	assert.Equal(t, DirNegInf, r.Direction)
}

func TestLimit_CancellingSumIsZero(t *testing.T) {
	x := ScalarSymbol("x")
	negX := ScalarNeg(x)
	sum, err := ScalarAdd(x, negX)
	require.NoError(t, err)
	// sum simplifies to the zero singleton before Limit ever sees it
	r, err := Limit(sum, x, TargetPosInf)
	require.NoError(t, err)
	assert.Equal(t, DirZero, r.Direction)
}
