package cas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/numsimcas/pkg/core/numeric"
)

func TestScalarDiff_SelfIsOne(t *testing.T) {
	x := ScalarSymbol("x")
	d, err := ScalarDiff(x, x)
	require.NoError(t, err)
	assert.True(t, d.IsOne())
}

func TestScalarDiff_UnrelatedSymbolIsZero(t *testing.T) {
	x := ScalarSymbol("x")
	y := ScalarSymbol("y")
	d, err := ScalarDiff(x, y)
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestScalarDiff_ConstantIsZero(t *testing.T) {
	x := ScalarSymbol("x")
	d, err := ScalarDiff(ScalarConstant(numeric.Int(7)), x)
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestScalarDiff_PowerRule(t *testing.T) {
	x := ScalarSymbol("x")
	xCubed, err := ScalarPower(x, ScalarConstant(numeric.Int(3)))
	require.NoError(t, err)
	d, err := ScalarDiff(xCubed, x)
	require.NoError(t, err)

	xSquared, err := ScalarPower(x, ScalarConstant(numeric.Int(2)))
	require.NoError(t, err)
	want, err := ScalarMul(ScalarConstant(numeric.Int(3)), xSquared)
	require.NoError(t, err)
	assert.True(t, d.Equal(want))
}

func TestScalarDiff_ProductRule(t *testing.T) {
	x := ScalarSymbol("x")
	y := ScalarSymbol("y")
	xy, err := ScalarMul(x, y)
	require.NoError(t, err)
	d, err := ScalarDiff(xy, x)
	require.NoError(t, err)
	assert.True(t, d.Equal(y))
}

func TestScalarDiff_ExpLogChainWithPositiveAssumption(t *testing.T) {
	xPos := ScalarAssumption("x", DomainPositive)
	logged, err := ScalarLog(xPos)
	require.NoError(t, err)
	expr := ScalarExp(logged)
	d, err := ScalarDiff(expr, xPos)
	require.NoError(t, err)
	assert.True(t, d.IsOne())
}

func TestScalarExp_LogInverseRequiresPositiveAssumption(t *testing.T) {
	xFree := ScalarSymbol("x")
	logged, err := ScalarLog(xFree)
	require.NoError(t, err)
	expr := ScalarExp(logged)
	assert.Equal(t, SKExp, expr.Kind(), "without a positivity assumption, exp(log(x)) must not collapse to x")

	xPos := ScalarAssumption("x", DomainPositive)
	loggedPos, err := ScalarLog(xPos)
	require.NoError(t, err)
	assert.True(t, ScalarExp(loggedPos).Equal(xPos))
}

func TestScalarDiff_ExpLogChainWithoutAssumption(t *testing.T) {
	xFree := ScalarSymbol("x")
	logged, err := ScalarLog(xFree)
	require.NoError(t, err)
	expr := ScalarExp(logged)
	d, err := ScalarDiff(expr, xFree)
	require.NoError(t, err)
	// Without the positivity assumption, exp(log(x)) never collapsed to
	// x, so the chain rule leaves a non-simplified but correct
	// derivative: exp(log(x)) * x^-1, not the bare constant 1.
	assert.False(t, d.IsOne())

	inv, err := ScalarPower(xFree, ScalarConstant(numeric.Int(-1)))
	require.NoError(t, err)
	want, err := ScalarMul(expr, inv)
	require.NoError(t, err)
	assert.True(t, d.Equal(want))
}

func TestScalarDiff_SumRule(t *testing.T) {
	x := ScalarSymbol("x")
	y := ScalarSymbol("y")
	sum, err := ScalarAdd(x, y)
	require.NoError(t, err)
	d, err := ScalarDiff(sum, x)
	require.NoError(t, err)
	assert.True(t, d.IsOne())
}

func TestTensorDiff_SelfYieldsIdentity(t *testing.T) {
	x := TensorSymbol("X", 3, 2)
	d, err := TensorDiff(x, x)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Rank())
	assert.Equal(t, 3, d.Dim())
}

func TestTensorDiff_UnrelatedSymbolIsZero(t *testing.T) {
	x := TensorSymbol("X", 3, 2)
	y := TensorSymbol("Y", 3, 2)
	d, err := TensorDiff(x, y)
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestTensorDiff_ScalarMulPullsCoefficientThrough(t *testing.T) {
	x := TensorSymbol("X", 3, 2)
	two, err := TensorScalarMul(ScalarConstant(numeric.Int(2)), x)
	require.NoError(t, err)
	d, err := TensorDiff(two, x)
	require.NoError(t, err)
	ident, err := TensorDiff(x, x)
	require.NoError(t, err)
	want, err := TensorScalarMul(ScalarConstant(numeric.Int(2)), ident)
	require.NoError(t, err)
	assert.True(t, d.Equal(want))
}

func TestTensorDiff_DeviatoricIsNotImplemented(t *testing.T) {
	x := TensorSymbol("X", 3, 2)
	_, err := TensorDiff(TensorDeviatoric(x), x)
	require.Error(t, err)
	var casErr *Error
	require.ErrorAs(t, err, &casErr)
	assert.Equal(t, NotImplemented, casErr.Kind)
}

func TestTTOSDiff_TraceOfSelfYieldsIdentity(t *testing.T) {
	x := TensorSymbol("X", 3, 2)
	trX, err := TTOSTrace(x)
	require.NoError(t, err)
	grad, err := TTOSDiff(trX, x)
	require.NoError(t, err)
	want := TensorIdentity(3, 2)
	assert.True(t, grad.Equal(want))
}

func TestTTOSDiff_ZeroIsZeroTensor(t *testing.T) {
	x := TensorSymbol("X", 3, 2)
	z := TTOSZero()
	grad, err := TTOSDiff(z, x)
	require.NoError(t, err)
	assert.True(t, grad.IsZero())
}

func TestTTOSDiff_LogOfTraceIsNotImplemented(t *testing.T) {
	// There is no tensor-to-scalar-to-tensor scaling bridge, so
	// d(log(trace X))/dX cannot be expressed with the current node kinds.
	x := TensorSymbol("X", 3, 2)
	trX, err := TTOSTrace(x)
	require.NoError(t, err)
	logTrX, err := TTOSLog(trX)
	require.NoError(t, err)
	_, err = TTOSDiff(logTrX, x)
	require.Error(t, err)
	var casErr *Error
	require.ErrorAs(t, err, &casErr)
	assert.Equal(t, NotImplemented, casErr.Kind)
}
