package cas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/numsimcas/pkg/core/numeric"
)

func TestTensorZero_IsSingletonPerShape(t *testing.T) {
	a := TensorZero(3, 2)
	b := TensorZero(3, 2)
	assert.Same(t, a, b)

	c := TensorZero(4, 2)
	assert.NotSame(t, a, c)
}

func TestTensorAdd_PreservesShape(t *testing.T) {
	a := TensorSymbol("A", 3, 2)
	b := TensorSymbol("B", 3, 2)
	sum, err := TensorAdd(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Dim())
	assert.Equal(t, 2, sum.Rank())
}

func TestTensorAdd_IncompatibleShapeFails(t *testing.T) {
	a := TensorSymbol("A", 3, 2)
	b := TensorSymbol("B", 3, 1)
	_, err := TensorAdd(a, b)
	require.Error(t, err)
	var casErr *Error
	require.ErrorAs(t, err, &casErr)
	assert.Equal(t, InvalidExpression, casErr.Kind)
}

func TestTensorAdd_CollectsLikeTerms(t *testing.T) {
	a := TensorSymbol("A", 3, 2)
	sum, err := TensorAdd(a, a)
	require.NoError(t, err)
	two, err := TensorScalarMul(ScalarConstant(numeric.Int(2)), a)
	require.NoError(t, err)
	assert.True(t, sum.Equal(two))
}

func TestTensorMul_ContractionRank(t *testing.T) {
	a := TensorSymbol("A", 3, 2)
	b := TensorSymbol("B", 3, 2)
	product, err := TensorMul(a, b)
	require.NoError(t, err)
	// rank(a)+rank(b) - 2*1 contracted pair = 2
	assert.Equal(t, 2, product.Rank())
	assert.Equal(t, 3, product.Dim())
}

func TestTensorMul_DimensionMismatchFails(t *testing.T) {
	a := TensorSymbol("A", 3, 2)
	b := TensorSymbol("B", 4, 2)
	_, err := TensorMul(a, b)
	require.Error(t, err)
	var casErr *Error
	require.ErrorAs(t, err, &casErr)
	assert.Equal(t, InvalidExpression, casErr.Kind)
}

func TestTensorMul_ZeroFactorCollapses(t *testing.T) {
	a := TensorSymbol("A", 3, 2)
	z := TensorZero(3, 2)
	product, err := TensorMul(a, z)
	require.NoError(t, err)
	assert.True(t, product.IsZero())
}

func TestTensorNeg_DoubleNegationCancels(t *testing.T) {
	a := TensorSymbol("A", 3, 2)
	assert.True(t, TensorNeg(TensorNeg(a)).Equal(a))
}

func TestTensorDeviatoricVolumetric_Orthogonal(t *testing.T) {
	a := TensorSymbol("A", 3, 2)
	dev := TensorDeviatoric(a)
	assert.True(t, TensorVolumetric(dev).IsZero())
	vol := TensorVolumetric(a)
	assert.True(t, TensorDeviatoric(vol).IsZero())
}

func TestTensorScalarMul_FoldsNestedCoefficient(t *testing.T) {
	a := TensorSymbol("A", 3, 2)
	two, err := TensorScalarMul(ScalarConstant(numeric.Int(2)), a)
	require.NoError(t, err)
	six, err := TensorScalarMul(ScalarConstant(numeric.Int(3)), two)
	require.NoError(t, err)
	want, err := TensorScalarMul(ScalarConstant(numeric.Int(6)), a)
	require.NoError(t, err)
	assert.True(t, six.Equal(want))
}

func TestTensorShape_MatchesDimRank(t *testing.T) {
	a := TensorSymbol("A", 3, 2)
	shape := a.Shape()
	require.Len(t, shape, 2)
	assert.Equal(t, 3, shape[0])
	assert.Equal(t, 3, shape[1])

	scalarLike := TensorZero(5, 0)
	assert.Len(t, scalarLike.Shape(), 0)
}
