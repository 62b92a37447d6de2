package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cortex/internal/backend/cpu"
	"github.com/born-ml/cortex/internal/tensor"
)

func TestSum(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)

	s := x.Sum()
	assert.Equal(t, tensor.Shape{}, s.Shape())
	assert.Equal(t, float32(10), s.Item())
}

func TestSumDim(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)

	cols := x.SumDim(0, false)
	assert.Equal(t, tensor.Shape{3}, cols.Shape())
	assert.Equal(t, []float32{5, 7, 9}, cols.Data())

	rows := x.SumDim(1, false)
	assert.Equal(t, tensor.Shape{2}, rows.Shape())
	assert.Equal(t, []float32{6, 15}, rows.Data())

	kept := x.SumDim(1, true)
	assert.Equal(t, tensor.Shape{2, 1}, kept.Shape())
	assert.Equal(t, []float32{6, 15}, kept.Data())
}

func TestSumDimNegative(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float64, Backend](backend,
		[]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)

	got := x.SumDim(-1, false)
	assert.Equal(t, []float64{3, 7}, got.Data())
}

func TestMeanDim(t *testing.T) {
	backend := cpu.New()

	// [2, 2, 3]: the batch-statistics path reduces one axis at a time.
	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{
			1, 2, 3,
			4, 5, 6,

			7, 8, 9,
			10, 11, 12,
		}, tensor.Shape{2, 2, 3})
	require.NoError(t, err)

	m := x.MeanDim(2, false)
	assert.Equal(t, tensor.Shape{2, 2}, m.Shape())
	assert.Equal(t, []float32{2, 5, 8, 11}, m.Data())

	// Chaining the remaining axes yields the per-channel mean.
	perChannel := m.MeanDim(0, false)
	assert.Equal(t, tensor.Shape{2}, perChannel.Shape())
	assert.Equal(t, []float32{5, 8}, perChannel.Data())
}

func TestArgmax(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{
			0.1, 0.7, 0.2,
			0.5, 0.1, 0.4,
		}, tensor.Shape{2, 3})
	require.NoError(t, err)

	idx := x.Argmax(1)
	assert.Equal(t, tensor.Shape{2}, idx.Shape())
	assert.Equal(t, []int32{1, 0}, idx.Data())
}

func TestArgmaxFirstOfTies(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{2, 2, 1}, tensor.Shape{1, 3})
	require.NoError(t, err)

	assert.Equal(t, []int32{0}, x.Argmax(1).Data())
}

func TestArgmaxInvalidDimPanics(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2}, tensor.Shape{2})
	require.NoError(t, err)

	assert.Panics(t, func() { x.Argmax(3) })
}
