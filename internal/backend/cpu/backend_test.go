package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cortex/internal/backend/cpu"
	"github.com/born-ml/cortex/internal/tensor"
)

type Backend = *cpu.CPUBackend

func TestAdd(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	b, err := tensor.FromSlice[float32, Backend](backend, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})
	require.NoError(t, err)

	c := a.Add(b)
	assert.Equal(t, []float32{11, 22, 33, 44}, c.Data())
}

func TestAddBroadcastBias(t *testing.T) {
	backend := cpu.New()

	// [2, 3] + [1, 3] broadcasts the bias row.
	a, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	bias, err := tensor.FromSlice[float32, Backend](backend, []float32{10, 20, 30}, tensor.Shape{1, 3})
	require.NoError(t, err)

	c := a.Add(bias)
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, c.Data())
}

func TestSubMulDiv(t *testing.T) {
	backend := cpu.New()

	// Unique operands are mutated in place, so each op gets a fresh
	// left-hand side.
	lhs := func() *tensor.Tensor[float32, Backend] {
		a, err := tensor.FromSlice[float32, Backend](backend, []float32{4, 9, 16, 25}, tensor.Shape{4})
		require.NoError(t, err)
		return a
	}
	b, err := tensor.FromSlice[float32, Backend](backend, []float32{2, 3, 4, 5}, tensor.Shape{4})
	require.NoError(t, err)

	assert.Equal(t, []float32{2, 6, 12, 20}, lhs().Sub(b).Data())
	assert.Equal(t, []float32{8, 27, 64, 125}, lhs().Mul(b).Data())
	assert.Equal(t, []float32{2, 3, 4, 5}, lhs().Div(b).Data())
}

func TestAddShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()

	a := tensor.Zeros[float32, Backend](backend, tensor.Shape{2, 3})
	b := tensor.Zeros[float32, Backend](backend, tensor.Shape{2, 4})

	assert.Panics(t, func() { a.Add(b) })
}

func TestReshape(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)

	b := a.Reshape(3, 2)
	assert.Equal(t, tensor.Shape{3, 2}, b.Shape())
	assert.Equal(t, a.Data(), b.Data())

	assert.Panics(t, func() { a.Reshape(4, 2) }, "element count mismatch must panic")
}

func TestTranspose2D(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)

	b := a.T()
	assert.Equal(t, tensor.Shape{3, 2}, b.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, b.Data())
}

func TestTransposeSwapLastTwoAxes(t *testing.T) {
	backend := cpu.New()

	// [1, 2, 3, 1] -> [1, 2, 1, 3], the time-axis permutation used by
	// the EEG network.
	a, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3, 1})
	require.NoError(t, err)

	b := a.Transpose(0, 1, 3, 2)
	assert.Equal(t, tensor.Shape{1, 2, 1, 3}, b.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, b.Data())
}

func TestScalarOps(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)

	assert.Equal(t, []float32{2, 4, 6}, a.MulScalar(2).Data())
	assert.Equal(t, []float32{11, 12, 13}, a.AddScalar(10).Data())
	assert.Equal(t, []float32{0, 1, 2}, a.SubScalar(1).Data())
	assert.Equal(t, []float32{0.5, 1, 1.5}, a.DivScalar(2).Data())
}
