package cpu_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cortex/internal/backend/cpu"
	"github.com/born-ml/cortex/internal/tensor"
)

func TestSoftmax(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 2, 3, 1, 1, 1}, tensor.Shape{2, 3})
	require.NoError(t, err)

	out := x.Softmax(1)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())

	data := out.Data()
	for row := 0; row < 2; row++ {
		var sum float32
		for col := 0; col < 3; col++ {
			v := data[row*3+col]
			assert.Greater(t, v, float32(0))
			sum += v
		}
		assert.InDelta(t, 1, sum, 1e-6)
	}
	// Uniform inputs give a uniform distribution.
	assert.InDelta(t, 1.0/3, data[3], 1e-6)
	// Softmax is monotone in its inputs.
	assert.Less(t, data[0], data[1])
	assert.Less(t, data[1], data[2])
}

func TestSoftmaxNumericalStability(t *testing.T) {
	backend := cpu.New()

	// Large magnitudes would overflow exp without max subtraction.
	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1000, 1001, 1002}, tensor.Shape{1, 3})
	require.NoError(t, err)

	out := x.Softmax(1).Data()
	var sum float32
	for _, v := range out {
		assert.False(t, math.IsNaN(float64(v)))
		assert.False(t, math.IsInf(float64(v), 0))
		sum += v
	}
	assert.InDelta(t, 1, sum, 1e-6)
}

func TestLogSoftmax(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float64, Backend](backend,
		[]float64{0, math.Log(3)}, tensor.Shape{1, 2})
	require.NoError(t, err)

	// exp of the outputs is {1/4, 3/4}.
	out := x.LogSoftmax(1).Data()
	assert.InDelta(t, math.Log(0.25), out[0], 1e-12)
	assert.InDelta(t, math.Log(0.75), out[1], 1e-12)
}

func TestLogSoftmaxRowsExpToOne(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{0.1, -2, 3, 1.5, 0, -0.5, 2, 1}, tensor.Shape{2, 4})
	require.NoError(t, err)

	data := x.LogSoftmax(1).Data()
	for row := 0; row < 2; row++ {
		var sum float64
		for col := 0; col < 4; col++ {
			v := data[row*4+col]
			assert.LessOrEqual(t, v, float32(0))
			sum += math.Exp(float64(v))
		}
		assert.InDelta(t, 1, sum, 1e-5)
	}
}

func TestReLU(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5})
	require.NoError(t, err)

	out := backend.ReLU(x.Raw())
	assert.Equal(t, []float32{0, 0, 0, 0.5, 2}, out.AsFloat32())
}

func TestELU(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{-1, 0, 1}, tensor.Shape{3})
	require.NoError(t, err)

	out := backend.ELU(x.Raw(), 1.0).AsFloat32()
	assert.InDelta(t, math.Exp(-1)-1, out[0], 1e-6)
	assert.Equal(t, float32(0), out[1])
	assert.Equal(t, float32(1), out[2])
}
