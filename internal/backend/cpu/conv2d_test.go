package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cortex/internal/backend/cpu"
	"github.com/born-ml/cortex/internal/tensor"
)

func TestConv2D(t *testing.T) {
	backend := cpu.New()

	// 3x3 input, 2x2 kernel, stride 1, no padding.
	input, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{1, 1, 3, 3})
	require.NoError(t, err)
	kernel, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	require.NoError(t, err)

	out := backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{})
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{37, 47, 67, 77}, out.AsFloat32())
}

func TestConv2DTemporalSamePadding(t *testing.T) {
	backend := cpu.New()

	// A 1xK kernel with padding {0, 0, (K-1)/2, K/2} keeps the time
	// axis length, which is what every inception branch relies on.
	const timeLen, k = 8, 5
	data := make([]float32, timeLen)
	for i := range data {
		data[i] = 1
	}
	input, err := tensor.FromSlice[float32, Backend](backend, data, tensor.Shape{1, 1, 1, timeLen})
	require.NoError(t, err)

	kdata := []float32{1, 1, 1, 1, 1}
	kernel, err := tensor.FromSlice[float32, Backend](backend, kdata, tensor.Shape{1, 1, 1, k})
	require.NoError(t, err)

	out := backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{0, 0, (k - 1) / 2, k / 2})
	assert.Equal(t, tensor.Shape{1, 1, 1, timeLen}, out.Shape())
	// Interior positions see the full window, edges see a truncated one.
	assert.Equal(t, []float32{3, 4, 5, 5, 5, 5, 4, 3}, out.AsFloat32())
}

func TestConv2DAsymmetricPadding(t *testing.T) {
	backend := cpu.New()

	// Even kernel width with pad left 0, right 1 keeps length 4.
	input, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 2, 3, 4}, tensor.Shape{1, 1, 1, 4})
	require.NoError(t, err)
	kernel, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 1}, tensor.Shape{1, 1, 1, 2})
	require.NoError(t, err)

	out := backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{0, 0, 0, 1})
	assert.Equal(t, tensor.Shape{1, 1, 1, 4}, out.Shape())
	assert.Equal(t, []float32{3, 5, 7, 4}, out.AsFloat32())
}

func TestConv2DMultiChannel(t *testing.T) {
	backend := cpu.New()

	// Two input channels, one output channel, 1x1 kernel: a pointwise
	// projection summing the channels with weights 1 and 10.
	input, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{
			1, 2, 3, 4, // channel 0
			5, 6, 7, 8, // channel 1
		}, tensor.Shape{1, 2, 1, 4})
	require.NoError(t, err)
	kernel, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 10}, tensor.Shape{1, 2, 1, 1})
	require.NoError(t, err)

	out := backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{})
	assert.Equal(t, tensor.Shape{1, 1, 1, 4}, out.Shape())
	assert.Equal(t, []float32{51, 62, 73, 84}, out.AsFloat32())
}

func TestConv2DBatch(t *testing.T) {
	backend := cpu.New()

	input, err := tensor.FromSlice[float64, Backend](backend,
		[]float64{
			1, 2, 3, // sample 0
			4, 5, 6, // sample 1
		}, tensor.Shape{2, 1, 1, 3})
	require.NoError(t, err)
	kernel, err := tensor.FromSlice[float64, Backend](backend,
		[]float64{1, -1}, tensor.Shape{1, 1, 1, 2})
	require.NoError(t, err)

	out := backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{})
	assert.Equal(t, tensor.Shape{2, 1, 1, 2}, out.Shape())
	assert.Equal(t, []float64{-1, -1, -1, -1}, out.AsFloat64())
}

func TestConv2DChannelMismatchPanics(t *testing.T) {
	backend := cpu.New()

	input, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	require.NoError(t, err)
	kernel, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 1, 2})
	require.NoError(t, err)

	assert.Panics(t, func() {
		backend.Conv2D(input.Raw(), kernel.Raw(), [2]int{1, 1}, [4]int{})
	})
}
