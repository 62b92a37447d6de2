package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cortex/internal/backend/cpu"
	"github.com/born-ml/cortex/internal/tensor"
)

func TestCatDim0(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2}, tensor.Shape{1, 2})
	require.NoError(t, err)
	b, err := tensor.FromSlice[float32, Backend](backend, []float32{3, 4, 5, 6}, tensor.Shape{2, 2})
	require.NoError(t, err)

	c := tensor.Cat([]*tensor.Tensor[float32, Backend]{a, b}, 0)
	assert.Equal(t, tensor.Shape{3, 2}, c.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, c.Data())
}

func TestCatChannelAxis(t *testing.T) {
	backend := cpu.New()

	// [N, C, H, W] concatenation along C, interleaving per sample, is
	// how inception branch outputs are merged.
	a, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{
			1, 2, // sample 0, channel 0
			10, 20, // sample 1, channel 0
		}, tensor.Shape{2, 1, 1, 2})
	require.NoError(t, err)
	b, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{
			3, 4, // sample 0, channel 0
			5, 6, // sample 0, channel 1
			30, 40, // sample 1, channel 0
			50, 60, // sample 1, channel 1
		}, tensor.Shape{2, 2, 1, 2})
	require.NoError(t, err)

	c := tensor.Cat([]*tensor.Tensor[float32, Backend]{a, b}, 1)
	assert.Equal(t, tensor.Shape{2, 3, 1, 2}, c.Shape())
	assert.Equal(t, []float32{
		1, 2, 3, 4, 5, 6,
		10, 20, 30, 40, 50, 60,
	}, c.Data())
}

func TestCatShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2}, tensor.Shape{1, 2})
	require.NoError(t, err)
	b, err := tensor.FromSlice[float32, Backend](backend, []float32{1, 2, 3}, tensor.Shape{1, 3})
	require.NoError(t, err)

	assert.Panics(t, func() {
		tensor.Cat([]*tensor.Tensor[float32, Backend]{a, b}, 0)
	})
}

func TestUnsqueeze(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 2, 3}, x.Unsqueeze(0).Shape())
	assert.Equal(t, tensor.Shape{2, 1, 3}, x.Unsqueeze(1).Shape())
	// -1 appends a trailing singleton, turning [batch, channels, time]
	// into [batch, channels, time, 1].
	assert.Equal(t, tensor.Shape{2, 3, 1}, x.Unsqueeze(-1).Shape())
}

func TestSqueeze(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 2, 3}, tensor.Shape{1, 3, 1})
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{3, 1}, x.Squeeze(0).Shape())
	assert.Equal(t, tensor.Shape{1, 3}, x.Squeeze(-1).Shape())
	assert.Panics(t, func() { x.Squeeze(1) })
}
