package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cortex/internal/backend/cpu"
	"github.com/born-ml/cortex/internal/nn"
	"github.com/born-ml/cortex/internal/tensor"
)

func TestMaxPool2DLayer(t *testing.T) {
	backend := cpu.New()

	layer := nn.NewMaxPool2D([2]int{1, 3}, [2]int{1, 1}, [2]int{0, 1}, backend)
	input, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 3, 2, 5}, tensor.Shape{1, 1, 1, 4})
	require.NoError(t, err)

	out := layer.Forward(input)
	assert.Equal(t, tensor.Shape{1, 1, 1, 4}, out.Shape())
	assert.Equal(t, []float32{3, 3, 5, 5}, out.Data())
}

func TestAvgPool2DLayerDefaultStride(t *testing.T) {
	backend := cpu.New()

	// Zero stride falls back to the kernel size, giving disjoint
	// windows.
	layer := nn.NewAvgPool2D([2]int{1, 2}, [2]int{}, backend)
	input, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 3, 5, 7}, tensor.Shape{1, 1, 1, 4})
	require.NoError(t, err)

	out := layer.Forward(input)
	assert.Equal(t, tensor.Shape{1, 1, 1, 2}, out.Shape())
	assert.Equal(t, []float32{2, 6}, out.Data())
}
