package nn

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// MaxPool2D applies max pooling over the spatial axes of a 4D input.
// Padded positions contribute negative infinity.
type MaxPool2D[B tensor.Backend] struct {
	kernel  [2]int
	stride  [2]int
	padding [2]int
	backend B
}

// NewMaxPool2D creates a max pooling layer.
func NewMaxPool2D[B tensor.Backend](kernel, stride, padding [2]int, backend B) *MaxPool2D[B] {
	if kernel[0] <= 0 || kernel[1] <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %v", kernel))
	}
	if stride[0] <= 0 || stride[1] <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %v", stride))
	}
	return &MaxPool2D[B]{kernel: kernel, stride: stride, padding: padding, backend: backend}
}

// Forward pools a 4D input [N, C, H, W].
func (m *MaxPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	raw := m.backend.MaxPool2D(input.Raw(), m.kernel, m.stride, m.padding)
	return tensor.New[float32, B](raw, m.backend)
}

// Parameters returns nil; pooling has no learnable state.
func (m *MaxPool2D[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (m *MaxPool2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op.
func (m *MaxPool2D[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// String returns a short description of the layer.
func (m *MaxPool2D[B]) String() string {
	return fmt.Sprintf("MaxPool2D(kernel=%dx%d, stride=%dx%d, padding=%dx%d)",
		m.kernel[0], m.kernel[1], m.stride[0], m.stride[1], m.padding[0], m.padding[1])
}

// AvgPool2D applies average pooling over the spatial axes of a 4D
// input.
type AvgPool2D[B tensor.Backend] struct {
	kernel  [2]int
	stride  [2]int
	backend B
}

// NewAvgPool2D creates an average pooling layer. The stride defaults
// to the kernel size when zero.
func NewAvgPool2D[B tensor.Backend](kernel, stride [2]int, backend B) *AvgPool2D[B] {
	if kernel[0] <= 0 || kernel[1] <= 0 {
		panic(fmt.Sprintf("avgpool2d: invalid kernel size %v", kernel))
	}
	if stride == [2]int{} {
		stride = kernel
	}
	if stride[0] <= 0 || stride[1] <= 0 {
		panic(fmt.Sprintf("avgpool2d: invalid stride %v", stride))
	}
	return &AvgPool2D[B]{kernel: kernel, stride: stride, backend: backend}
}

// Forward pools a 4D input [N, C, H, W].
func (a *AvgPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	raw := a.backend.AvgPool2D(input.Raw(), a.kernel, a.stride)
	return tensor.New[float32, B](raw, a.backend)
}

// Parameters returns nil; pooling has no learnable state.
func (a *AvgPool2D[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (a *AvgPool2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op.
func (a *AvgPool2D[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// String returns a short description of the layer.
func (a *AvgPool2D[B]) String() string {
	return fmt.Sprintf("AvgPool2D(kernel=%dx%d, stride=%dx%d)",
		a.kernel[0], a.kernel[1], a.stride[0], a.stride[1])
}
