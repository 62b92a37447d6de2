package nn

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// Conv2D is a 2D convolution layer. The weight has shape
// [outChannels, inChannels, KH, KW] and the bias [outChannels].
// Padding is explicit as {top, bottom, left, right}.
type Conv2D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernel      [2]int
	stride      [2]int
	padding     [4]int
	weight      *Parameter[B]
	bias        *Parameter[B]
	backend     B
}

// SamePadding returns the asymmetric zero padding that keeps the
// spatial size unchanged at stride 1. Even kernels pad one extra
// position on the bottom and right.
func SamePadding(kernel [2]int) [4]int {
	return [4]int{
		(kernel[0] - 1) / 2, kernel[0] / 2,
		(kernel[1] - 1) / 2, kernel[1] / 2,
	}
}

// NewConv2D creates a convolution layer with Xavier-initialized weights
// and zero bias.
func NewConv2D[B tensor.Backend](inChannels, outChannels int, kernel, stride [2]int, padding [4]int, backend B) *Conv2D[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernel[0] <= 0 || kernel[1] <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size %v", kernel))
	}
	if stride[0] <= 0 || stride[1] <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %v", stride))
	}

	fanIn := inChannels * kernel[0] * kernel[1]
	fanOut := outChannels * kernel[0] * kernel[1]
	weight := Xavier(fanIn, fanOut, tensor.Shape{outChannels, inChannels, kernel[0], kernel[1]}, backend)
	bias := Zeros(tensor.Shape{outChannels}, backend)

	return &Conv2D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernel:      kernel,
		stride:      stride,
		padding:     padding,
		weight:      NewParameter("conv2d.weight", weight),
		bias:        NewParameter("conv2d.bias", bias),
		backend:     backend,
	}
}

// Forward convolves a 4D input [N, C, H, W] and adds the bias.
func (c *Conv2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N, C, H, W], have %v", shape))
	}
	if shape[1] != c.inChannels {
		panic(fmt.Sprintf("conv2d: input has %d channels, want %d", shape[1], c.inChannels))
	}

	raw := c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), c.stride, c.padding)
	output := tensor.New[float32, B](raw, c.backend)
	return output.Add(c.bias.Tensor().Reshape(1, c.outChannels, 1, 1))
}

// Parameters returns the weight and bias.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{c.weight, c.bias}
}

// StateDict returns the layer's tensors keyed by name.
func (c *Conv2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": c.weight.Tensor().Raw(),
		"bias":   c.bias.Tensor().Raw(),
	}
}

// LoadStateDict restores the layer's tensors.
func (c *Conv2D[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	if err := loadInto(state, "weight", c.weight.Tensor().Raw()); err != nil {
		return err
	}
	return loadInto(state, "bias", c.bias.Tensor().Raw())
}

// InChannels returns the number of input channels.
func (c *Conv2D[B]) InChannels() int { return c.inChannels }

// OutChannels returns the number of output channels.
func (c *Conv2D[B]) OutChannels() int { return c.outChannels }

// KernelSize returns the kernel dimensions.
func (c *Conv2D[B]) KernelSize() [2]int { return c.kernel }

// String returns a short description of the layer.
func (c *Conv2D[B]) String() string {
	return fmt.Sprintf("Conv2D(in=%d, out=%d, kernel=%dx%d, stride=%dx%d)",
		c.inChannels, c.outChannels, c.kernel[0], c.kernel[1], c.stride[0], c.stride[1])
}
