// Copyright 2026 Cortex ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/cortex/internal/nn"
	"github.com/born-ml/cortex/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(288, 4, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Conv2D represents a 2D convolutional layer.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer. Stride is given per
// spatial axis and padding as {top, bottom, left, right}.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D(22, 48, [2]int{1, 25}, [2]int{1, 1}, nn.SamePadding([2]int{1, 25}), backend)
func NewConv2D[B tensor.Backend](inChannels, outChannels int, kernel, stride [2]int, padding [4]int, backend B) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernel, stride, padding, backend)
}

// SamePadding returns the asymmetric padding that preserves spatial
// size at stride 1.
func SamePadding(kernel [2]int) [4]int {
	return nn.SamePadding(kernel)
}

// BatchNorm2d represents per-channel batch normalization over 4D
// inputs.
type BatchNorm2d[B tensor.Backend] = nn.BatchNorm2d[B]

// NewBatchNorm2d creates a new batch normalization layer.
//
// Example:
//
//	backend := cpu.New()
//	norm := nn.NewBatchNorm2d(288, backend)
func NewBatchNorm2d[B tensor.Backend](numFeatures int, backend B) *BatchNorm2d[B] {
	return nn.NewBatchNorm2d(numFeatures, backend)
}

// MaxPool2D represents a 2D max pooling layer.
type MaxPool2D[B tensor.Backend] = nn.MaxPool2D[B]

// NewMaxPool2D creates a new 2D max pooling layer.
//
// Example:
//
//	backend := cpu.New()
//	pool := nn.NewMaxPool2D([2]int{1, 25}, [2]int{1, 1}, [2]int{0, 12}, backend)
func NewMaxPool2D[B tensor.Backend](kernel, stride, padding [2]int, backend B) *MaxPool2D[B] {
	return nn.NewMaxPool2D(kernel, stride, padding, backend)
}

// AvgPool2D represents a 2D average pooling layer.
type AvgPool2D[B tensor.Backend] = nn.AvgPool2D[B]

// NewAvgPool2D creates a new 2D average pooling layer. A zero stride
// defaults to the kernel size.
//
// Example:
//
//	backend := cpu.New()
//	pool := nn.NewAvgPool2D([2]int{1, 1125}, [2]int{}, backend)
func NewAvgPool2D[B tensor.Backend](kernel, stride [2]int, backend B) *AvgPool2D[B] {
	return nn.NewAvgPool2D(kernel, stride, backend)
}

// Flatten collapses all dimensions after the batch dimension.
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a new flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
//
// Example:
//
//	relu := nn.NewReLU[Backend]()
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// ELU represents the Exponential Linear Unit activation function.
type ELU[B tensor.Backend] = nn.ELU[B]

// NewELU creates a new ELU activation layer.
//
// Example:
//
//	elu := nn.NewELU[Backend](1.0)
func NewELU[B tensor.Backend](alpha float64) *ELU[B] {
	return nn.NewELU[B](alpha)
}

// LogSoftmax applies the log-softmax function along a fixed dimension.
type LogSoftmax[B tensor.Backend] = nn.LogSoftmax[B]

// NewLogSoftmax creates a new log-softmax layer.
//
// Example:
//
//	out := nn.NewLogSoftmax[Backend](1)
func NewLogSoftmax[B tensor.Backend](dim int) *LogSoftmax[B] {
	return nn.NewLogSoftmax[B](dim)
}

// Sequential

// Sequential represents a sequential container of modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new sequential model.
//
// Example:
//
//	backend := cpu.New()
//	model := nn.NewSequential(
//	    nn.NewLinear(288, 64, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(64, 4, backend),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization functions

// Xavier initializes a tensor using Xavier/Glorot initialization.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros initializes a tensor with zeros (for biases).
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones initializes a tensor with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}
