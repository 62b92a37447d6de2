// Copyright 2026 Cortex ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/cortex/internal/tensor"

// Backend defines the interface that all compute backends must
// implement. Backends handle the actual computation for tensor
// operations.
//
// Implementations:
//   - backend/cpu: Pure Go with BLAS-accelerated matrix products
//
// Example:
//
//	import (
//	    "github.com/born-ml/cortex/tensor"
//	    "github.com/born-ml/cortex/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.
	Div(a, b *RawTensor) *RawTensor // Element-wise division.

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor // Matrix multiplication.

	// Convolutional operations.
	Conv2D(input, kernel *RawTensor, stride [2]int, padding [4]int) *RawTensor        // 2D convolution with asymmetric padding.
	MaxPool2D(input *RawTensor, kernel, stride, padding [2]int) *RawTensor            // 2D max pooling.
	AvgPool2D(input *RawTensor, kernel, stride [2]int) *RawTensor                     // 2D average pooling.
	BatchNorm2d(input, gamma, beta, mean, variance *RawTensor, eps float64) *RawTensor // Per-channel normalization.

	// Shape operations.
	Reshape(x *RawTensor, shape Shape) *RawTensor  // Reshape tensor.
	Transpose(x *RawTensor, axes []int) *RawTensor // Permute dimensions.

	// Scalar operations (element-wise with scalar).
	MulScalar(x *RawTensor, scalar any) *RawTensor // Multiply by scalar.
	AddScalar(x *RawTensor, scalar any) *RawTensor // Add scalar.
	SubScalar(x *RawTensor, scalar any) *RawTensor // Subtract scalar.
	DivScalar(x *RawTensor, scalar any) *RawTensor // Divide by scalar.

	// Math operations (element-wise).
	Exp(x *RawTensor) *RawTensor  // Exponential.
	Log(x *RawTensor) *RawTensor  // Natural logarithm.
	Sqrt(x *RawTensor) *RawTensor // Square root.

	// Activation functions.
	Softmax(x *RawTensor, dim int) *RawTensor    // Softmax along dimension.
	LogSoftmax(x *RawTensor, dim int) *RawTensor // Log-softmax along dimension.

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                            // Total sum (scalar result).
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // Sum along dimension.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // Mean along dimension.
	Argmax(x *RawTensor, dim int) *RawTensor                // Index of maximum value along dimension.

	// Manipulation operations.
	Cat(tensors []*RawTensor, dim int) *RawTensor // Concatenate along dimension.
	Unsqueeze(x *RawTensor, dim int) *RawTensor   // Add dimension of size 1.
	Squeeze(x *RawTensor, dim int) *RawTensor     // Remove dimension of size 1.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that the internal Backend matches the public one.
var _ Backend = tensor.Backend(nil)
