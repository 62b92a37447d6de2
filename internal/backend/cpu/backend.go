// Package cpu implements the CPU backend with BLAS-accelerated matrix
// products and vectorized element-wise kernels.
package cpu

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// CPUBackend computes tensor operations on the host processor.
type CPUBackend struct {
	device tensor.Device
}

// New creates a CPU backend.
func New() *CPUBackend {
	return &CPUBackend{device: tensor.CPU}
}

// Name returns the backend name.
func (c *CPUBackend) Name() string { return "CPU" }

// Device returns the compute device.
func (c *CPUBackend) Device() tensor.Device { return c.device }

// Add computes element-wise a + b with broadcasting.
func (c *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("add: %v", err))
	}

	if !needsBroadcast {
		if a.IsUnique() {
			addInplace(a, b)
			return a
		}
		result := mustNewRaw(outShape, a.DType(), c.device)
		addVectorized(result, a, b)
		return result
	}

	result := mustNewRaw(outShape, a.DType(), c.device)
	addWithBroadcast(result, a, b, outShape)
	return result
}

// Sub computes element-wise a - b with broadcasting.
func (c *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("sub: %v", err))
	}

	if !needsBroadcast {
		if a.IsUnique() {
			subInplace(a, b)
			return a
		}
		result := mustNewRaw(outShape, a.DType(), c.device)
		subVectorized(result, a, b)
		return result
	}

	result := mustNewRaw(outShape, a.DType(), c.device)
	subWithBroadcast(result, a, b, outShape)
	return result
}

// Mul computes element-wise a * b with broadcasting.
func (c *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("mul: %v", err))
	}

	if !needsBroadcast {
		if a.IsUnique() {
			mulInplace(a, b)
			return a
		}
		result := mustNewRaw(outShape, a.DType(), c.device)
		mulVectorized(result, a, b)
		return result
	}

	result := mustNewRaw(outShape, a.DType(), c.device)
	mulWithBroadcast(result, a, b, outShape)
	return result
}

// Div computes element-wise a / b with broadcasting.
func (c *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("div: %v", err))
	}

	if !needsBroadcast {
		if a.IsUnique() {
			divInplace(a, b)
			return a
		}
		result := mustNewRaw(outShape, a.DType(), c.device)
		divVectorized(result, a, b)
		return result
	}

	result := mustNewRaw(outShape, a.DType(), c.device)
	divWithBroadcast(result, a, b, outShape)
	return result
}

// Reshape returns a tensor with the same data and a new shape.
func (c *CPUBackend) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	if shape.NumElements() != x.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			x.Shape(), x.NumElements(), shape, shape.NumElements()))
	}

	// TODO: Make this a true view instead of a copy once strided
	// kernels land.
	result := mustNewRaw(shape, x.DType(), c.device)
	copy(result.Data(), x.Data())
	return result
}

// Transpose permutes the tensor's axes. With nil axes the order is
// reversed.
func (c *CPUBackend) Transpose(x *tensor.RawTensor, axes []int) *tensor.RawTensor {
	ndim := len(x.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", ndim, len(axes)))
	}

	seen := make([]bool, ndim)
	for _, axis := range axes {
		if axis < 0 || axis >= ndim {
			panic(fmt.Sprintf("transpose: axis %d out of range for %d dimensions", axis, ndim))
		}
		if seen[axis] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", axis))
		}
		seen[axis] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, axis := range axes {
		newShape[i] = x.Shape()[axis]
	}

	result := mustNewRaw(newShape, x.DType(), c.device)
	transposeData(result, x, axes)
	return result
}

// mustNewRaw allocates a raw tensor or panics. Allocation failures at
// this level are shape-validation bugs.
func mustNewRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("tensor allocation failed: %v", err))
	}
	return raw
}
