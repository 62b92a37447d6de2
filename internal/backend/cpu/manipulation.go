package cpu

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// Cat concatenates tensors along dim. All tensors must agree in dtype,
// rank and every dimension except dim.
func (c *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: empty tensor list")
	}

	first := tensors[0]
	ndim := len(first.Shape())
	dim = normalizeDim(dim, ndim)

	totalDim := 0
	for i, t := range tensors {
		if len(t.Shape()) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, want %d", i, len(t.Shape()), ndim))
		}
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, want %s", i, t.DType(), first.DType()))
		}
		for d := 0; d < ndim; d++ {
			if d != dim && t.Shape()[d] != first.Shape()[d] {
				panic(fmt.Sprintf("cat: tensor %d has size %d at dimension %d, want %d",
					i, t.Shape()[d], d, first.Shape()[d]))
			}
		}
		totalDim += t.Shape()[dim]
	}

	outShape := first.Shape().Clone()
	outShape[dim] = totalDim
	result := mustNewRaw(outShape, first.DType(), c.device)

	// With row-major layout, concatenation along dim copies contiguous
	// runs of inner elements interleaved across the inputs.
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= outShape[d]
	}
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= outShape[d]
	}

	elemSize := first.DType().Size()
	dstData := result.Data()
	dstOffset := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			runBytes := t.Shape()[dim] * inner * elemSize
			srcData := t.Data()
			copy(dstData[dstOffset:dstOffset+runBytes], srcData[o*runBytes:(o+1)*runBytes])
			dstOffset += runBytes
		}
	}
	return result
}

// Unsqueeze inserts a size-1 dimension at dim. Negative dims count from
// the end of the result shape.
func (c *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %d dimensions", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)
	return c.Reshape(x, newShape)
}

// Squeeze removes the size-1 dimension at dim.
func (c *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape))
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, want 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, len(shape)-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	return c.Reshape(x, newShape)
}
