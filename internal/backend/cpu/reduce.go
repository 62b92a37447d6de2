package cpu

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// Sum reduces the tensor to a scalar.
func (c *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw(tensor.Shape{}, x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		var sum float32
		for _, v := range x.AsFloat32() {
			sum += v
		}
		result.AsFloat32()[0] = sum
	case tensor.Float64:
		var sum float64
		for _, v := range x.AsFloat64() {
			sum += v
		}
		result.AsFloat64()[0] = sum
	case tensor.Int32:
		var sum int32
		for _, v := range x.AsInt32() {
			sum += v
		}
		result.AsInt32()[0] = sum
	case tensor.Int64:
		var sum int64
		for _, v := range x.AsInt64() {
			sum += v
		}
		result.AsInt64()[0] = sum
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}
	return result
}

// SumDim sums along dim. With keepDim the reduced dimension stays as
// size 1, otherwise it is removed.
func (c *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape))

	outShape := reducedShape(shape, dim, keepDim)
	result := mustNewRaw(outShape, x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		sumDimFloat32(result.AsFloat32(), x.AsFloat32(), shape, dim)
	case tensor.Float64:
		sumDimFloat64(result.AsFloat64(), x.AsFloat64(), shape, dim)
	default:
		panic(fmt.Sprintf("sum dim: unsupported dtype %s", x.DType()))
	}
	return result
}

// MeanDim averages along dim.
func (c *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	norm := normalizeDim(dim, len(shape))
	result := c.SumDim(x, norm, keepDim)

	count := shape[norm]
	switch result.DType() {
	case tensor.Float32:
		data := result.AsFloat32()
		for i := range data {
			data[i] /= float32(count)
		}
	case tensor.Float64:
		data := result.AsFloat64()
		for i := range data {
			data[i] /= float64(count)
		}
	}
	return result
}

// Argmax returns the index of the maximum element along dim as an Int32
// tensor. The reduced dimension is removed.
func (c *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape))

	outShape := reducedShape(shape, dim, false)
	result := mustNewRaw(outShape, tensor.Int32, c.device)

	switch x.DType() {
	case tensor.Float32:
		argmaxFloat32(result.AsInt32(), x.AsFloat32(), shape, dim)
	case tensor.Float64:
		argmaxFloat64(result.AsInt32(), x.AsFloat64(), shape, dim)
	default:
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}
	return result
}

func normalizeDim(dim, ndim int) int {
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("dimension %d out of range for %d dimensions", dim, ndim))
	}
	return dim
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, s := range shape {
		if i != dim {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}

// reduceGroups iterates over all index groups that differ only in the
// reduced dimension. For each group it yields the base flat index and
// the stride of the reduced dimension.
func reduceGroups(shape tensor.Shape, dim int, visit func(groupIdx, baseIdx, dimStride int)) {
	strides := shape.ComputeStrides()
	groups := shape.NumElements() / shape[dim]

	for g := 0; g < groups; g++ {
		remaining := g
		baseIdx := 0
		for i := len(shape) - 1; i >= 0; i-- {
			if i == dim {
				continue
			}
			coord := remaining % shape[i]
			remaining /= shape[i]
			baseIdx += coord * strides[i]
		}
		visit(g, baseIdx, strides[dim])
	}
}

func sumDimFloat32(dst, src []float32, shape tensor.Shape, dim int) {
	reduceGroups(shape, dim, func(g, baseIdx, dimStride int) {
		var sum float32
		for j := 0; j < shape[dim]; j++ {
			sum += src[baseIdx+j*dimStride]
		}
		dst[g] = sum
	})
}

func sumDimFloat64(dst, src []float64, shape tensor.Shape, dim int) {
	reduceGroups(shape, dim, func(g, baseIdx, dimStride int) {
		var sum float64
		for j := 0; j < shape[dim]; j++ {
			sum += src[baseIdx+j*dimStride]
		}
		dst[g] = sum
	})
}

func argmaxFloat32(dst []int32, src []float32, shape tensor.Shape, dim int) {
	reduceGroups(shape, dim, func(g, baseIdx, dimStride int) {
		best := 0
		bestVal := src[baseIdx]
		for j := 1; j < shape[dim]; j++ {
			if v := src[baseIdx+j*dimStride]; v > bestVal {
				bestVal = v
				best = j
			}
		}
		//nolint:gosec // G115: dimension sizes fit in int32.
		dst[g] = int32(best)
	})
}

func argmaxFloat64(dst []int32, src []float64, shape tensor.Shape, dim int) {
	reduceGroups(shape, dim, func(g, baseIdx, dimStride int) {
		best := 0
		bestVal := src[baseIdx]
		for j := 1; j < shape[dim]; j++ {
			if v := src[baseIdx+j*dimStride]; v > bestVal {
				bestVal = v
				best = j
			}
		}
		//nolint:gosec // G115: dimension sizes fit in int32.
		dst[g] = int32(best)
	})
}
