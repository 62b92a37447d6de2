package cpu

import "github.com/born-ml/cortex/internal/tensor"

func addInplaceFloat64(a, b []float64) {
	for i := range a {
		a[i] += b[i]
	}
}

func addVectorizedFloat64(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func subInplaceFloat64(a, b []float64) {
	for i := range a {
		a[i] -= b[i]
	}
}

func subVectorizedFloat64(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] - b[i]
	}
}

func mulInplaceFloat64(a, b []float64) {
	for i := range a {
		a[i] *= b[i]
	}
}

func mulVectorizedFloat64(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

func divInplaceFloat64(a, b []float64) {
	for i := range a {
		a[i] /= b[i]
	}
}

func divVectorizedFloat64(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] / b[i]
	}
}

func addBroadcastFloat64(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	broadcastBinaryFloat64(dst, a, b, outShape, func(x, y float64) float64 { return x + y })
}

func subBroadcastFloat64(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	broadcastBinaryFloat64(dst, a, b, outShape, func(x, y float64) float64 { return x - y })
}

func mulBroadcastFloat64(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	broadcastBinaryFloat64(dst, a, b, outShape, func(x, y float64) float64 { return x * y })
}

func divBroadcastFloat64(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	broadcastBinaryFloat64(dst, a, b, outShape, func(x, y float64) float64 { return x / y })
}

func broadcastBinaryFloat64(dst, a, b *tensor.RawTensor, outShape tensor.Shape, op func(x, y float64) float64) {
	dstData := dst.AsFloat64()
	aData := a.AsFloat64()
	bData := b.AsFloat64()

	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(a.Shape(), a.Strides(), outShape)
	bStrides := computeBroadcastStridesForShape(b.Shape(), b.Strides(), outShape)

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		aIdx := computeFlatIndex(i, outStrides, aStrides)
		bIdx := computeFlatIndex(i, outStrides, bStrides)
		dstData[i] = op(aData[aIdx], bData[bIdx])
	}
}

func transposeFloat64(dst, src *tensor.RawTensor, axes []int) {
	dstData := dst.AsFloat64()
	srcData := src.AsFloat64()

	srcStrides := src.Strides()
	dstStrides := dst.Shape().ComputeStrides()
	srcShape := src.Shape()

	n := src.NumElements()
	coords := make([]int, len(srcShape))
	for i := 0; i < n; i++ {
		remaining := i
		for d := range srcShape {
			coords[d] = remaining / srcStrides[d]
			remaining %= srcStrides[d]
		}

		dstIdx := 0
		for d, axis := range axes {
			dstIdx += coords[axis] * dstStrides[d]
		}
		dstData[dstIdx] = srcData[i]
	}
}
