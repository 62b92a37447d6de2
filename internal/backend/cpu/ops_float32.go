package cpu

import "github.com/born-ml/cortex/internal/tensor"

func addInplaceFloat32(a, b []float32) {
	for i := range a {
		a[i] += b[i]
	}
}

func addVectorizedFloat32(dst, a, b []float32) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func subInplaceFloat32(a, b []float32) {
	for i := range a {
		a[i] -= b[i]
	}
}

func subVectorizedFloat32(dst, a, b []float32) {
	for i := range dst {
		dst[i] = a[i] - b[i]
	}
}

func mulInplaceFloat32(a, b []float32) {
	for i := range a {
		a[i] *= b[i]
	}
}

func mulVectorizedFloat32(dst, a, b []float32) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

func divInplaceFloat32(a, b []float32) {
	for i := range a {
		a[i] /= b[i]
	}
}

func divVectorizedFloat32(dst, a, b []float32) {
	for i := range dst {
		dst[i] = a[i] / b[i]
	}
}

func addBroadcastFloat32(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	broadcastBinaryFloat32(dst, a, b, outShape, func(x, y float32) float32 { return x + y })
}

func subBroadcastFloat32(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	broadcastBinaryFloat32(dst, a, b, outShape, func(x, y float32) float32 { return x - y })
}

func mulBroadcastFloat32(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	broadcastBinaryFloat32(dst, a, b, outShape, func(x, y float32) float32 { return x * y })
}

func divBroadcastFloat32(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	broadcastBinaryFloat32(dst, a, b, outShape, func(x, y float32) float32 { return x / y })
}

func broadcastBinaryFloat32(dst, a, b *tensor.RawTensor, outShape tensor.Shape, op func(x, y float32) float32) {
	dstData := dst.AsFloat32()
	aData := a.AsFloat32()
	bData := b.AsFloat32()

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

func transposeFloat32(dst, src *tensor.RawTensor, axes []int) {
	dstData := dst.AsFloat32()
	srcData := src.AsFloat32()

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
