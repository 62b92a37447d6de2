package cpu

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// Dtype dispatch for element-wise arithmetic. The typed kernels live in
// ops_float32.go, ops_float64.go and ops_int.go.

func addInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		addInplaceFloat32(a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		addInplaceFloat64(a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		addInplaceInt32(a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		addInplaceInt64(a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("add: unsupported dtype %s", a.DType()))
	}
}

func addVectorized(dst, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		addVectorizedFloat32(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		addVectorizedFloat64(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		addVectorizedInt32(dst.AsInt32(), a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		addVectorizedInt64(dst.AsInt64(), a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("add: unsupported dtype %s", a.DType()))
	}
}

func addWithBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	switch a.DType() {
	case tensor.Float32:
		addBroadcastFloat32(dst, a, b, outShape)
	case tensor.Float64:
		addBroadcastFloat64(dst, a, b, outShape)
	default:
		panic(fmt.Sprintf("add: broadcasting unsupported for dtype %s", a.DType()))
	}
}

func subInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		subInplaceFloat32(a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		subInplaceFloat64(a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		subInplaceInt32(a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		subInplaceInt64(a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("sub: unsupported dtype %s", a.DType()))
	}
}

func subVectorized(dst, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		subVectorizedFloat32(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		subVectorizedFloat64(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		subVectorizedInt32(dst.AsInt32(), a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		subVectorizedInt64(dst.AsInt64(), a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("sub: unsupported dtype %s", a.DType()))
	}
}

func subWithBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	switch a.DType() {
	case tensor.Float32:
		subBroadcastFloat32(dst, a, b, outShape)
	case tensor.Float64:
		subBroadcastFloat64(dst, a, b, outShape)
	default:
		panic(fmt.Sprintf("sub: broadcasting unsupported for dtype %s", a.DType()))
	}
}

func mulInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		mulInplaceFloat32(a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		mulInplaceFloat64(a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		mulInplaceInt32(a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		mulInplaceInt64(a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("mul: unsupported dtype %s", a.DType()))
	}
}

func mulVectorized(dst, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		mulVectorizedFloat32(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		mulVectorizedFloat64(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		mulVectorizedInt32(dst.AsInt32(), a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		mulVectorizedInt64(dst.AsInt64(), a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("mul: unsupported dtype %s", a.DType()))
	}
}

func mulWithBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	switch a.DType() {
	case tensor.Float32:
		mulBroadcastFloat32(dst, a, b, outShape)
	case tensor.Float64:
		mulBroadcastFloat64(dst, a, b, outShape)
	default:
		panic(fmt.Sprintf("mul: broadcasting unsupported for dtype %s", a.DType()))
	}
}

func divInplace(a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		divInplaceFloat32(a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		divInplaceFloat64(a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		divInplaceInt32(a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		divInplaceInt64(a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("div: unsupported dtype %s", a.DType()))
	}
}

func divVectorized(dst, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		divVectorizedFloat32(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		divVectorizedFloat64(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		divVectorizedInt32(dst.AsInt32(), a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		divVectorizedInt64(dst.AsInt64(), a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("div: unsupported dtype %s", a.DType()))
	}
}

func divWithBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape) {
	switch a.DType() {
	case tensor.Float32:
		divBroadcastFloat32(dst, a, b, outShape)
	case tensor.Float64:
		divBroadcastFloat64(dst, a, b, outShape)
	default:
		panic(fmt.Sprintf("div: broadcasting unsupported for dtype %s", a.DType()))
	}
}

func transposeData(dst, src *tensor.RawTensor, axes []int) {
	switch src.DType() {
	case tensor.Float32:
		transposeFloat32(dst, src, axes)
	case tensor.Float64:
		transposeFloat64(dst, src, axes)
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", src.DType()))
	}
}
