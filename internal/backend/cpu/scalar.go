package cpu

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// MulScalar multiplies every element by scalar.
func (c *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		mulScalarFloat32(result.AsFloat32(), x.AsFloat32(), scalar.(float32))
	case tensor.Float64:
		mulScalarFloat64(result.AsFloat64(), x.AsFloat64(), scalar.(float64))
	case tensor.Int32:
		mulScalarInt32(result.AsInt32(), x.AsInt32(), scalar.(int32))
	case tensor.Int64:
		mulScalarInt64(result.AsInt64(), x.AsInt64(), scalar.(int64))
	default:
		panic(fmt.Sprintf("mul scalar: unsupported dtype %s", x.DType()))
	}
	return result
}

// AddScalar adds scalar to every element.
func (c *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		addScalarFloat32(result.AsFloat32(), x.AsFloat32(), scalar.(float32))
	case tensor.Float64:
		addScalarFloat64(result.AsFloat64(), x.AsFloat64(), scalar.(float64))
	case tensor.Int32:
		addScalarInt32(result.AsInt32(), x.AsInt32(), scalar.(int32))
	case tensor.Int64:
		addScalarInt64(result.AsInt64(), x.AsInt64(), scalar.(int64))
	default:
		panic(fmt.Sprintf("add scalar: unsupported dtype %s", x.DType()))
	}
	return result
}

// SubScalar subtracts scalar from every element.
func (c *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		addScalarFloat32(result.AsFloat32(), x.AsFloat32(), -scalar.(float32))
	case tensor.Float64:
		addScalarFloat64(result.AsFloat64(), x.AsFloat64(), -scalar.(float64))
	case tensor.Int32:
		addScalarInt32(result.AsInt32(), x.AsInt32(), -scalar.(int32))
	case tensor.Int64:
		addScalarInt64(result.AsInt64(), x.AsInt64(), -scalar.(int64))
	default:
		panic(fmt.Sprintf("sub scalar: unsupported dtype %s", x.DType()))
	}
	return result
}

// DivScalar divides every element by scalar.
func (c *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		divScalarFloat32(result.AsFloat32(), x.AsFloat32(), scalar.(float32))
	case tensor.Float64:
		divScalarFloat64(result.AsFloat64(), x.AsFloat64(), scalar.(float64))
	case tensor.Int32:
		divScalarInt32(result.AsInt32(), x.AsInt32(), scalar.(int32))
	case tensor.Int64:
		divScalarInt64(result.AsInt64(), x.AsInt64(), scalar.(int64))
	default:
		panic(fmt.Sprintf("div scalar: unsupported dtype %s", x.DType()))
	}
	return result
}

func mulScalarFloat32(dst, src []float32, s float32) {
	for i := range dst {
		dst[i] = src[i] * s
	}
}

func mulScalarFloat64(dst, src []float64, s float64) {
	for i := range dst {
		dst[i] = src[i] * s
	}
}

func mulScalarInt32(dst, src []int32, s int32) {
	for i := range dst {
		dst[i] = src[i] * s
	}
}

func mulScalarInt64(dst, src []int64, s int64) {
	for i := range dst {
		dst[i] = src[i] * s
	}
}

func addScalarFloat32(dst, src []float32, s float32) {
	for i := range dst {
		dst[i] = src[i] + s
	}
}

func addScalarFloat64(dst, src []float64, s float64) {
	for i := range dst {
		dst[i] = src[i] + s
	}
}

func addScalarInt32(dst, src []int32, s int32) {
	for i := range dst {
		dst[i] = src[i] + s
	}
}

func addScalarInt64(dst, src []int64, s int64) {
	for i := range dst {
		dst[i] = src[i] + s
	}
}

func divScalarFloat32(dst, src []float32, s float32) {
	for i := range dst {
		dst[i] = src[i] / s
	}
}

func divScalarFloat64(dst, src []float64, s float64) {
	for i := range dst {
		dst[i] = src[i] / s
	}
}

func divScalarInt32(dst, src []int32, s int32) {
	for i := range dst {
		dst[i] = src[i] / s
	}
}

func divScalarInt64(dst, src []int64, s int64) {
	for i := range dst {
		dst[i] = src[i] / s
	}
}
