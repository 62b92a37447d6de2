package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/cortex/internal/tensor"
)

// Exp computes the element-wise exponential.
func (c *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		dst, src := result.AsFloat32(), x.AsFloat32()
		for i, v := range src {
			dst[i] = float32(math.Exp(float64(v)))
		}
	case tensor.Float64:
		dst, src := result.AsFloat64(), x.AsFloat64()
		for i, v := range src {
			dst[i] = math.Exp(v)
		}
	default:
		panic(fmt.Sprintf("exp: unsupported dtype %s", x.DType()))
	}
	return result
}

// Log computes the element-wise natural logarithm. Panics on
// non-positive values.
func (c *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		dst, src := result.AsFloat32(), x.AsFloat32()
		for i, v := range src {
			if v <= 0 {
				panic(fmt.Sprintf("log: non-positive value at index %d: %f", i, v))
			}
			dst[i] = float32(math.Log(float64(v)))
		}
	case tensor.Float64:
		dst, src := result.AsFloat64(), x.AsFloat64()
		for i, v := range src {
			if v <= 0 {
				panic(fmt.Sprintf("log: non-positive value at index %d: %f", i, v))
			}
			dst[i] = math.Log(v)
		}
	default:
		panic(fmt.Sprintf("log: unsupported dtype %s", x.DType()))
	}
	return result
}

// Sqrt computes the element-wise square root. Panics on negative
// values.
func (c *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		dst, src := result.AsFloat32(), x.AsFloat32()
		for i, v := range src {
			if v < 0 {
				panic(fmt.Sprintf("sqrt: negative value at index %d: %f", i, v))
			}
			dst[i] = float32(math.Sqrt(float64(v)))
		}
	case tensor.Float64:
		dst, src := result.AsFloat64(), x.AsFloat64()
		for i, v := range src {
			if v < 0 {
				panic(fmt.Sprintf("sqrt: negative value at index %d: %f", i, v))
			}
			dst[i] = math.Sqrt(v)
		}
	default:
		panic(fmt.Sprintf("sqrt: unsupported dtype %s", x.DType()))
	}
	return result
}
