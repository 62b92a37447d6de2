package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/cortex/internal/tensor"
)

// Softmax applies the softmax function along dim with the usual
// max-subtraction for numerical stability.
func (c *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape))
	result := mustNewRaw(shape, x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		softmaxFloat32(result.AsFloat32(), x.AsFloat32(), shape, dim, false)
	case tensor.Float64:
		softmaxFloat64(result.AsFloat64(), x.AsFloat64(), shape, dim, false)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s", x.DType()))
	}
	return result
}

// LogSoftmax applies the log-softmax function along dim. Computed as
// (x - max) - log(sum(exp(x - max))) so no intermediate underflows to
// zero before the log.
func (c *CPUBackend) LogSoftmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape))
	result := mustNewRaw(shape, x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		softmaxFloat32(result.AsFloat32(), x.AsFloat32(), shape, dim, true)
	case tensor.Float64:
		softmaxFloat64(result.AsFloat64(), x.AsFloat64(), shape, dim, true)
	default:
		panic(fmt.Sprintf("log softmax: unsupported dtype %s", x.DType()))
	}
	return result
}

// ReLU computes max(x, 0) element-wise.
func (c *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		dst, src := result.AsFloat32(), x.AsFloat32()
		for i, v := range src {
			if v > 0 {
				dst[i] = v
			}
		}
	case tensor.Float64:
		dst, src := result.AsFloat64(), x.AsFloat64()
		for i, v := range src {
			if v > 0 {
				dst[i] = v
			}
		}
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", x.DType()))
	}
	return result
}

// ELU computes x for x > 0 and alpha*(exp(x)-1) otherwise.
func (c *CPUBackend) ELU(x *tensor.RawTensor, alpha float64) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		dst, src := result.AsFloat32(), x.AsFloat32()
		for i, v := range src {
			if v > 0 {
				dst[i] = v
			} else {
				dst[i] = float32(alpha * (math.Exp(float64(v)) - 1))
			}
		}
	case tensor.Float64:
		dst, src := result.AsFloat64(), x.AsFloat64()
		for i, v := range src {
			if v > 0 {
				dst[i] = v
			} else {
				dst[i] = alpha * (math.Exp(v) - 1)
			}
		}
	default:
		panic(fmt.Sprintf("elu: unsupported dtype %s", x.DType()))
	}
	return result
}

func softmaxFloat32(dst, src []float32, shape tensor.Shape, dim int, logSpace bool) {
	reduceGroups(shape, dim, func(_, baseIdx, dimStride int) {
		maxVal := float32(math.Inf(-1))
		for j := 0; j < shape[dim]; j++ {
			if v := src[baseIdx+j*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		var sum float64
		for j := 0; j < shape[dim]; j++ {
			sum += math.Exp(float64(src[baseIdx+j*dimStride] - maxVal))
		}

		if logSpace {
			logSum := float32(math.Log(sum))
			for j := 0; j < shape[dim]; j++ {
				idx := baseIdx + j*dimStride
				dst[idx] = src[idx] - maxVal - logSum
			}
			return
		}
		for j := 0; j < shape[dim]; j++ {
			idx := baseIdx + j*dimStride
			dst[idx] = float32(math.Exp(float64(src[idx]-maxVal)) / sum)
		}
	})
}

func softmaxFloat64(dst, src []float64, shape tensor.Shape, dim int, logSpace bool) {
	reduceGroups(shape, dim, func(_, baseIdx, dimStride int) {
		maxVal := math.Inf(-1)
		for j := 0; j < shape[dim]; j++ {
			if v := src[baseIdx+j*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		var sum float64
		for j := 0; j < shape[dim]; j++ {
			sum += math.Exp(src[baseIdx+j*dimStride] - maxVal)
		}

		if logSpace {
			logSum := math.Log(sum)
			for j := 0; j < shape[dim]; j++ {
				idx := baseIdx + j*dimStride
				dst[idx] = src[idx] - maxVal - logSum
			}
			return
		}
		for j := 0; j < shape[dim]; j++ {
			idx := baseIdx + j*dimStride
			dst[idx] = math.Exp(src[idx]-maxVal) / sum
		}
	})
}
