package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/cortex/internal/tensor"
)

// BatchNorm2d normalizes a 4D input [N, C, H, W] per channel with the
// given mean and variance vectors of length C, then applies the affine
// transform gamma*x + beta in a single pass.
func (c *CPUBackend) BatchNorm2d(input, gamma, beta, mean, variance *tensor.RawTensor, eps float64) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: input must be 4D [N, C, H, W], have %v", shape))
	}
	ch := shape[1]
	for name, t := range map[string]*tensor.RawTensor{"gamma": gamma, "beta": beta, "mean": mean, "variance": variance} {
		if len(t.Shape()) != 1 || t.Shape()[0] != ch {
			panic(fmt.Sprintf("batchnorm2d: %s must have shape [%d], have %v", name, ch, t.Shape()))
		}
		if t.DType() != input.DType() {
			panic(fmt.Sprintf("batchnorm2d: %s dtype %s does not match input dtype %s", name, t.DType(), input.DType()))
		}
	}

	result := mustNewRaw(shape, input.DType(), c.device)
	n, h, w := shape[0], shape[2], shape[3]

	switch input.DType() {
	case tensor.Float32:
		batchNorm2dFloat32(result.AsFloat32(), input.AsFloat32(),
			gamma.AsFloat32(), beta.AsFloat32(), mean.AsFloat32(), variance.AsFloat32(),
			n, ch, h, w, eps)
	case tensor.Float64:
		batchNorm2dFloat64(result.AsFloat64(), input.AsFloat64(),
			gamma.AsFloat64(), beta.AsFloat64(), mean.AsFloat64(), variance.AsFloat64(),
			n, ch, h, w, eps)
	default:
		panic(fmt.Sprintf("batchnorm2d: unsupported dtype %s", input.DType()))
	}
	return result
}

func batchNorm2dFloat32(output, input, gamma, beta, mean, variance []float32, n, ch, h, w int, eps float64) {
	plane := h * w
	for ci := 0; ci < ch; ci++ {
		scale := gamma[ci] / float32(math.Sqrt(float64(variance[ci])+eps))
		shift := beta[ci] - mean[ci]*scale
		for bi := 0; bi < n; bi++ {
			base := (bi*ch + ci) * plane
			src := input[base : base+plane]
			dst := output[base : base+plane]
			for i, v := range src {
				dst[i] = v*scale + shift
			}
		}
	}
}

func batchNorm2dFloat64(output, input, gamma, beta, mean, variance []float64, n, ch, h, w int, eps float64) {
	plane := h * w
	for ci := 0; ci < ch; ci++ {
		scale := gamma[ci] / math.Sqrt(variance[ci]+eps)
		shift := beta[ci] - mean[ci]*scale
		for bi := 0; bi < n; bi++ {
			base := (bi*ch + ci) * plane
			src := input[base : base+plane]
			dst := output[base : base+plane]
			for i, v := range src {
				dst[i] = v*scale + shift
			}
		}
	}
}
