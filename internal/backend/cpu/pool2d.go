package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/cortex/internal/tensor"
)

// MaxPool2D applies max pooling over the spatial axes of a 4D input
// [N, C, H, W]. Padding adds implicit rows and columns of negative
// infinity on each side, so a window never selects a padded position
// unless it contains nothing else.
func (c *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernel, stride, padding [2]int) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("maxpool2d: input must be 4D [N, C, H, W], have %v", shape))
	}
	if kernel[0] <= 0 || kernel[1] <= 0 {
		panic(fmt.Sprintf("maxpool2d: kernel must be positive, have %v", kernel))
	}
	if stride[0] <= 0 || stride[1] <= 0 {
		panic(fmt.Sprintf("maxpool2d: stride must be positive, have %v", stride))
	}
	if padding[0] < 0 || padding[1] < 0 {
		panic(fmt.Sprintf("maxpool2d: padding must be non-negative, have %v", padding))
	}

	n, ch, h, w := shape[0], shape[1], shape[2], shape[3]
	hOut := (h+2*padding[0]-kernel[0])/stride[0] + 1
	wOut := (w+2*padding[1]-kernel[1])/stride[1] + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("maxpool2d: kernel %v does not fit input %dx%d with stride %v padding %v",
			kernel, h, w, stride, padding))
	}

	result := mustNewRaw(tensor.Shape{n, ch, hOut, wOut}, input.DType(), c.device)

	switch input.DType() {
	case tensor.Float32:
		maxPool2dFloat32(result.AsFloat32(), input.AsFloat32(), n, ch, h, w, kernel, stride, padding, hOut, wOut)
	case tensor.Float64:
		maxPool2dFloat64(result.AsFloat64(), input.AsFloat64(), n, ch, h, w, kernel, stride, padding, hOut, wOut)
	default:
		panic(fmt.Sprintf("maxpool2d: unsupported dtype %s", input.DType()))
	}
	return result
}

// AvgPool2D applies average pooling over the spatial axes of a 4D input
// [N, C, H, W]. Windows must lie fully inside the input.
func (c *CPUBackend) AvgPool2D(input *tensor.RawTensor, kernel, stride [2]int) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("avgpool2d: input must be 4D [N, C, H, W], have %v", shape))
	}
	if kernel[0] <= 0 || kernel[1] <= 0 {
		panic(fmt.Sprintf("avgpool2d: kernel must be positive, have %v", kernel))
	}
	if stride[0] <= 0 || stride[1] <= 0 {
		panic(fmt.Sprintf("avgpool2d: stride must be positive, have %v", stride))
	}

	n, ch, h, w := shape[0], shape[1], shape[2], shape[3]
	if kernel[0] > h || kernel[1] > w {
		panic(fmt.Sprintf("avgpool2d: kernel %v larger than input %dx%d", kernel, h, w))
	}
	hOut := (h-kernel[0])/stride[0] + 1
	wOut := (w-kernel[1])/stride[1] + 1

	result := mustNewRaw(tensor.Shape{n, ch, hOut, wOut}, input.DType(), c.device)

	switch input.DType() {
	case tensor.Float32:
		avgPool2dFloat32(result.AsFloat32(), input.AsFloat32(), n, ch, h, w, kernel, stride, hOut, wOut)
	case tensor.Float64:
		avgPool2dFloat64(result.AsFloat64(), input.AsFloat64(), n, ch, h, w, kernel, stride, hOut, wOut)
	default:
		panic(fmt.Sprintf("avgpool2d: unsupported dtype %s", input.DType()))
	}
	return result
}

func maxPool2dFloat32(output, input []float32, n, ch, h, w int, kernel, stride, padding [2]int, hOut, wOut int) {
	negInf := float32(math.Inf(-1))
	for bi := 0; bi < n; bi++ {
		for ci := 0; ci < ch; ci++ {
			chanData := input[(bi*ch+ci)*h*w : (bi*ch+ci+1)*h*w]
			for outH := 0; outH < hOut; outH++ {
				hStart := outH*stride[0] - padding[0]
				for outW := 0; outW < wOut; outW++ {
					wStart := outW*stride[1] - padding[1]
					maxVal := negInf
					for ki := 0; ki < kernel[0]; ki++ {
						inH := hStart + ki
						if inH < 0 || inH >= h {
							continue
						}
						rowData := chanData[inH*w : (inH+1)*w]
						for kj := 0; kj < kernel[1]; kj++ {
							inW := wStart + kj
							if inW < 0 || inW >= w {
								continue
							}
							if rowData[inW] > maxVal {
								maxVal = rowData[inW]
							}
						}
					}
					output[((bi*ch+ci)*hOut+outH)*wOut+outW] = maxVal
				}
			}
		}
	}
}

func maxPool2dFloat64(output, input []float64, n, ch, h, w int, kernel, stride, padding [2]int, hOut, wOut int) {
	negInf := math.Inf(-1)
	for bi := 0; bi < n; bi++ {
		for ci := 0; ci < ch; ci++ {
			chanData := input[(bi*ch+ci)*h*w : (bi*ch+ci+1)*h*w]
			for outH := 0; outH < hOut; outH++ {
				hStart := outH*stride[0] - padding[0]
				for outW := 0; outW < wOut; outW++ {
					wStart := outW*stride[1] - padding[1]
					maxVal := negInf
					for ki := 0; ki < kernel[0]; ki++ {
						inH := hStart + ki
						if inH < 0 || inH >= h {
							continue
						}
						rowData := chanData[inH*w : (inH+1)*w]
						for kj := 0; kj < kernel[1]; kj++ {
							inW := wStart + kj
							if inW < 0 || inW >= w {
								continue
							}
							if rowData[inW] > maxVal {
								maxVal = rowData[inW]
							}
						}
					}
					output[((bi*ch+ci)*hOut+outH)*wOut+outW] = maxVal
				}
			}
		}
	}
}

func avgPool2dFloat32(output, input []float32, n, ch, h, w int, kernel, stride [2]int, hOut, wOut int) {
	windowSize := float32(kernel[0] * kernel[1])
	for bi := 0; bi < n; bi++ {
		for ci := 0; ci < ch; ci++ {
			chanData := input[(bi*ch+ci)*h*w : (bi*ch+ci+1)*h*w]
			for outH := 0; outH < hOut; outH++ {
				hStart := outH * stride[0]
				for outW := 0; outW < wOut; outW++ {
					wStart := outW * stride[1]
					var sum float32
					for ki := 0; ki < kernel[0]; ki++ {
						rowData := chanData[(hStart+ki)*w : (hStart+ki+1)*w]
						for kj := 0; kj < kernel[1]; kj++ {
							sum += rowData[wStart+kj]
						}
					}
					output[((bi*ch+ci)*hOut+outH)*wOut+outW] = sum / windowSize
				}
			}
		}
	}
}

func avgPool2dFloat64(output, input []float64, n, ch, h, w int, kernel, stride [2]int, hOut, wOut int) {
	windowSize := float64(kernel[0] * kernel[1])
	for bi := 0; bi < n; bi++ {
		for ci := 0; ci < ch; ci++ {
			chanData := input[(bi*ch+ci)*h*w : (bi*ch+ci+1)*h*w]
			for outH := 0; outH < hOut; outH++ {
				hStart := outH * stride[0]
				for outW := 0; outW < wOut; outW++ {
					wStart := outW * stride[1]
					var sum float64
					for ki := 0; ki < kernel[0]; ki++ {
						rowData := chanData[(hStart+ki)*w : (hStart+ki+1)*w]
						for kj := 0; kj < kernel[1]; kj++ {
							sum += rowData[wStart+kj]
						}
					}
					output[((bi*ch+ci)*hOut+outH)*wOut+outW] = sum / windowSize
				}
			}
		}
	}
}
