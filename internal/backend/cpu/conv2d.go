package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/born-ml/cortex/internal/tensor"
)

// Conv2D computes a 2D cross-correlation via im2col and a BLAS GEMM.
// The input is [N, CIn, H, W], the kernel [COut, CIn, KH, KW]. Stride
// is {strideH, strideW} and padding {top, bottom, left, right}.
//
// The im2col lowering follows Chellapilla et al., "High Performance
// Convolutional Neural Networks for Document Processing" (2006).
func (c *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride [2]int, padding [4]int) *tensor.RawTensor {
	inShape, kShape := input.Shape(), kernel.Shape()
	if len(inShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N, C, H, W], have %v", inShape))
	}
	if len(kShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [COut, CIn, KH, KW], have %v", kShape))
	}
	if inShape[1] != kShape[1] {
		panic(fmt.Sprintf("conv2d: input channels %d do not match kernel channels %d", inShape[1], kShape[1]))
	}
	if stride[0] <= 0 || stride[1] <= 0 {
		panic(fmt.Sprintf("conv2d: stride must be positive, have %v", stride))
	}
	for _, p := range padding {
		if p < 0 {
			panic(fmt.Sprintf("conv2d: padding must be non-negative, have %v", padding))
		}
	}
	if input.DType() != kernel.DType() {
		panic(fmt.Sprintf("conv2d: dtype mismatch: %s and %s", input.DType(), kernel.DType()))
	}

	n, cIn, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	cOut, kh, kw := kShape[0], kShape[2], kShape[3]

	hOut := (h+padding[0]+padding[1]-kh)/stride[0] + 1
	wOut := (w+padding[2]+padding[3]-kw)/stride[1] + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: kernel %dx%d does not fit input %dx%d with stride %v padding %v",
			kh, kw, h, w, stride, padding))
	}

	result := mustNewRaw(tensor.Shape{n, cOut, hOut, wOut}, input.DType(), c.device)

	switch input.DType() {
	case tensor.Float32:
		conv2dFloat32(result.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(),
			n, cIn, h, w, cOut, kh, kw, stride, padding, hOut, wOut)
	case tensor.Float64:
		conv2dFloat64(result.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(),
			n, cIn, h, w, cOut, kh, kw, stride, padding, hOut, wOut)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}
	return result
}

func conv2dFloat32(output, input, kernel []float32,
	n, cIn, h, w, cOut, kh, kw int, stride [2]int, padding [4]int, hOut, wOut int,
) {
	colWidth := cIn * kh * kw
	colHeight := n * hOut * wOut
	colBuf := make([]float32, colHeight*colWidth)
	im2colFloat32(colBuf, input, n, cIn, h, w, kh, kw, stride, padding, hOut, wOut)

	// out[cOut x colHeight] = kernel[cOut x colWidth] * colBuf^T
	flat := make([]float32, cOut*colHeight)
	blas32.Gemm(blas.NoTrans, blas.Trans, 1,
		blas32.General{Rows: cOut, Cols: colWidth, Stride: colWidth, Data: kernel},
		blas32.General{Rows: colHeight, Cols: colWidth, Stride: colWidth, Data: colBuf},
		0,
		blas32.General{Rows: cOut, Cols: colHeight, Stride: colHeight, Data: flat})

	// Rearrange [COut, N*HOut*WOut] into [N, COut, HOut, WOut].
	for bi := 0; bi < n; bi++ {
		for ci := 0; ci < cOut; ci++ {
			srcBase := ci*colHeight + bi*hOut*wOut
			dstBase := (bi*cOut + ci) * hOut * wOut
			copy(output[dstBase:dstBase+hOut*wOut], flat[srcBase:srcBase+hOut*wOut])
		}
	}
}

func conv2dFloat64(output, input, kernel []float64,
	n, cIn, h, w, cOut, kh, kw int, stride [2]int, padding [4]int, hOut, wOut int,
) {
	colWidth := cIn * kh * kw
	colHeight := n * hOut * wOut
	colBuf := make([]float64, colHeight*colWidth)
	im2colFloat64(colBuf, input, n, cIn, h, w, kh, kw, stride, padding, hOut, wOut)

	flat := make([]float64, cOut*colHeight)
	blas64.Gemm(blas.NoTrans, blas.Trans, 1,
		blas64.General{Rows: cOut, Cols: colWidth, Stride: colWidth, Data: kernel},
		blas64.General{Rows: colHeight, Cols: colWidth, Stride: colWidth, Data: colBuf},
		0,
		blas64.General{Rows: cOut, Cols: colHeight, Stride: colHeight, Data: flat})

	for bi := 0; bi < n; bi++ {
		for ci := 0; ci < cOut; ci++ {
			srcBase := ci*colHeight + bi*hOut*wOut
			dstBase := (bi*cOut + ci) * hOut * wOut
			copy(output[dstBase:dstBase+hOut*wOut], flat[srcBase:srcBase+hOut*wOut])
		}
	}
}

func im2colFloat32(colBuf, input []float32,
	n, cIn, h, w, kh, kw int, stride [2]int, padding [4]int, hOut, wOut int,
) {
	colWidth := cIn * kh * kw
	for bi := 0; bi < n; bi++ {
		for outH := 0; outH < hOut; outH++ {
			hStart := outH*stride[0] - padding[0]
			for outW := 0; outW < wOut; outW++ {
				wStart := outW*stride[1] - padding[2]
				rowBase := ((bi*hOut+outH)*wOut + outW) * colWidth
				col := 0
				for ci := 0; ci < cIn; ci++ {
					chanBase := (bi*cIn + ci) * h * w
					for ki := 0; ki < kh; ki++ {
						inH := hStart + ki
						for kj := 0; kj < kw; kj++ {
							inW := wStart + kj
							if inH >= 0 && inH < h && inW >= 0 && inW < w {
								colBuf[rowBase+col] = input[chanBase+inH*w+inW]
							}
							col++
						}
					}
				}
			}
		}
	}
}

func im2colFloat64(colBuf, input []float64,
	n, cIn, h, w, kh, kw int, stride [2]int, padding [4]int, hOut, wOut int,
) {
	colWidth := cIn * kh * kw
	for bi := 0; bi < n; bi++ {
		for outH := 0; outH < hOut; outH++ {
			hStart := outH*stride[0] - padding[0]
			for outW := 0; outW < wOut; outW++ {
				wStart := outW*stride[1] - padding[2]
				rowBase := ((bi*hOut+outH)*wOut + outW) * colWidth
				col := 0
				for ci := 0; ci < cIn; ci++ {
					chanBase := (bi*cIn + ci) * h * w
					for ki := 0; ki < kh; ki++ {
						inH := hStart + ki
						for kj := 0; kj < kw; kj++ {
							inW := wStart + kj
							if inH >= 0 && inH < h && inW >= 0 && inW < w {
								colBuf[rowBase+col] = input[chanBase+inH*w+inW]
							}
							col++
						}
					}
				}
			}
		}
	}
}
