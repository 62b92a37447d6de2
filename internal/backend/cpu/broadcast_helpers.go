package cpu

import "github.com/born-ml/cortex/internal/tensor"

// computeBroadcastStridesForShape maps a tensor's strides into the
// coordinate space of outShape. Dimensions that are broadcast (missing
// on the left or of size 1) get stride 0 so the same element is reused.
func computeBroadcastStridesForShape(shape tensor.Shape, strides []int, outShape tensor.Shape) []int {
	outStrides := make([]int, len(outShape))
	offset := len(outShape) - len(shape)

	for i := range outShape {
		if i < offset {
			outStrides[i] = 0
			continue
		}
		if shape[i-offset] == 1 && outShape[i] != 1 {
			outStrides[i] = 0
		} else {
			outStrides[i] = strides[i-offset]
		}
	}
	return outStrides
}

// computeFlatIndex converts a flat index in the output coordinate space
// into a flat index of a (possibly broadcast) input tensor.
func computeFlatIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}
