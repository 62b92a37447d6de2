package nn

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// Flatten collapses all dimensions after the batch dimension into one.
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] { return &Flatten[B]{} }

// Forward reshapes [N, d1, d2, ...] into [N, d1*d2*...].
func (f *Flatten[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("flatten: input must have a batch dimension, have %v", shape))
	}
	features := 1
	for _, d := range shape[1:] {
		features *= d
	}
	return input.Reshape(shape[0], features)
}

// Parameters returns nil; flatten has no learnable state.
func (f *Flatten[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (f *Flatten[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op.
func (f *Flatten[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// String returns the layer name.
func (f *Flatten[B]) String() string { return "Flatten()" }
