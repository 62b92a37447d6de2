// Package nn provides neural network layers built on the tensor
// package: convolutions, normalization, pooling, activations and the
// containers to compose them.
package nn

import "github.com/born-ml/cortex/internal/tensor"

// Module is the interface every layer implements.
type Module[B tensor.Backend] interface {
	// Forward computes the layer's output for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns the layer's learnable parameters.
	Parameters() []*Parameter[B]

	// StateDict returns the layer's persistent state keyed by name.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict restores the layer's persistent state.
	LoadStateDict(state map[string]*tensor.RawTensor) error
}
