package nn

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// Linear is a fully connected layer computing output = input*W^T + b.
// The weight has shape [outFeatures, inFeatures] and the bias
// [outFeatures].
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B]
	bias        *Parameter[B]
	backend     B
}

// NewLinear creates a linear layer with Xavier-initialized weights and
// zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("linear: invalid features in=%d, out=%d", inFeatures, outFeatures))
	}

	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, backend)
	bias := Zeros(tensor.Shape{outFeatures}, backend)

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("linear.weight", weight),
		bias:        NewParameter("linear.bias", bias),
		backend:     backend,
	}
}

// Forward applies the affine transform to a 2D input
// [batch, inFeatures].
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("linear: input must be 2D [batch, features], have %v", shape))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("linear: input has %d features, want %d", shape[1], l.inFeatures))
	}

	output := input.MatMul(l.weight.Tensor().T())
	return output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
}

// Parameters returns the weight and bias.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// StateDict returns the layer's tensors keyed by name.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Tensor().Raw(),
		"bias":   l.bias.Tensor().Raw(),
	}
}

// LoadStateDict restores the layer's tensors.
func (l *Linear[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	if err := loadInto(state, "weight", l.weight.Tensor().Raw()); err != nil {
		return err
	}
	return loadInto(state, "bias", l.bias.Tensor().Raw())
}

// InFeatures returns the input width.
func (l *Linear[B]) InFeatures() int { return l.inFeatures }

// OutFeatures returns the output width.
func (l *Linear[B]) OutFeatures() int { return l.outFeatures }

// String returns a short description of the layer.
func (l *Linear[B]) String() string {
	return fmt.Sprintf("Linear(in=%d, out=%d)", l.inFeatures, l.outFeatures)
}
