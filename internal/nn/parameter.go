package nn

import "github.com/born-ml/cortex/internal/tensor"

// Parameter is a named learnable tensor owned by a layer.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter creates a named parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter's name.
func (p *Parameter[B]) Name() string { return p.name }

// Tensor returns the parameter's tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] { return p.tensor }
