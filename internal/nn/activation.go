package nn

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// ReLUBackend is implemented by backends with a native ReLU kernel.
type ReLUBackend interface {
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
}

// ELUBackend is implemented by backends with a native ELU kernel.
type ELUBackend interface {
	ELU(x *tensor.RawTensor, alpha float64) *tensor.RawTensor
}

// ReLU applies max(x, 0) element-wise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] { return &ReLU[B]{} }

// Forward applies the activation.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	reluBackend, ok := any(backend).(ReLUBackend)
	if !ok {
		panic(fmt.Sprintf("relu: backend %s does not support ReLU", backend.Name()))
	}
	return tensor.New[float32, B](reluBackend.ReLU(input.Raw()), backend)
}

// Parameters returns nil; activations have no learnable state.
func (r *ReLU[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (r *ReLU[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op.
func (r *ReLU[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// String returns the activation name.
func (r *ReLU[B]) String() string { return "ReLU()" }

// ELU applies x for x > 0 and alpha*(exp(x)-1) otherwise.
type ELU[B tensor.Backend] struct {
	alpha float64
}

// NewELU creates an ELU activation with the given alpha.
func NewELU[B tensor.Backend](alpha float64) *ELU[B] {
	return &ELU[B]{alpha: alpha}
}

// Forward applies the activation.
func (e *ELU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	eluBackend, ok := any(backend).(ELUBackend)
	if !ok {
		panic(fmt.Sprintf("elu: backend %s does not support ELU", backend.Name()))
	}
	return tensor.New[float32, B](eluBackend.ELU(input.Raw(), e.alpha), backend)
}

// Parameters returns nil; activations have no learnable state.
func (e *ELU[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (e *ELU[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op.
func (e *ELU[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// String returns the activation name.
func (e *ELU[B]) String() string { return fmt.Sprintf("ELU(alpha=%g)", e.alpha) }

// LogSoftmax applies the log-softmax function along a fixed dimension.
type LogSoftmax[B tensor.Backend] struct {
	dim int
}

// NewLogSoftmax creates a log-softmax activation along dim.
func NewLogSoftmax[B tensor.Backend](dim int) *LogSoftmax[B] {
	return &LogSoftmax[B]{dim: dim}
}

// Forward applies the activation.
func (l *LogSoftmax[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.LogSoftmax(l.dim)
}

// Parameters returns nil; activations have no learnable state.
func (l *LogSoftmax[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (l *LogSoftmax[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op.
func (l *LogSoftmax[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// String returns the activation name.
func (l *LogSoftmax[B]) String() string { return fmt.Sprintf("LogSoftmax(dim=%d)", l.dim) }
