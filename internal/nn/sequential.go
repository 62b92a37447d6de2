package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/cortex/internal/tensor"
)

// Sequential chains modules, feeding each output into the next module.
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{modules: modules}
}

// Forward runs the input through every module in order.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters collects the parameters of every module.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the chain.
func (s *Sequential[B]) Add(module Module[B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules.
func (s *Sequential[B]) Len() int { return len(s.modules) }

// Module returns the module at index.
func (s *Sequential[B]) Module(index int) Module[B] { return s.modules[index] }

// StateDict collects module state with position-prefixed keys.
func (s *Sequential[B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor)
	for i, module := range s.modules {
		for name, raw := range module.StateDict() {
			state[fmt.Sprintf("%d.%s", i, name)] = raw
		}
	}
	return state
}

// LoadStateDict restores module state from position-prefixed keys.
func (s *Sequential[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	for i, module := range s.modules {
		prefix := fmt.Sprintf("%d.", i)
		sub := make(map[string]*tensor.RawTensor)
		for name, raw := range state {
			if strings.HasPrefix(name, prefix) {
				sub[strings.TrimPrefix(name, prefix)] = raw
			}
		}
		if err := module.LoadStateDict(sub); err != nil {
			return fmt.Errorf("failed to load module %d: %w", i, err)
		}
	}
	return nil
}
