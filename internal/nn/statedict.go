package nn

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// loadInto copies the tensor stored under key into dst after checking
// presence, dtype and shape. Layers use it to implement LoadStateDict.
func loadInto(state map[string]*tensor.RawTensor, key string, dst *tensor.RawTensor) error {
	src, ok := state[key]
	if !ok {
		return fmt.Errorf("missing key %q in state dict", key)
	}
	if src.DType() != dst.DType() {
		return fmt.Errorf("dtype mismatch for %q: have %s, want %s", key, src.DType(), dst.DType())
	}
	if !src.Shape().Equal(dst.Shape()) {
		return fmt.Errorf("shape mismatch for %q: have %v, want %v", key, src.Shape(), dst.Shape())
	}
	copy(dst.Data(), src.Data())
	return nil
}
