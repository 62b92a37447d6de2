package eeginception

import (
	"fmt"
	"strings"

	"github.com/born-ml/cortex/internal/nn"
	"github.com/born-ml/cortex/internal/tensor"
)

// mergeState copies src entries into dst under "prefix.key" names.
func mergeState(dst map[string]*tensor.RawTensor, prefix string, src map[string]*tensor.RawTensor) {
	for name, raw := range src {
		dst[prefix+"."+name] = raw
	}
}

// subState extracts the entries under "prefix." with the prefix
// stripped.
func subState(state map[string]*tensor.RawTensor, prefix string) map[string]*tensor.RawTensor {
	sub := make(map[string]*tensor.RawTensor)
	for name, raw := range state {
		if strings.HasPrefix(name, prefix+".") {
			sub[strings.TrimPrefix(name, prefix+".")] = raw
		}
	}
	return sub
}

// loadSub restores one child module from its prefixed entries.
func loadSub[B tensor.Backend](state map[string]*tensor.RawTensor, prefix string, module nn.Module[B]) error {
	if err := module.LoadStateDict(subState(state, prefix)); err != nil {
		return fmt.Errorf("failed to load %s: %w", prefix, err)
	}
	return nil
}
