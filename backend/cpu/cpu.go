// Copyright 2026 Cortex ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend.
package cpu

import (
	internalcpu "github.com/born-ml/cortex/internal/backend/cpu"
	"github.com/born-ml/cortex/tensor"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go implementations of all tensor
// operations, with matrix products and convolutions routed through
// gonum's BLAS.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/cortex/backend/cpu"
//	    "github.com/born-ml/cortex/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    _ = x
//	}
func New() *Backend {
	return internalcpu.New()
}
