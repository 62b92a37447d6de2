// Copyright 2026 Cortex ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for building neural networks with
// the Cortex ML framework: layers, activations, containers and model
// persistence via the .crtx container format.
package nn

import (
	"fmt"

	"github.com/born-ml/cortex/internal/nn"
	"github.com/born-ml/cortex/internal/serialization"
	"github.com/born-ml/cortex/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every module must implement:
//   - Forward: compute output from input
//   - Parameters: return all trainable parameters
//   - StateDict: export tensors for serialization
//   - LoadStateDict: import tensors from serialization
type Module[B tensor.Backend] = nn.Module[B]

// Header describes a .crtx container: format version, model type,
// tensor table and metadata.
type Header = serialization.Header

// Save writes a module's state dict to a .crtx file with a data
// checksum.
//
// Example:
//
//	err := nn.Save[*cpu.Backend](model, "model.crtx", "eeg-inception", map[string]string{
//	    "subject": "S01",
//	})
func Save[B tensor.Backend](module Module[B], path, modelType string, metadata map[string]string) error {
	writer, err := serialization.NewWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	defer func() { _ = writer.Close() }()

	if err := writer.WriteStateDictV2(module.StateDict(), modelType, metadata); err != nil {
		return fmt.Errorf("failed to write state dict: %w", err)
	}
	return nil
}

// Load reads a .crtx file into an already constructed module and
// returns the container header.
//
// Example:
//
//	header, err := nn.Load("model.crtx", backend, model)
func Load[B tensor.Backend](path string, backend B, module Module[B]) (*Header, error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open container: %w", err)
	}
	defer func() { _ = reader.Close() }()

	state, err := reader.ReadStateDict(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to read state dict: %w", err)
	}
	if err := module.LoadStateDict(state); err != nil {
		return nil, fmt.Errorf("failed to load state dict: %w", err)
	}
	return reader.Header(), nil
}
