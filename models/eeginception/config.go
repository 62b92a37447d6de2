// Package eeginception implements the EEG-Inception network for motor
// imagery classification. The network stacks two groups of inception
// blocks bridged by residual projections, then classifies with global
// temporal average pooling, a linear layer and log-softmax.
//
// Reference: Zhang et al., "EEG-Inception: An Accurate and Robust
// End-to-End Neural Network for EEG-based Motor Imagery
// Classification" (2021).
package eeginception

import (
	"fmt"

	"github.com/born-ml/cortex/internal/nn"
	"github.com/born-ml/cortex/internal/tensor"
)

// Activation selects the nonlinearity used throughout the network.
type Activation int

const (
	// ActivationReLU is max(x, 0). The default.
	ActivationReLU Activation = iota
	// ActivationELU is x for x > 0 and exp(x)-1 otherwise.
	ActivationELU
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case ActivationReLU:
		return "relu"
	case ActivationELU:
		return "elu"
	default:
		return "unknown"
	}
}

// Config describes an EEG-Inception network. Zero values for the
// tunable fields select the defaults of the reference implementation;
// InChannels and NClasses must be set explicitly.
type Config struct {
	// InChannels is the number of EEG electrodes.
	InChannels int
	// NClasses is the number of motor imagery classes.
	NClasses int
	// InputWindowSeconds is the length of one input window. Default 4.5.
	InputWindowSeconds float64
	// SFreq is the sampling frequency in Hz. Default 250.
	SFreq float64
	// NConvs is the number of parallel convolution branches per
	// inception block. Default 5.
	NConvs int
	// NFilters is the output width of each branch. Default 48.
	NFilters int
	// KernelUnitSeconds is the base kernel length. Branch k uses a
	// kernel of (2k+1) units. Default 0.1.
	KernelUnitSeconds float64
	// Activation is the nonlinearity. Default ReLU.
	Activation Activation
}

func (c Config) withDefaults() Config {
	if c.InputWindowSeconds == 0 {
		c.InputWindowSeconds = 4.5
	}
	if c.SFreq == 0 {
		c.SFreq = 250
	}
	if c.NConvs == 0 {
		c.NConvs = 5
	}
	if c.NFilters == 0 {
		c.NFilters = 48
	}
	if c.KernelUnitSeconds == 0 {
		c.KernelUnitSeconds = 0.1
	}
	return c
}

func (c Config) validate() error {
	if c.InChannels <= 0 {
		return fmt.Errorf("eeginception: in channels must be positive, have %d", c.InChannels)
	}
	if c.NClasses <= 0 {
		return fmt.Errorf("eeginception: class count must be positive, have %d", c.NClasses)
	}
	if c.NConvs < 0 || c.NFilters < 0 {
		return fmt.Errorf("eeginception: branch configuration must be positive, have n_convs=%d, n_filters=%d", c.NConvs, c.NFilters)
	}
	if c.InputWindowSeconds < 0 || c.SFreq < 0 || c.KernelUnitSeconds < 0 {
		return fmt.Errorf("eeginception: time configuration must be positive")
	}
	return nil
}

// KernelUnit returns the base kernel length in samples.
func (c Config) KernelUnit() int {
	return int(c.KernelUnitSeconds * c.SFreq)
}

// InputWindowSamples returns the expected input time length in samples.
func (c Config) InputWindowSamples() int {
	return int(c.InputWindowSeconds * c.SFreq)
}

// IntermediateChannels returns the output width of one inception
// block.
func (c Config) IntermediateChannels() int {
	return (c.NConvs + 1) * c.NFilters
}

// newActivation builds a fresh activation module. Every use site gets
// an independent instance.
func newActivation[B tensor.Backend](a Activation) nn.Module[B] {
	switch a {
	case ActivationELU:
		return nn.NewELU[B](1.0)
	default:
		return nn.NewReLU[B]()
	}
}
