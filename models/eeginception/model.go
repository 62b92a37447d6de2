package eeginception

import (
	"fmt"
	"strings"

	"github.com/born-ml/cortex/internal/nn"
	"github.com/born-ml/cortex/internal/tensor"
)

// EEGInceptionMI is the full EEG-Inception motor imagery network.
//
// Forward accepts input of shape [batch, channels, time] or
// [batch, channels, time, 1] and returns per-class log-probabilities
// of shape [batch, classes].
type EEGInceptionMI[B tensor.Backend] struct {
	config Config

	res1    *ResidualBlock[B]
	res2    *ResidualBlock[B]
	initial *InceptionBlock[B]
	stage1  []*InceptionBlock[B]
	stage2  []*InceptionBlock[B]

	pool       *nn.AvgPool2D[B]
	flatten    *nn.Flatten[B]
	classifier *nn.Linear[B]
	logSoftmax *nn.LogSoftmax[B]

	backend B
}

// New builds the network from the given configuration. Zero values in
// the tunable fields select the reference defaults.
func New[B tensor.Backend](config Config, backend B) (*EEGInceptionMI[B], error) {
	config = config.withDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	kernelUnit := config.KernelUnit()
	intermediate := config.IntermediateChannels()
	act := config.Activation

	inception := func(inChannels int) *InceptionBlock[B] {
		return NewInceptionBlock(inChannels, config.NFilters, config.NConvs, kernelUnit, act, backend)
	}

	stage1 := []*InceptionBlock[B]{inception(intermediate), inception(intermediate)}
	stage2 := []*InceptionBlock[B]{inception(intermediate), inception(intermediate), inception(intermediate)}

	return &EEGInceptionMI[B]{
		config:     config,
		res1:       NewResidualBlock(config.InChannels, intermediate, act, backend),
		res2:       NewResidualBlock(intermediate, intermediate, act, backend),
		initial:    inception(config.InChannels),
		stage1:     stage1,
		stage2:     stage2,
		pool:       nn.NewAvgPool2D([2]int{1, config.InputWindowSamples()}, [2]int{}, backend),
		flatten:    nn.NewFlatten[B](),
		classifier: nn.NewLinear(intermediate, config.NClasses, backend),
		logSoftmax: nn.NewLogSoftmax[B](1),
		backend:    backend,
	}, nil
}

// Config returns the resolved configuration.
func (m *EEGInceptionMI[B]) Config() Config { return m.config }

// ensureDims appends a trailing singleton axis to a 3D [batch,
// channels, time] input. 4D inputs pass through unchanged.
func ensureDims[B tensor.Backend](input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	switch len(input.Shape()) {
	case 3:
		return input.Unsqueeze(-1)
	case 4:
		return input
	default:
		panic(fmt.Sprintf("eeginception: input must be 3D or 4D, have %v", input.Shape()))
	}
}

// Forward evaluates the network. The two residual projections bridge
// the inception stages; pooling spans the entire time axis.
func (m *EEGInceptionMI[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	// [batch, channels, time, 1] -> [batch, channels, 1, time] so the
	// trailing axis is time.
	x := ensureDims(input).Transpose(0, 1, 3, 2)

	res1 := m.res1.Forward(x)
	out := m.initial.Forward(x)
	for _, block := range m.stage1 {
		out = block.Forward(out)
	}
	out = out.Add(res1)

	res2 := m.res2.Forward(out)
	for _, block := range m.stage2 {
		out = block.Forward(out)
	}
	out = res2.Add(out)

	out = m.pool.Forward(out)
	out = m.flatten.Forward(out)
	out = m.classifier.Forward(out)
	return m.logSoftmax.Forward(out)
}

// Predict returns the most likely class per batch element.
func (m *EEGInceptionMI[B]) Predict(input *tensor.Tensor[float32, B]) *tensor.Tensor[int32, B] {
	return m.Forward(input).Argmax(1)
}

// Train switches every normalization layer to training mode.
func (m *EEGInceptionMI[B]) Train() {
	m.res1.Train()
	m.res2.Train()
	m.initial.Train()
	for _, block := range m.stage1 {
		block.Train()
	}
	for _, block := range m.stage2 {
		block.Train()
	}
}

// Eval switches every normalization layer to evaluation mode.
func (m *EEGInceptionMI[B]) Eval() {
	m.res1.Eval()
	m.res2.Eval()
	m.initial.Eval()
	for _, block := range m.stage1 {
		block.Eval()
	}
	for _, block := range m.stage2 {
		block.Eval()
	}
}

// Parameters collects every learnable parameter of the network.
func (m *EEGInceptionMI[B]) Parameters() []*nn.Parameter[B] {
	params := m.res1.Parameters()
	params = append(params, m.res2.Parameters()...)
	params = append(params, m.initial.Parameters()...)
	for _, block := range m.stage1 {
		params = append(params, block.Parameters()...)
	}
	for _, block := range m.stage2 {
		params = append(params, block.Parameters()...)
	}
	return append(params, m.classifier.Parameters()...)
}

// StateDict returns every tensor of the network keyed by component
// path.
func (m *EEGInceptionMI[B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor)
	mergeState(state, "res1", m.res1.StateDict())
	mergeState(state, "res2", m.res2.StateDict())
	mergeState(state, "initial", m.initial.StateDict())
	for i, block := range m.stage1 {
		mergeState(state, fmt.Sprintf("stage1.%d", i), block.StateDict())
	}
	for i, block := range m.stage2 {
		mergeState(state, fmt.Sprintf("stage2.%d", i), block.StateDict())
	}
	mergeState(state, "classifier", m.classifier.StateDict())
	return state
}

// LoadStateDict restores every tensor of the network.
func (m *EEGInceptionMI[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	if err := m.res1.LoadStateDict(subState(state, "res1")); err != nil {
		return fmt.Errorf("failed to load res1: %w", err)
	}
	if err := m.res2.LoadStateDict(subState(state, "res2")); err != nil {
		return fmt.Errorf("failed to load res2: %w", err)
	}
	if err := m.initial.LoadStateDict(subState(state, "initial")); err != nil {
		return fmt.Errorf("failed to load initial: %w", err)
	}
	for i, block := range m.stage1 {
		prefix := fmt.Sprintf("stage1.%d", i)
		if err := block.LoadStateDict(subState(state, prefix)); err != nil {
			return fmt.Errorf("failed to load %s: %w", prefix, err)
		}
	}
	for i, block := range m.stage2 {
		prefix := fmt.Sprintf("stage2.%d", i)
		if err := block.LoadStateDict(subState(state, prefix)); err != nil {
			return fmt.Errorf("failed to load %s: %w", prefix, err)
		}
	}
	return loadSub(state, "classifier", m.classifier)
}

// String returns a multi-line summary of the network.
func (m *EEGInceptionMI[B]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "EEGInceptionMI(channels=%d, classes=%d, window=%gs @ %gHz)\n",
		m.config.InChannels, m.config.NClasses, m.config.InputWindowSeconds, m.config.SFreq)
	fmt.Fprintf(&sb, "  inception: %d branches x %d filters, kernel unit %d samples\n",
		m.config.NConvs, m.config.NFilters, m.config.KernelUnit())
	fmt.Fprintf(&sb, "  stages: 1+%d and %d blocks, %d intermediate channels\n",
		len(m.stage1), len(m.stage2), m.config.IntermediateChannels())
	fmt.Fprintf(&sb, "  classifier: %s", m.classifier)
	return sb.String()
}
