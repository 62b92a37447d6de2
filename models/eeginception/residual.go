package eeginception

import (
	"github.com/born-ml/cortex/internal/nn"
	"github.com/born-ml/cortex/internal/tensor"
)

// ResidualBlock projects a skip connection to the channel width of the
// branch it will be summed with: a 1x1 convolution, batch
// normalization and activation.
type ResidualBlock[B tensor.Backend] struct {
	nFilters   int
	proj       *nn.Conv2D[B]
	norm       *nn.BatchNorm2d[B]
	activation nn.Module[B]
}

// NewResidualBlock builds a residual projection from inChannels to
// nFilters channels.
func NewResidualBlock[B tensor.Backend](inChannels, nFilters int, activation Activation, backend B) *ResidualBlock[B] {
	unit := [2]int{1, 1}
	return &ResidualBlock[B]{
		nFilters:   nFilters,
		proj:       nn.NewConv2D(inChannels, nFilters, unit, unit, [4]int{}, backend),
		norm:       nn.NewBatchNorm2d(nFilters, backend),
		activation: newActivation[B](activation),
	}
}

// Forward projects a [batch, channels, 1, time] input.
func (r *ResidualBlock[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return r.activation.Forward(r.norm.Forward(r.proj.Forward(input)))
}

// OutChannels returns the projection's output channel count.
func (r *ResidualBlock[B]) OutChannels() int { return r.nFilters }

// Train switches batch normalization to training mode.
func (r *ResidualBlock[B]) Train() { r.norm.Train() }

// Eval switches batch normalization to evaluation mode.
func (r *ResidualBlock[B]) Eval() { r.norm.Eval() }

// Parameters collects the projection and normalization parameters.
func (r *ResidualBlock[B]) Parameters() []*nn.Parameter[B] {
	return append(r.proj.Parameters(), r.norm.Parameters()...)
}

// StateDict returns the block's tensors.
func (r *ResidualBlock[B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor)
	mergeState(state, "proj", r.proj.StateDict())
	mergeState(state, "norm", r.norm.StateDict())
	return state
}

// LoadStateDict restores the block's tensors.
func (r *ResidualBlock[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	if err := loadSub(state, "proj", r.proj); err != nil {
		return err
	}
	return loadSub(state, "norm", r.norm)
}
