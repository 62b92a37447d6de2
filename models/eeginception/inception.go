package eeginception

import (
	"fmt"

	"github.com/born-ml/cortex/internal/nn"
	"github.com/born-ml/cortex/internal/tensor"
)

// InceptionBlock is the multi-branch feature extractor of the network.
// A 1x1 bottleneck feeds nConvs parallel temporal convolutions of
// increasing width; a pooling branch projects the original input. All
// branch outputs are concatenated along the channel axis, normalized
// and activated.
//
// Inputs are laid out [batch, channels, 1, time], so every kernel is
// 1xK along the trailing time axis.
type InceptionBlock[B tensor.Backend] struct {
	inChannels int
	nFilters   int
	kernelUnit int

	bottleneck *nn.Conv2D[B]
	branches   []*nn.Conv2D[B]
	pool       *nn.MaxPool2D[B]
	poolProj   *nn.Conv2D[B]
	norm       *nn.BatchNorm2d[B]
	activation nn.Module[B]
}

// NewInceptionBlock builds an inception block. Branch k uses kernel
// width (2k+1)*kernelUnit with "same" padding so the time length is
// preserved.
func NewInceptionBlock[B tensor.Backend](inChannels, nFilters, nConvs, kernelUnit int, activation Activation, backend B) *InceptionBlock[B] {
	if kernelUnit <= 0 {
		panic(fmt.Sprintf("inception: kernel unit must be positive, have %d", kernelUnit))
	}

	unit := [2]int{1, 1}
	branches := make([]*nn.Conv2D[B], nConvs)
	for k := range branches {
		width := (2*k + 1) * kernelUnit
		branches[k] = nn.NewConv2D(nFilters, nFilters, [2]int{1, width}, unit, nn.SamePadding([2]int{1, width}), backend)
	}

	return &InceptionBlock[B]{
		inChannels: inChannels,
		nFilters:   nFilters,
		kernelUnit: kernelUnit,
		bottleneck: nn.NewConv2D(inChannels, nFilters, unit, unit, [4]int{}, backend),
		branches:   branches,
		pool:       nn.NewMaxPool2D([2]int{1, kernelUnit}, unit, [2]int{0, kernelUnit / 2}, backend),
		poolProj:   nn.NewConv2D(inChannels, nFilters, unit, unit, [4]int{}, backend),
		norm:       nn.NewBatchNorm2d((nConvs+1)*nFilters, backend),
		activation: newActivation[B](activation),
	}
}

// Forward runs the block on a [batch, channels, 1, time] input.
func (b *InceptionBlock[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	bottled := b.bottleneck.Forward(input)

	outputs := make([]*tensor.Tensor[float32, B], 0, len(b.branches)+1)
	for _, branch := range b.branches {
		outputs = append(outputs, branch.Forward(bottled))
	}
	outputs = append(outputs, b.poolProj.Forward(b.pool.Forward(input)))

	merged := tensor.Cat(outputs, 1)
	return b.activation.Forward(b.norm.Forward(merged))
}

// OutChannels returns the block's output channel count.
func (b *InceptionBlock[B]) OutChannels() int {
	return (len(b.branches) + 1) * b.nFilters
}

// Train switches batch normalization to training mode.
func (b *InceptionBlock[B]) Train() { b.norm.Train() }

// Eval switches batch normalization to evaluation mode.
func (b *InceptionBlock[B]) Eval() { b.norm.Eval() }

// Parameters collects the parameters of every branch.
func (b *InceptionBlock[B]) Parameters() []*nn.Parameter[B] {
	params := b.bottleneck.Parameters()
	for _, branch := range b.branches {
		params = append(params, branch.Parameters()...)
	}
	params = append(params, b.poolProj.Parameters()...)
	params = append(params, b.norm.Parameters()...)
	return params
}

// StateDict returns the block's tensors keyed by branch name.
func (b *InceptionBlock[B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor)
	mergeState(state, "bottleneck", b.bottleneck.StateDict())
	for k, branch := range b.branches {
		mergeState(state, fmt.Sprintf("branch%d", k), branch.StateDict())
	}
	mergeState(state, "pool_proj", b.poolProj.StateDict())
	mergeState(state, "norm", b.norm.StateDict())
	return state
}

// LoadStateDict restores the block's tensors.
func (b *InceptionBlock[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	if err := loadSub(state, "bottleneck", b.bottleneck); err != nil {
		return err
	}
	for k, branch := range b.branches {
		if err := loadSub(state, fmt.Sprintf("branch%d", k), branch); err != nil {
			return err
		}
	}
	if err := loadSub(state, "pool_proj", b.poolProj); err != nil {
		return err
	}
	return loadSub(state, "norm", b.norm)
}
