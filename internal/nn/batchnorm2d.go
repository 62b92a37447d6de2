package nn

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// BatchNorm2d normalizes a 4D input [N, C, H, W] per channel. In
// training mode it normalizes with batch statistics and updates the
// running estimates; in evaluation mode it normalizes with the running
// estimates.
type BatchNorm2d[B tensor.Backend] struct {
	numFeatures int
	eps         float64
	momentum    float64
	training    bool

	gamma       *Parameter[B]
	beta        *Parameter[B]
	runningMean *tensor.Tensor[float32, B]
	runningVar  *tensor.Tensor[float32, B]
	backend     B
}

// NewBatchNorm2d creates a batch normalization layer with gamma one,
// beta zero, running mean zero and running variance one. Defaults
// follow the usual eps 1e-5 and momentum 0.1.
func NewBatchNorm2d[B tensor.Backend](numFeatures int, backend B) *BatchNorm2d[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid feature count %d", numFeatures))
	}

	shape := tensor.Shape{numFeatures}
	return &BatchNorm2d[B]{
		numFeatures: numFeatures,
		eps:         1e-5,
		momentum:    0.1,
		gamma:       NewParameter("batchnorm.weight", Ones(shape, backend)),
		beta:        NewParameter("batchnorm.bias", Zeros(shape, backend)),
		runningMean: Zeros(shape, backend),
		runningVar:  Ones(shape, backend),
		backend:     backend,
	}
}

// Train switches the layer to training mode.
func (b *BatchNorm2d[B]) Train() { b.training = true }

// Eval switches the layer to evaluation mode.
func (b *BatchNorm2d[B]) Eval() { b.training = false }

// Forward normalizes the input. Training mode uses batch statistics
// and folds them into the running estimates.
func (b *BatchNorm2d[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: input must be 4D [N, C, H, W], have %v", shape))
	}
	if shape[1] != b.numFeatures {
		panic(fmt.Sprintf("batchnorm2d: input has %d channels, want %d", shape[1], b.numFeatures))
	}

	mean, variance := b.runningMean, b.runningVar
	if b.training {
		mean, variance = batchStats(input)
		b.updateRunningStats(mean, variance, shape)
	}

	raw := b.backend.BatchNorm2d(input.Raw(),
		b.gamma.Tensor().Raw(), b.beta.Tensor().Raw(),
		mean.Raw(), variance.Raw(), b.eps)
	return tensor.New[float32, B](raw, b.backend)
}

// batchStats computes per-channel mean and biased variance of a 4D
// input. Chained reductions over equal-sized groups give the same
// result as a single reduction over N, H and W.
func batchStats[B tensor.Backend](input *tensor.Tensor[float32, B]) (mean, variance *tensor.Tensor[float32, B]) {
	mean = input.MeanDim(3, false).MeanDim(2, false).MeanDim(0, false)

	// Clone raises the buffer refcount so the squaring cannot run in
	// place over the caller's input.
	x := input.Clone()
	meanSq := x.Mul(x).MeanDim(3, false).MeanDim(2, false).MeanDim(0, false)
	x.Raw().Release()

	m := mean.Clone()
	variance = meanSq.Sub(m.Mul(m))
	m.Raw().Release()
	return mean, variance
}

func (b *BatchNorm2d[B]) updateRunningStats(mean, variance *tensor.Tensor[float32, B], shape tensor.Shape) {
	n := float64(shape[0] * shape[2] * shape[3])
	unbiased := 1.0
	if n > 1 {
		unbiased = n / (n - 1)
	}

	rm, rv := b.runningMean.Data(), b.runningVar.Data()
	m, v := mean.Data(), variance.Data()
	momentum := float32(b.momentum)
	for i := range rm {
		rm[i] = (1-momentum)*rm[i] + momentum*m[i]
		rv[i] = (1-momentum)*rv[i] + momentum*v[i]*float32(unbiased)
	}
}

// Parameters returns gamma and beta. Running statistics are buffers,
// not learnable parameters.
func (b *BatchNorm2d[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{b.gamma, b.beta}
}

// StateDict returns gamma, beta and the running statistics.
func (b *BatchNorm2d[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight":       b.gamma.Tensor().Raw(),
		"bias":         b.beta.Tensor().Raw(),
		"running_mean": b.runningMean.Raw(),
		"running_var":  b.runningVar.Raw(),
	}
}

// LoadStateDict restores gamma, beta and the running statistics.
func (b *BatchNorm2d[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	for key, dst := range map[string]*tensor.RawTensor{
		"weight":       b.gamma.Tensor().Raw(),
		"bias":         b.beta.Tensor().Raw(),
		"running_mean": b.runningMean.Raw(),
		"running_var":  b.runningVar.Raw(),
	} {
		if err := loadInto(state, key, dst); err != nil {
			return err
		}
	}
	return nil
}

// NumFeatures returns the channel count the layer normalizes.
func (b *BatchNorm2d[B]) NumFeatures() int { return b.numFeatures }

// String returns a short description of the layer.
func (b *BatchNorm2d[B]) String() string {
	return fmt.Sprintf("BatchNorm2d(features=%d, eps=%g, momentum=%g)", b.numFeatures, b.eps, b.momentum)
}
