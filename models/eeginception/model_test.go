package eeginception_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cortex/internal/backend/cpu"
	"github.com/born-ml/cortex/internal/serialization"
	"github.com/born-ml/cortex/internal/tensor"
	"github.com/born-ml/cortex/models/eeginception"
)

type Backend = *cpu.CPUBackend

// smallConfig keeps the network tiny: kernel unit 5 samples, 50 samples
// per window, 12 intermediate channels.
func smallConfig() eeginception.Config {
	return eeginception.Config{
		InChannels:         3,
		NClasses:           2,
		InputWindowSeconds: 1,
		SFreq:              50,
		NConvs:             2,
		NFilters:           4,
		KernelUnitSeconds:  0.1,
	}
}

func newSmallModel(t *testing.T, backend Backend) *eeginception.EEGInceptionMI[Backend] {
	t.Helper()
	model, err := eeginception.New(smallConfig(), backend)
	require.NoError(t, err)
	model.Eval()
	return model
}

func TestConfigDefaults(t *testing.T) {
	backend := cpu.New()

	model, err := eeginception.New(eeginception.Config{InChannels: 22, NClasses: 4}, backend)
	require.NoError(t, err)

	config := model.Config()
	assert.Equal(t, 4.5, config.InputWindowSeconds)
	assert.Equal(t, 250.0, config.SFreq)
	assert.Equal(t, 5, config.NConvs)
	assert.Equal(t, 48, config.NFilters)
	assert.Equal(t, 0.1, config.KernelUnitSeconds)
	assert.Equal(t, eeginception.ActivationReLU, config.Activation)

	assert.Equal(t, 25, config.KernelUnit())
	assert.Equal(t, 1125, config.InputWindowSamples())
	assert.Equal(t, 288, config.IntermediateChannels())
}

func TestConfigValidation(t *testing.T) {
	backend := cpu.New()

	_, err := eeginception.New(eeginception.Config{NClasses: 4}, backend)
	assert.ErrorContains(t, err, "in channels")

	_, err = eeginception.New(eeginception.Config{InChannels: 22}, backend)
	assert.ErrorContains(t, err, "class count")
}

func TestInceptionBlockShape(t *testing.T) {
	backend := cpu.New()

	// Output channel count is (nConvs+1)*nFilters regardless of the
	// input channel count, and the time axis is preserved.
	for _, inChannels := range []int{3, 12} {
		block := eeginception.NewInceptionBlock(inChannels, 4, 2, 5, eeginception.ActivationReLU, backend)
		block.Eval()
		assert.Equal(t, 12, block.OutChannels())

		input := tensor.Rand[float32, Backend](backend, tensor.Shape{2, inChannels, 1, 50})
		out := block.Forward(input)
		assert.Equal(t, tensor.Shape{2, 12, 1, 50}, out.Shape())
	}
}

func TestResidualBlockShape(t *testing.T) {
	backend := cpu.New()

	block := eeginception.NewResidualBlock(3, 12, eeginception.ActivationReLU, backend)
	block.Eval()

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{2, 3, 1, 50})
	out := block.Forward(input)
	assert.Equal(t, tensor.Shape{2, 12, 1, 50}, out.Shape())
}

func TestForwardOutputShape(t *testing.T) {
	backend := cpu.New()
	model := newSmallModel(t, backend)

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{3, 3, 50})
	out := model.Forward(input)
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
}

func TestForwardReturnsLogProbabilities(t *testing.T) {
	backend := cpu.New()
	model := newSmallModel(t, backend)

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{2, 3, 50})
	out := model.Forward(input)

	data := out.Data()
	for row := 0; row < 2; row++ {
		var sum float64
		for col := 0; col < 2; col++ {
			v := data[row*2+col]
			assert.LessOrEqual(t, v, float32(0))
			sum += math.Exp(float64(v))
		}
		assert.InDelta(t, 1, sum, 1e-5)
	}
}

func TestForward3DAnd4DInputsAgree(t *testing.T) {
	backend := cpu.New()
	model := newSmallModel(t, backend)

	flat := tensor.Rand[float32, Backend](backend, tensor.Shape{2, 3, 50})
	expanded, err := tensor.FromSlice[float32, Backend](backend, flat.Data(), tensor.Shape{2, 3, 50, 1})
	require.NoError(t, err)

	assert.Equal(t, model.Forward(flat).Data(), model.Forward(expanded).Data())
}

func TestForwardRejectsBadRank(t *testing.T) {
	backend := cpu.New()
	model := newSmallModel(t, backend)

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{3, 50})
	assert.Panics(t, func() { model.Forward(input) })
}

func TestForwardDeterministic(t *testing.T) {
	backend := cpu.New()
	model := newSmallModel(t, backend)

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{1, 3, 50})
	assert.Equal(t, model.Forward(input).Data(), model.Forward(input).Data())
}

func TestPredict(t *testing.T) {
	backend := cpu.New()
	model := newSmallModel(t, backend)

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{4, 3, 50})
	pred := model.Predict(input)
	assert.Equal(t, tensor.Shape{4}, pred.Shape())
	for _, class := range pred.Data() {
		assert.GreaterOrEqual(t, class, int32(0))
		assert.Less(t, class, int32(2))
	}
}

func TestELUVariant(t *testing.T) {
	backend := cpu.New()

	config := smallConfig()
	config.Activation = eeginception.ActivationELU
	model, err := eeginception.New(config, backend)
	require.NoError(t, err)
	model.Eval()

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{1, 3, 50})
	assert.Equal(t, tensor.Shape{1, 2}, model.Forward(input).Shape())
}

func TestStateDictKeys(t *testing.T) {
	backend := cpu.New()
	model := newSmallModel(t, backend)

	state := model.StateDict()
	for _, key := range []string{
		"res1.proj.weight",
		"res2.norm.running_var",
		"initial.bottleneck.weight",
		"initial.norm.running_mean",
		"stage1.0.branch1.weight",
		"stage1.1.pool_proj.bias",
		"stage2.2.norm.bias",
		"classifier.weight",
		"classifier.bias",
	} {
		assert.Contains(t, state, key)
	}

	// 2 residual blocks of 6 tensors, 6 inception blocks of 12, plus
	// the classifier pair.
	assert.Len(t, state, 2*6+6*12+2)
}

func TestStateDictRoundTrip(t *testing.T) {
	backend := cpu.New()

	src := newSmallModel(t, backend)
	dst := newSmallModel(t, backend)
	require.NoError(t, dst.LoadStateDict(src.StateDict()))

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{2, 3, 50})
	assert.Equal(t, src.Forward(input).Data(), dst.Forward(input).Data())
}

func TestSaveLoadContainer(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "model.crtx")

	src := newSmallModel(t, backend)

	w, err := serialization.NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteStateDictV2(src.StateDict(), "eeg-inception", nil))
	require.NoError(t, w.Close())

	r, err := serialization.NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "eeg-inception", r.Header().ModelType)

	state, err := r.ReadStateDict(backend)
	require.NoError(t, err)

	dst := newSmallModel(t, backend)
	require.NoError(t, dst.LoadStateDict(state))

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{2, 3, 50})
	assert.Equal(t, src.Forward(input).Data(), dst.Forward(input).Data())
}

func TestTrainModeUpdatesRunningStats(t *testing.T) {
	backend := cpu.New()
	model := newSmallModel(t, backend)
	model.Train()

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{2, 3, 50})
	model.Forward(input)

	mean := model.StateDict()["initial.norm.running_mean"].AsFloat32()
	var moved bool
	for _, v := range mean {
		if v != 0 {
			moved = true
			break
		}
	}
	assert.True(t, moved, "running mean should move after a training forward pass")
}

func TestParameters(t *testing.T) {
	backend := cpu.New()
	model := newSmallModel(t, backend)

	// Residual blocks carry 4 parameters, inception blocks 10 with 2
	// branches, the classifier 2. Running statistics are buffers and
	// do not appear.
	assert.Len(t, model.Parameters(), 2*4+6*10+2)
}

func TestDefaultArchitecture(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size forward pass is slow")
	}

	backend := cpu.New()
	model, err := eeginception.New(eeginception.Config{InChannels: 22, NClasses: 4}, backend)
	require.NoError(t, err)
	model.Eval()

	input := tensor.Rand[float32, Backend](backend, tensor.Shape{1, 22, 1125})
	out := model.Forward(input)
	assert.Equal(t, tensor.Shape{1, 4}, out.Shape())

	var sum float64
	for _, v := range out.Data() {
		sum += math.Exp(float64(v))
	}
	assert.InDelta(t, 1, sum, 1e-4)
}
