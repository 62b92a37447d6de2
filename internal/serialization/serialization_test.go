package serialization_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cortex/internal/backend/cpu"
	"github.com/born-ml/cortex/internal/serialization"
	"github.com/born-ml/cortex/internal/tensor"
)

type Backend = *cpu.CPUBackend

func makeState(t *testing.T, backend Backend) map[string]*tensor.RawTensor {
	t.Helper()

	weight, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	bias, err := tensor.FromSlice[float32, Backend](backend,
		[]float32{0.5, -0.5}, tensor.Shape{2})
	require.NoError(t, err)
	steps, err := tensor.FromSlice[int64, Backend](backend,
		[]int64{1000}, tensor.Shape{1})
	require.NoError(t, err)

	return map[string]*tensor.RawTensor{
		"classifier.weight": weight.Raw(),
		"classifier.bias":   bias.Raw(),
		"steps":             steps.Raw(),
	}
}

func writeContainer(t *testing.T, path string, write func(w *serialization.Writer) error) {
	t.Helper()
	w, err := serialization.NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, write(w))
	require.NoError(t, w.Close())
}

func TestRoundTripV1(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "model.crtx")

	state := makeState(t, backend)
	writeContainer(t, path, func(w *serialization.Writer) error {
		return w.WriteStateDict(state, "eeg-inception", map[string]string{"subject": "A01"})
	})

	r, err := serialization.NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	header := r.Header()
	assert.Equal(t, serialization.FormatVersion, header.FormatVersion)
	assert.Equal(t, "eeg-inception", header.ModelType)
	assert.Equal(t, "A01", r.Metadata()["subject"])
	assert.NotEmpty(t, header.CreatedAt)
	assert.ElementsMatch(t,
		[]string{"classifier.weight", "classifier.bias", "steps"},
		r.TensorNames())

	loaded, err := r.ReadStateDict(backend)
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	w := loaded["classifier.weight"]
	assert.Equal(t, tensor.Shape{2, 3}, w.Shape())
	assert.Equal(t, tensor.Float32, w.DType())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, w.AsFloat32())

	s := loaded["steps"]
	assert.Equal(t, tensor.Int64, s.DType())
	assert.Equal(t, []int64{1000}, s.AsInt64())
}

func TestRoundTripV2(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "model.crtx")

	state := makeState(t, backend)
	writeContainer(t, path, func(w *serialization.Writer) error {
		return w.WriteStateDictV2(state, "eeg-inception", nil)
	})

	r, err := serialization.NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, serialization.FormatVersionV2, r.Header().FormatVersion)

	loaded, err := r.ReadStateDict(backend)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.5}, loaded["classifier.bias"].AsFloat32())
}

func TestTensorLayoutSortedByName(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "model.crtx")

	writeContainer(t, path, func(w *serialization.Writer) error {
		return w.WriteStateDict(makeState(t, backend), "test", nil)
	})

	r, err := serialization.NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	var prevName string
	var prevEnd int64
	for i, name := range r.TensorNames() {
		meta, err := r.TensorInfo(name)
		require.NoError(t, err)
		if i > 0 {
			assert.Greater(t, name, prevName)
		}
		assert.Equal(t, prevEnd, meta.Offset)
		prevName = name
		prevEnd = meta.Offset + meta.Size
	}
}

func TestV2ChecksumMismatch(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "model.crtx")

	writeContainer(t, path, func(w *serialization.Writer) error {
		return w.WriteStateDictV2(makeState(t, backend), "test", nil)
	})

	// Flip a byte in the data section.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = serialization.NewReader(path)
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)

	// Skipping validation still opens the file.
	r, err := serialization.NewReaderWithOptions(path, serialization.ReaderOptions{
		SkipChecksumValidation: true,
		ValidationLevel:        serialization.ValidationStrict,
	})
	require.NoError(t, err)
	require.NoError(t, r.Close())
}

func TestInvalidMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.crtx")
	require.NoError(t, os.WriteFile(path, []byte("NOPE\x01\x00\x00\x00"), 0o644))

	_, err := serialization.NewReader(path)
	assert.ErrorIs(t, err, serialization.ErrInvalidMagic)
}

func TestUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.crtx")
	data := append([]byte(serialization.MagicBytes), 0x63, 0, 0, 0)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := serialization.NewReader(path)
	assert.ErrorIs(t, err, serialization.ErrUnsupportedVersion)
}

func TestReadSingleTensor(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "model.crtx")

	writeContainer(t, path, func(w *serialization.Writer) error {
		return w.WriteStateDict(makeState(t, backend), "test", nil)
	})

	r, err := serialization.NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	raw, err := r.LoadTensor("classifier.bias", backend)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.5}, raw.AsFloat32())

	_, err = r.LoadTensor("no.such.tensor", backend)
	assert.ErrorContains(t, err, "not found")
}

func TestCustomHeaderMetadata(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "model.crtx")

	writeContainer(t, path, func(w *serialization.Writer) error {
		return w.WriteStateDictWithHeaderV2(makeState(t, backend), &serialization.Header{
			ModelType: "eeg-inception",
			Metadata:  map[string]string{"sfreq": "250", "classes": "4"},
			Checkpoint: &serialization.CheckpointMeta{
				Epoch: 12,
				Loss:  0.42,
			},
		})
	})

	r, err := serialization.NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "250", r.Metadata()["sfreq"])
	require.NotNil(t, r.Header().Checkpoint)
	assert.Equal(t, 12, r.Header().Checkpoint.Epoch)
	assert.InDelta(t, 0.42, r.Header().Checkpoint.Loss, 1e-9)
}

func TestValidateTensorName(t *testing.T) {
	assert.NoError(t, serialization.ValidateTensorName("stage1.0.branch2.weight"))
	assert.Error(t, serialization.ValidateTensorName("../escape"))
	assert.Error(t, serialization.ValidateTensorName("dir/file"))
	assert.Error(t, serialization.ValidateTensorName("back\\slash"))
	assert.Error(t, serialization.ValidateTensorName("nul\x00byte"))
}

func TestValidateTensorOffsets(t *testing.T) {
	ok := []serialization.TensorMeta{
		{Name: "a", Offset: 0, Size: 16},
		{Name: "b", Offset: 16, Size: 8},
	}
	assert.NoError(t, serialization.ValidateTensorOffsets(ok, 24))

	overlap := []serialization.TensorMeta{
		{Name: "a", Offset: 0, Size: 16},
		{Name: "b", Offset: 8, Size: 8},
	}
	assert.Error(t, serialization.ValidateTensorOffsets(overlap, 24))

	oob := []serialization.TensorMeta{{Name: "a", Offset: 0, Size: 32}}
	assert.Error(t, serialization.ValidateTensorOffsets(oob, 24))

	negative := []serialization.TensorMeta{{Name: "a", Offset: -8, Size: 8}}
	assert.Error(t, serialization.ValidateTensorOffsets(negative, 24))
}
