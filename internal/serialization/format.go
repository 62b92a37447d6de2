package serialization

import (
	"fmt"

	"github.com/born-ml/cortex/internal/tensor"
)

// Container format constants.
const (
	// MagicBytes identifies a .crtx file.
	MagicBytes = "CRTX"

	// FormatVersion is the original container version.
	FormatVersion = 1

	// FormatVersionV2 adds a fixed preamble with a data checksum.
	FormatVersionV2 = 2

	// HeaderAlignment pads the JSON header so tensor data starts on a
	// 64-byte boundary.
	HeaderAlignment = 64

	// FixedHeaderSizeV2 is the size of the version 2 preamble.
	FixedHeaderSizeV2 = 64

	// ChecksumSize is the size of the SHA-256 checksum.
	ChecksumSize = 32

	// ChecksumOffsetV2 is the checksum position in the v2 preamble.
	ChecksumOffsetV2 = 0x20
)

// Tensor element types as stored in the JSON header.
const (
	DTypeFloat32 = "float32"
	DTypeFloat64 = "float64"
	DTypeInt32   = "int32"
	DTypeInt64   = "int64"
)

// Header flag bits.
const (
	// FlagCompressed marks a compressed data section. Reserved.
	FlagCompressed uint32 = 1 << iota
	// FlagEncrypted marks an encrypted data section. Reserved.
	FlagEncrypted
)

// TensorMeta describes one tensor in the container. Offset is relative
// to the start of the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"`
	Size   int64  `json:"size"`
}

// CheckpointMeta carries training state for checkpoint containers.
type CheckpointMeta struct {
	Epoch     int     `json:"epoch"`
	Step      int     `json:"step"`
	Loss      float64 `json:"loss,omitempty"`
	Optimizer string  `json:"optimizer,omitempty"`
}

// Header is the JSON header of a .crtx container.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	LibraryVersion string            `json:"library_version"`
	ModelType      string            `json:"model_type"`
	CreatedAt      string            `json:"created_at"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Checkpoint     *CheckpointMeta   `json:"checkpoint,omitempty"`
}

func dtypeToString(dt tensor.DataType) (string, error) {
	switch dt {
	case tensor.Float32:
		return DTypeFloat32, nil
	case tensor.Float64:
		return DTypeFloat64, nil
	case tensor.Int32:
		return DTypeInt32, nil
	case tensor.Int64:
		return DTypeInt64, nil
	default:
		return "", fmt.Errorf("unsupported dtype: %s", dt)
	}
}

func stringToDtype(s string) (tensor.DataType, error) {
	switch s {
	case DTypeFloat32:
		return tensor.Float32, nil
	case DTypeFloat64:
		return tensor.Float64, nil
	case DTypeInt32:
		return tensor.Int32, nil
	case DTypeInt64:
		return tensor.Int64, nil
	default:
		return 0, fmt.Errorf("unsupported dtype string: %q", s)
	}
}
