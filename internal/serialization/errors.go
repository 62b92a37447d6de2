package serialization

import (
	"errors"
	"fmt"
)

// Sentinel errors for container validation failures.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes: not a crtx file")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrHeaderTooLarge     = errors.New("header exceeds size limit")
	ErrChecksumMismatch   = errors.New("data checksum mismatch")
	ErrOffsetOverlap      = errors.New("tensor data regions overlap")
	ErrOutOfBounds        = errors.New("tensor data out of bounds")
	ErrNegativeOffset     = errors.New("negative tensor offset or size")
	ErrTooManyTensors     = errors.New("too many tensors")
	ErrTensorNameTooLong  = errors.New("tensor name too long")
	ErrInvalidTensorName  = errors.New("invalid tensor name")
)

// ValidationError describes a header validation failure in detail.
type ValidationError struct {
	Type    string
	Tensor  string
	Tensor2 string
	Details string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Tensor2 != "":
		return fmt.Sprintf("validation failed (%s): tensors %q and %q: %s", e.Type, e.Tensor, e.Tensor2, e.Details)
	case e.Tensor != "":
		return fmt.Sprintf("validation failed (%s): tensor %q: %s", e.Type, e.Tensor, e.Details)
	default:
		return fmt.Sprintf("validation failed (%s): %s", e.Type, e.Details)
	}
}
