package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/cortex/internal/tensor"
)

// ReaderOptions configures container reading.
type ReaderOptions struct {
	// SkipChecksumValidation disables the v2 data checksum check.
	SkipChecksumValidation bool
	// ValidationLevel controls header validation strictness.
	ValidationLevel ValidationLevel
}

// Reader reads .crtx containers.
type Reader struct {
	file       *os.File
	header     *Header
	flags      uint32
	version    uint32
	dataOffset int64
	dataSize   int64
	checksum   [ChecksumSize]byte
	opts       ReaderOptions
	closed     bool
}

// NewReader opens a container with strict validation.
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, ReaderOptions{ValidationLevel: ValidationStrict})
}

// NewReaderWithOptions opens a container with explicit options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: the caller chooses the input path.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &Reader{file: file, opts: opts}
	if err := r.parseHeader(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) parseHeader() error {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r.file, magic); err != nil {
		return fmt.Errorf("failed to read magic: %w", err)
	}
	if string(magic) != MagicBytes {
		return fmt.Errorf("%w: %q", ErrInvalidMagic, magic)
	}

	if err := binary.Read(r.file, binary.LittleEndian, &r.version); err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}

	switch r.version {
	case FormatVersion:
		return r.parseHeaderV1()
	case FormatVersionV2:
		return r.parseHeaderV2()
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, r.version)
	}
}

func (r *Reader) parseHeaderV1() error {
	if err := binary.Read(r.file, binary.LittleEndian, &r.flags); err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(r.file, binary.LittleEndian, &headerSize); err != nil {
		return fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerJSON); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	r.header = &Header{}
	if err := json.Unmarshal(headerJSON, r.header); err != nil {
		return fmt.Errorf("failed to decode header: %w", err)
	}

	headerEnd := int64(4+4+4+8) + int64(headerSize)
	r.dataOffset = headerEnd + int64(paddingFor(int(headerEnd)))

	info, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	r.dataSize = info.Size() - r.dataOffset

	return ValidateHeader(r.header, r.dataSize, r.opts.ValidationLevel)
}

func (r *Reader) parseHeaderV2() error {
	preamble := make([]byte, FixedHeaderSizeV2)
	if _, err := r.file.ReadAt(preamble, 0); err != nil {
		return fmt.Errorf("failed to read preamble: %w", err)
	}

	r.flags = binary.LittleEndian.Uint32(preamble[0x08:])
	headerSize := binary.LittleEndian.Uint64(preamble[0x10:])
	//nolint:gosec // G115: data size fits in int64 for any real file.
	r.dataSize = int64(binary.LittleEndian.Uint64(preamble[0x18:]))
	copy(r.checksum[:], preamble[ChecksumOffsetV2:ChecksumOffsetV2+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := r.file.ReadAt(headerJSON, FixedHeaderSizeV2); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	r.header = &Header{}
	if err := json.Unmarshal(headerJSON, r.header); err != nil {
		return fmt.Errorf("failed to decode header: %w", err)
	}

	headerEnd := int64(FixedHeaderSizeV2) + int64(headerSize)
	r.dataOffset = headerEnd + int64(paddingFor(int(headerEnd)))

	if err := ValidateHeader(r.header, r.dataSize, r.opts.ValidationLevel); err != nil {
		return err
	}

	if !r.opts.SkipChecksumValidation {
		data := make([]byte, r.dataSize)
		if _, err := r.file.ReadAt(data, r.dataOffset); err != nil {
			return fmt.Errorf("failed to read data section: %w", err)
		}
		if !ValidateChecksum(data, r.checksum) {
			return ErrChecksumMismatch
		}
	}
	return nil
}

// Header returns the parsed container header.
func (r *Reader) Header() *Header { return r.header }

// Metadata returns the header's metadata map.
func (r *Reader) Metadata() map[string]string { return r.header.Metadata }

// TensorNames returns the names of all stored tensors.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, t := range r.header.Tensors {
		names[i] = t.Name
	}
	return names
}

// TensorInfo returns the metadata of a stored tensor.
func (r *Reader) TensorInfo(name string) (*TensorMeta, error) {
	for i := range r.header.Tensors {
		if r.header.Tensors[i].Name == name {
			return &r.header.Tensors[i], nil
		}
	}
	return nil, fmt.Errorf("tensor %q not found", name)
}

// ReadTensorData reads a tensor's raw bytes.
func (r *Reader) ReadTensorData(name string) ([]byte, error) {
	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	data := make([]byte, meta.Size)
	if _, err := r.file.ReadAt(data, r.dataOffset+meta.Offset); err != nil {
		return nil, fmt.Errorf("failed to read tensor %q: %w", name, err)
	}
	return data, nil
}

// LoadTensor reads one tensor into a new RawTensor on the given
// backend's device.
func (r *Reader) LoadTensor(name string, backend tensor.Backend) (*tensor.RawTensor, error) {
	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	dtype, err := stringToDtype(meta.DType)
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}

	raw, err := tensor.NewRaw(tensor.Shape(meta.Shape), dtype, backend.Device())
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}

	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}
	copy(raw.Data(), data)
	return raw, nil
}

// ReadStateDict loads every stored tensor keyed by name.
func (r *Reader) ReadStateDict(backend tensor.Backend) (map[string]*tensor.RawTensor, error) {
	state := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		raw, err := r.LoadTensor(meta.Name, backend)
		if err != nil {
			return nil, err
		}
		state[meta.Name] = raw
	}
	return state, nil
}

// Close closes the underlying file. Safe to call twice.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}
