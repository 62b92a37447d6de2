package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/born-ml/cortex/internal/tensor"
)

// libraryVersion is recorded in every written header.
const libraryVersion = "0.1.0"

// Writer writes .crtx containers.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates the target file and a writer for it.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: the caller chooses the output path.
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file}, nil
}

// WriteStateDict writes a version 1 container holding the given
// tensors with the given model type and metadata.
func (w *Writer) WriteStateDict(state map[string]*tensor.RawTensor, modelType string, metadata map[string]string) error {
	header := &Header{
		FormatVersion:  FormatVersion,
		LibraryVersion: libraryVersion,
		ModelType:      modelType,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		Metadata:       metadata,
	}
	return w.writeWithHeader(state, header)
}

// WriteStateDictWithHeader writes a version 1 container with a
// caller-provided header. Tensor entries and timestamps are filled in.
func (w *Writer) WriteStateDictWithHeader(state map[string]*tensor.RawTensor, header *Header) error {
	return w.writeWithHeader(state, header)
}

// WriteStateDictV2 writes a version 2 container with a data checksum.
func (w *Writer) WriteStateDictV2(state map[string]*tensor.RawTensor, modelType string, metadata map[string]string) error {
	header := &Header{
		FormatVersion:  FormatVersionV2,
		LibraryVersion: libraryVersion,
		ModelType:      modelType,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		Metadata:       metadata,
	}
	return w.writeWithHeaderV2(state, header)
}

// WriteStateDictWithHeaderV2 writes a version 2 container with a
// caller-provided header.
func (w *Writer) WriteStateDictWithHeaderV2(state map[string]*tensor.RawTensor, header *Header) error {
	return w.writeWithHeaderV2(state, header)
}

// Close closes the underlying file. Safe to call twice.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// layoutTensors assigns data-section offsets in sorted name order and
// fills the header's tensor table.
func layoutTensors(state map[string]*tensor.RawTensor, header *Header) ([]string, error) {
	names := make([]string, 0, len(state))
	for name := range state {
		names = append(names, name)
	}
	sort.Strings(names)

	header.Tensors = header.Tensors[:0]
	offset := int64(0)
	for _, name := range names {
		raw := state[name]
		dtype, err := dtypeToString(raw.DType())
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		size := int64(raw.ByteSize())
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  dtype,
			Shape:  append([]int(nil), raw.Shape()...),
			Offset: offset,
			Size:   size,
		})
		offset += size
	}
	return names, nil
}

func (w *Writer) writeWithHeader(state map[string]*tensor.RawTensor, header *Header) error {
	header.FormatVersion = FormatVersion
	if header.LibraryVersion == "" {
		header.LibraryVersion = libraryVersion
	}
	if header.CreatedAt == "" {
		header.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	names, err := layoutTensors(state, header)
	if err != nil {
		return err
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}

	if err := w.writeUint32s(MagicBytes, FormatVersion, 0); err != nil {
		return err
	}
	//nolint:gosec // G115: header length is bounded by MaxHeaderSize.
	if err := binary.Write(w.file, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Pad so the data section starts on a 64-byte boundary.
	currentPos := 4 + 4 + 4 + 8 + len(headerJSON)
	if pad := paddingFor(currentPos); pad > 0 {
		if _, err := w.file.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	for _, name := range names {
		if _, err := w.file.Write(state[name].Data()); err != nil {
			return fmt.Errorf("failed to write tensor %q: %w", name, err)
		}
	}
	return nil
}

func (w *Writer) writeWithHeaderV2(state map[string]*tensor.RawTensor, header *Header) error {
	header.FormatVersion = FormatVersionV2
	if header.LibraryVersion == "" {
		header.LibraryVersion = libraryVersion
	}
	if header.CreatedAt == "" {
		header.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	names, err := layoutTensors(state, header)
	if err != nil {
		return err
	}

	var data []byte
	for _, name := range names {
		data = append(data, state[name].Data()...)
	}
	checksum := ComputeChecksum(data)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}

	// Fixed 64-byte preamble.
	preamble := make([]byte, FixedHeaderSizeV2)
	copy(preamble[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(preamble[0x04:], FormatVersionV2)
	binary.LittleEndian.PutUint32(preamble[0x08:], 0) // flags
	//nolint:gosec // G115: header length is bounded by MaxHeaderSize.
	binary.LittleEndian.PutUint64(preamble[0x10:], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(preamble[0x18:], uint64(len(data)))
	copy(preamble[ChecksumOffsetV2:], checksum[:])

	if _, err := w.file.Write(preamble); err != nil {
		return fmt.Errorf("failed to write preamble: %w", err)
	}
	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	currentPos := FixedHeaderSizeV2 + len(headerJSON)
	if pad := paddingFor(currentPos); pad > 0 {
		if _, err := w.file.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.file.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

func (w *Writer) writeUint32s(magic string, version, flags uint32) error {
	if _, err := w.file.Write([]byte(magic)); err != nil {
		return fmt.Errorf("failed to write magic: %w", err)
	}
	if err := binary.Write(w.file, binary.LittleEndian, version); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	if err := binary.Write(w.file, binary.LittleEndian, flags); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}
	return nil
}

func paddingFor(pos int) int {
	if rem := pos % HeaderAlignment; rem != 0 {
		return HeaderAlignment - rem
	}
	return 0
}
