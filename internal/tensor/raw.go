package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Device identifies where tensor data lives.
type Device int

const (
	// CPU is the host processor device.
	CPU Device = iota
)

// String returns the human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted byte buffer shared between tensor
// views. Copy-on-write decisions are made from the reference count.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex
}

func (b *tensorBuffer) addRef() {
	b.refCount.Add(1)
}

func (b *tensorBuffer) release() {
	b.refCount.Add(-1)
}

func (b *tensorBuffer) isUnique() bool {
	return b.refCount.Load() == 1
}

// RawTensor is the untyped tensor representation shared by all backends.
// It carries the buffer, shape, strides, dtype and device.
type RawTensor struct {
	buffer *tensorBuffer
	shape  Shape
	stride []int
	dtype  DataType
	device Device
	offset int
}

// NewRaw allocates a zero-filled raw tensor with the given shape, dtype
// and device.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	byteSize := shape.NumElements() * dtype.Size()
	buffer := &tensorBuffer{data: make([]byte, byteSize)}
	buffer.refCount.Store(1)

	return &RawTensor{
		buffer: buffer,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape { return r.shape }

// Strides returns the tensor's row-major strides.
func (r *RawTensor) Strides() []int { return r.stride }

// DType returns the tensor's element type.
func (r *RawTensor) DType() DataType { return r.dtype }

// Device returns the device holding the tensor data.
func (r *RawTensor) Device() Device { return r.device }

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int { return r.shape.NumElements() }

// ByteSize returns the total size of the tensor data in bytes.
func (r *RawTensor) ByteSize() int { return r.NumElements() * r.dtype.Size() }

// Data returns the underlying byte buffer.
func (r *RawTensor) Data() []byte {
	return r.buffer.data[r.offset : r.offset+r.ByteSize()]
}

// AsFloat32 reinterprets the buffer as a []float32. Panics if the dtype
// does not match.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("dtype mismatch: have %s, want float32", r.dtype))
	}
	data := r.Data()
	//nolint:gosec // Reinterpreting the buffer at its declared dtype.
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat64 reinterprets the buffer as a []float64. Panics if the dtype
// does not match.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("dtype mismatch: have %s, want float64", r.dtype))
	}
	data := r.Data()
	//nolint:gosec // Reinterpreting the buffer at its declared dtype.
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsInt32 reinterprets the buffer as a []int32. Panics if the dtype does
// not match.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("dtype mismatch: have %s, want int32", r.dtype))
	}
	data := r.Data()
	//nolint:gosec // Reinterpreting the buffer at its declared dtype.
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsInt64 reinterprets the buffer as a []int64. Panics if the dtype does
// not match.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("dtype mismatch: have %s, want int64", r.dtype))
	}
	data := r.Data()
	//nolint:gosec // Reinterpreting the buffer at its declared dtype.
	return unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// Clone returns a new view sharing the same buffer. The reference count
// is incremented so in-place optimizations stay safe.
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
		offset: r.offset,
	}
}

// Release drops this view's reference to the shared buffer.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique reports whether this view is the only holder of the buffer,
// which makes in-place mutation safe.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}
