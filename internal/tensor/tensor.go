// Package tensor provides the generic tensor type and the backend
// contract shared by all compute backends.
package tensor

import "fmt"

// Tensor is a typed, backend-parameterized view over a RawTensor.
// T fixes the element type at compile time and B selects the backend.
type Tensor[T DType, B Backend] struct {
	raw     *RawTensor
	backend B
}

// New wraps a raw tensor with its backend.
func New[T DType, B Backend](raw *RawTensor, backend B) *Tensor[T, B] {
	return &Tensor[T, B]{raw: raw, backend: backend}
}

// FromSlice builds a tensor from a flat slice in row-major order.
func FromSlice[T DType, B Backend](backend B, data []T, shape Shape) (*Tensor[T, B], error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)", len(data), shape, shape.NumElements())
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), backend.Device())
	if err != nil {
		return nil, err
	}

	switch typed := any(data).(type) {
	case []float32:
		copy(raw.AsFloat32(), typed)
	case []float64:
		copy(raw.AsFloat64(), typed)
	case []int32:
		copy(raw.AsInt32(), typed)
	case []int64:
		copy(raw.AsInt64(), typed)
	}

	return New[T, B](raw, backend), nil
}

// Shape returns the tensor's shape.
func (t *Tensor[T, B]) Shape() Shape { return t.raw.Shape() }

// DType returns the tensor's element type.
func (t *Tensor[T, B]) DType() DataType { return t.raw.DType() }

// Device returns the device holding the tensor data.
func (t *Tensor[T, B]) Device() Device { return t.raw.Device() }

// NumElements returns the total number of elements.
func (t *Tensor[T, B]) NumElements() int { return t.raw.NumElements() }

// Raw returns the underlying raw tensor.
func (t *Tensor[T, B]) Raw() *RawTensor { return t.raw }

// Backend returns the tensor's backend.
func (t *Tensor[T, B]) Backend() B { return t.backend }

// Data returns the tensor elements as a typed slice sharing the
// underlying buffer.
func (t *Tensor[T, B]) Data() []T {
	switch t.raw.DType() {
	case Float32:
		return any(t.raw.AsFloat32()).([]T)
	case Float64:
		return any(t.raw.AsFloat64()).([]T)
	case Int32:
		return any(t.raw.AsInt32()).([]T)
	case Int64:
		return any(t.raw.AsInt64()).([]T)
	default:
		panic(fmt.Sprintf("unsupported dtype: %s", t.raw.DType()))
	}
}

// Item returns the value of a scalar tensor.
func (t *Tensor[T, B]) Item() T {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("Item() requires a scalar tensor, have shape %v", t.Shape()))
	}
	return t.Data()[0]
}

// At returns the element at the given indices.
func (t *Tensor[T, B]) At(indices ...int) T {
	return t.Data()[t.flatIndex(indices)]
}

// Set assigns the element at the given indices.
func (t *Tensor[T, B]) Set(value T, indices ...int) {
	t.Data()[t.flatIndex(indices)] = value
}

func (t *Tensor[T, B]) flatIndex(indices []int) int {
	shape := t.Shape()
	if len(indices) != len(shape) {
		panic(fmt.Sprintf("expected %d indices for shape %v, got %d", len(shape), shape, len(indices)))
	}
	strides := t.raw.Strides()
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			panic(fmt.Sprintf("index %d out of range for dimension %d with size %d", idx, i, shape[i]))
		}
		flat += idx * strides[i]
	}
	return flat
}

// Clone returns a new tensor view sharing the underlying buffer.
func (t *Tensor[T, B]) Clone() *Tensor[T, B] {
	return New[T, B](t.raw.Clone(), t.backend)
}

// String returns a short description of the tensor.
func (t *Tensor[T, B]) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.DType(), t.Shape(), t.Device())
}
