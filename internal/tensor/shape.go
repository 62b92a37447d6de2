package tensor

import "fmt"

// Shape describes the dimensions of a tensor. A nil or empty shape
// denotes a scalar.
type Shape []int

// NumElements returns the total number of elements described by the shape.
// A scalar shape has one element.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate returns an error if any dimension is not strictly positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension %d at index %d: must be positive", dim, i)
		}
	}
	return nil
}

// Equal reports whether two shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// ComputeStrides returns the row-major strides for the shape.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= s[i]
	}
	return strides
}

// BroadcastShapes computes the broadcast result shape of a and b following
// NumPy broadcasting rules. The second return value reports whether any
// broadcasting is actually required.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	if a.Equal(b) {
		return a.Clone(), false, nil
	}

	maxLen := maxInt(len(a), len(b))
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		dimA, dimB := 1, 1
		if i < len(a) {
			dimA = a[len(a)-1-i]
		}
		if i < len(b) {
			dimB = b[len(b)-1-i]
		}

		switch {
		case dimA == dimB:
			result[maxLen-1-i] = dimA
		case dimA == 1:
			result[maxLen-1-i] = dimB
		case dimB == 1:
			result[maxLen-1-i] = dimA
		default:
			return nil, false, fmt.Errorf("cannot broadcast shapes %v and %v: incompatible dimensions %d and %d", a, b, dimA, dimB)
		}
	}

	return result, true, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
