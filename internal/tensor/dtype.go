package tensor

// DType is the type constraint for all supported tensor element types.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// DataType is the runtime representation of a tensor's element type.
type DataType int

const (
	// Float32 is the 32-bit floating point data type.
	Float32 DataType = iota
	// Float64 is the 64-bit floating point data type.
	Float64
	// Int32 is the 32-bit signed integer data type.
	Int32
	// Int64 is the 64-bit signed integer data type.
	Int64
)

// Size returns the size in bytes of one element of this data type.
func (d DataType) Size() int {
	switch d {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns the human-readable name of the data type.
func (d DataType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// inferDataType maps a Go type parameter to its runtime DataType.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	default:
		panic("unsupported data type")
	}
}
