package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Zeros returns a tensor filled with zeros.
func Zeros[T DType, B Backend](backend B, shape Shape) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return New[T, B](raw, backend)
}

// Ones returns a tensor filled with ones.
func Ones[T DType, B Backend](backend B, shape Shape) *Tensor[T, B] {
	var one T = 1
	return Full[T, B](backend, shape, one)
}

// Full returns a tensor filled with the given value.
func Full[T DType, B Backend](backend B, shape Shape, value T) *Tensor[T, B] {
	t := Zeros[T, B](backend, shape)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn returns a float tensor of samples from the standard normal
// distribution, generated with the Box-Muller transform.
func Randn[T DType, B Backend](backend B, shape Shape) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)
	if dtype != Float32 && dtype != Float64 {
		panic(fmt.Sprintf("randn: requires a float dtype, have %s", dtype))
	}

	t := Zeros[T, B](backend, shape)
	data := t.Data()
	for i := 0; i < len(data); i += 2 {
		//nolint:gosec // G404: statistical sampling, not cryptography.
		u1, u2 := rand.Float64(), rand.Float64()
		mag := math.Sqrt(-2.0 * math.Log(u1))
		data[i] = T(mag * math.Cos(2.0*math.Pi*u2))
		if i+1 < len(data) {
			data[i+1] = T(mag * math.Sin(2.0*math.Pi*u2))
		}
	}
	return t
}

// Rand returns a float tensor of samples uniform in [0, 1).
func Rand[T DType, B Backend](backend B, shape Shape) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)
	if dtype != Float32 && dtype != Float64 {
		panic(fmt.Sprintf("rand: requires a float dtype, have %s", dtype))
	}

	t := Zeros[T, B](backend, shape)
	data := t.Data()
	for i := range data {
		//nolint:gosec // G404: statistical sampling, not cryptography.
		data[i] = T(rand.Float64())
	}
	return t
}
