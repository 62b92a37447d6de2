package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/cortex/internal/tensor"
)

// Xavier initializes a float32 tensor with Glorot uniform samples in
// [-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))].
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	dist := distuv.Uniform{Min: -bound, Max: bound}

	raw, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(fmt.Sprintf("xavier: %v", err))
	}

	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
	return tensor.New[float32, B](raw, backend)
}

// Zeros returns a zero-filled float32 tensor.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32, B](backend, shape)
}

// Ones returns a one-filled float32 tensor.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32, B](backend, shape)
}
