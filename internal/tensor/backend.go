package tensor

// Backend defines the raw-tensor operations every compute backend must
// implement. All operations work on RawTensor so backends stay free of
// Go generics; the typed Tensor wrapper restores type safety on top.
//
// Backends panic on shape or dtype violations. Incorrect shapes are
// programming errors, not runtime conditions to recover from.
type Backend interface {
	// Element-wise arithmetic with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul computes the matrix product of two 2D tensors.
	MatMul(a, b *RawTensor) *RawTensor

	// Conv2D computes a 2D cross-correlation of a 4D input [N, CIn, H, W]
	// with a 4D kernel [COut, CIn, KH, KW]. Stride is given per spatial
	// axis and padding as {top, bottom, left, right} zero rows/columns.
	Conv2D(input, kernel *RawTensor, stride [2]int, padding [4]int) *RawTensor

	// MaxPool2D applies max pooling over the spatial axes of a 4D input.
	// Padded positions contribute negative infinity.
	MaxPool2D(input *RawTensor, kernel, stride, padding [2]int) *RawTensor

	// AvgPool2D applies average pooling over the spatial axes of a 4D
	// input. No padding; every window lies fully inside the input.
	AvgPool2D(input *RawTensor, kernel, stride [2]int) *RawTensor

	// BatchNorm2d normalizes a 4D input [N, C, H, W] per channel using
	// the given mean and variance vectors of length C, then applies the
	// affine transform gamma*x + beta.
	BatchNorm2d(input, gamma, beta, mean, variance *RawTensor, eps float64) *RawTensor

	// Shape manipulation.
	Reshape(x *RawTensor, shape Shape) *RawTensor
	Transpose(x *RawTensor, axes []int) *RawTensor

	// Scalar operations. The scalar must match the tensor's dtype.
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Element-wise math.
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor

	// Activations.
	Softmax(x *RawTensor, dim int) *RawTensor
	LogSoftmax(x *RawTensor, dim int) *RawTensor

	// Reductions.
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	Argmax(x *RawTensor, dim int) *RawTensor

	// Tensor manipulation.
	Cat(tensors []*RawTensor, dim int) *RawTensor
	Unsqueeze(x *RawTensor, dim int) *RawTensor
	Squeeze(x *RawTensor, dim int) *RawTensor

	// Name returns the backend's human-readable name.
	Name() string

	// Device returns the device this backend computes on.
	Device() Device
}
