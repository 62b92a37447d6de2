package cpu

func addInplaceInt32(a, b []int32) {
	for i := range a {
		a[i] += b[i]
	}
}

func addVectorizedInt32(dst, a, b []int32) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func subInplaceInt32(a, b []int32) {
	for i := range a {
		a[i] -= b[i]
	}
}

func subVectorizedInt32(dst, a, b []int32) {
	for i := range dst {
		dst[i] = a[i] - b[i]
	}
}

func mulInplaceInt32(a, b []int32) {
	for i := range a {
		a[i] *= b[i]
	}
}

func mulVectorizedInt32(dst, a, b []int32) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

func divInplaceInt32(a, b []int32) {
	for i := range a {
		a[i] /= b[i]
	}
}

func divVectorizedInt32(dst, a, b []int32) {
	for i := range dst {
		dst[i] = a[i] / b[i]
	}
}

func addInplaceInt64(a, b []int64) {
	for i := range a {
		a[i] += b[i]
	}
}

func addVectorizedInt64(dst, a, b []int64) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func subInplaceInt64(a, b []int64) {
	for i := range a {
		a[i] -= b[i]
	}
}

func subVectorizedInt64(dst, a, b []int64) {
	for i := range dst {
		dst[i] = a[i] - b[i]
	}
}

func mulInplaceInt64(a, b []int64) {
	for i := range a {
		a[i] *= b[i]
	}
}

func mulVectorizedInt64(dst, a, b []int64) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

func divInplaceInt64(a, b []int64) {
	for i := range a {
		a[i] /= b[i]
	}
}

func divVectorizedInt64(dst, a, b []int64) {
	for i := range dst {
		dst[i] = a[i] / b[i]
	}
}
