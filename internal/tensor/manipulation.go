package tensor

// Cat concatenates tensors along dim. All tensors must agree on every
// other dimension.
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("cat: empty tensor list")
	}
	if len(tensors) == 1 {
		return tensors[0].Clone()
	}

	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}

	backend := tensors[0].backend
	result := backend.Cat(raws, dim)
	return New[T, B](result, backend)
}

// Unsqueeze inserts a size-1 dimension at dim. Negative dims count from
// the end of the result shape.
func (t *Tensor[T, B]) Unsqueeze(dim int) *Tensor[T, B] {
	result := t.backend.Unsqueeze(t.raw, dim)
	return New[T, B](result, t.backend)
}

// Squeeze removes the size-1 dimension at dim.
func (t *Tensor[T, B]) Squeeze(dim int) *Tensor[T, B] {
	result := t.backend.Squeeze(t.raw, dim)
	return New[T, B](result, t.backend)
}
