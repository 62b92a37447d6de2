// Copyright 2026 Cortex ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/cortex/internal/tensor"

// RawTensor is the low-level untyped tensor shared by all backends.
//
// It provides:
//   - Reference-counted buffer sharing with copy-on-write semantics
//   - Shape and type information via Shape(), DType(), Device()
//   - Typed buffer views via AsFloat32(), AsFloat64(), AsInt32(), AsInt64()
//
// Most users should use the high-level Tensor[T, B] type instead.
type RawTensor = tensor.RawTensor
