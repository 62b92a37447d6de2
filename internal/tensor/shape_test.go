package tensor

import "testing"

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  int
	}{
		{"scalar", Shape{}, 1},
		{"vector", Shape{5}, 5},
		{"matrix", Shape{3, 4}, 12},
		{"4d", Shape{2, 22, 1, 1125}, 49500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.NumElements(); got != tt.want {
				t.Errorf("NumElements() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShapeComputeStrides(t *testing.T) {
	shape := Shape{2, 3, 4}
	strides := shape.ComputeStrides()

	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("stride[%d] = %d, want %d", i, strides[i], want[i])
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("expected error for zero dimension")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("expected error for negative dimension")
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{"equal", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{"scalar rhs", Shape{2, 3}, Shape{1}, Shape{2, 3}, true, false},
		{"bias row", Shape{4, 288}, Shape{1, 288}, Shape{4, 288}, true, false},
		{"channel bias", Shape{2, 48, 1, 100}, Shape{1, 48, 1, 1}, Shape{2, 48, 1, 100}, true, false},
		{"incompatible", Shape{2, 3}, Shape{2, 4}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("result = %v, want %v", got, tt.want)
			}
			if broadcast != tt.broadcast {
				t.Errorf("broadcast = %v, want %v", broadcast, tt.broadcast)
			}
		})
	}
}

func TestRawTensorRefCounting(t *testing.T) {
	raw, err := NewRaw(Shape{2, 2}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if !raw.IsUnique() {
		t.Error("fresh tensor should be unique")
	}

	view := raw.Clone()
	if raw.IsUnique() || view.IsUnique() {
		t.Error("shared buffer reported as unique")
	}

	view.Release()
	if !raw.IsUnique() {
		t.Error("tensor should be unique after view release")
	}
}
