// Package tensor holds the dense float32 buffers exchanged with the inference
// engine. Data is contiguous and row-major over Shape.
package tensor

import "fmt"

// Tensor is a fixed-shape contiguous float32 array.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// New allocates a zeroed tensor with the given shape.
func New(shape ...int64) Tensor {
	s := make([]int64, len(shape))
	copy(s, shape)
	return Tensor{Shape: s, Data: make([]float32, Volume(s))}
}

// Volume returns the number of elements described by shape.
func Volume(shape []int64) int {
	if len(shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return int(n)
}

// Rank returns the number of axes.
func (t Tensor) Rank() int {
	return len(t.Shape)
}

// Dim returns the size of axis i, or 0 when the axis does not exist.
func (t Tensor) Dim(i int) int {
	if i < 0 || i >= len(t.Shape) {
		return 0
	}
	return int(t.Shape[i])
}

// Validate checks that every dimension is positive and that Data holds
// exactly as many elements as Shape describes.
func (t Tensor) Validate() error {
	if len(t.Shape) == 0 {
		return fmt.Errorf("tensor has no shape")
	}
	for i, d := range t.Shape {
		if d <= 0 {
			return fmt.Errorf("tensor axis %d has non-positive size %d", i, d)
		}
	}
	if want := Volume(t.Shape); want != len(t.Data) {
		return fmt.Errorf("tensor shape %v needs %d elements, got %d", t.Shape, want, len(t.Data))
	}
	return nil
}
