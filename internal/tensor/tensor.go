// Package tensor provides a minimal dense N-dimensional array.
//
// Data is stored contiguously in row-major order. The package only supports
// what the geometric transforms need: construction with shape validation,
// cloning, and viewing an array as a batch of trailing blocks.
package tensor

import (
	"fmt"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
)

// Number is the set of element types a Tensor may hold.
type Number interface {
	~uint8 | ~float64
}

// Array is the element-type-agnostic view of a Tensor.
type Array interface {
	Shape() []int
	Numel() int
}

// Tensor is a dense row-major N-dimensional array.
type Tensor[T Number] struct {
	shape []int
	data  []T
}

// New wraps data in a tensor of the given shape. The data slice is not copied.
func New[T Number](shape []int, data []T) (*Tensor[T], error) {
	n, err := numel(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch,
			"shape %v needs %d elements, got %d", shape, n, len(data))
	}
	return &Tensor[T]{shape: append([]int(nil), shape...), data: data}, nil
}

// Zeros allocates a zero-filled tensor.
func Zeros[T Number](shape ...int) (*Tensor[T], error) {
	n, err := numel(shape)
	if err != nil {
		return nil, err
	}
	return &Tensor[T]{shape: append([]int(nil), shape...), data: make([]T, n)}, nil
}

// MustNew is like New but panics on error. Intended for fixtures.
func MustNew[T Number](shape []int, data []T) *Tensor[T] {
	t, err := New(shape, data)
	if err != nil {
		panic(err)
	}
	return t
}

func numel(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "negative dimension in shape %v", shape)
		}
		n *= d
	}
	return n, nil
}

// Shape returns a copy of the tensor shape.
func (t *Tensor[T]) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Rank returns the number of axes.
func (t *Tensor[T]) Rank() int {
	return len(t.shape)
}

// Numel returns the number of elements.
func (t *Tensor[T]) Numel() int {
	return len(t.data)
}

// Data returns the backing slice. Mutating it mutates the tensor.
func (t *Tensor[T]) Data() []T {
	return t.data
}

// Clone returns a deep copy.
func (t *Tensor[T]) Clone() *Tensor[T] {
	return &Tensor[T]{
		shape: append([]int(nil), t.shape...),
		data:  append([]T(nil), t.data...),
	}
}

// Equal reports whether both tensors have identical shape and elements.
func (t *Tensor[T]) Equal(o *Tensor[T]) bool {
	if len(t.shape) != len(o.shape) || len(t.data) != len(o.data) {
		return false
	}
	for i := range t.shape {
		if t.shape[i] != o.shape[i] {
			return false
		}
	}
	for i := range t.data {
		if t.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// Blocks splits the shape into the leading batch shape and the trailing
// block shape made of the last k axes, and returns the number of blocks.
func (t *Tensor[T]) Blocks(k int) (batch []int, block []int, count int, err error) {
	if len(t.shape) < k {
		return nil, nil, 0, geomerrors.New(geomerrors.ErrCodeShapeMismatch,
			"expected at least %d axes, got shape %v", k, t.shape)
	}
	split := len(t.shape) - k
	batch = append([]int(nil), t.shape[:split]...)
	block = append([]int(nil), t.shape[split:]...)
	count = 1
	for _, d := range batch {
		count *= d
	}
	return batch, block, count, nil
}

// String implements fmt.Stringer.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("tensor%v", t.shape)
}
