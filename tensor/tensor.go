// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// ---------- error context tags ----------

const (
	ctxNew     = "New"
	ctxFrom    = "FromSlice"
	ctxAt      = "At"
	ctxSet     = "Set"
	ctxRows    = "Rows"
	ctxSetRows = "SetRows"
	ctxAdd     = "AddInPlace"
)

// Scalar is the element constraint: real or complex double precision.
type Scalar interface {
	~float64 | ~complex128
}

// Tensor is a dense row-major N-dimensional array.
//   - shape holds the extent of every axis (a zero extent is legal).
//   - strides[a] is the flat distance between consecutive indices on axis a.
//   - data has length Π shape.
type Tensor[T Scalar] struct {
	shape   []int
	strides []int
	data    []T
}

// Real is a float64 tensor (eigenvalues, weights, dielectric parts).
type Real = Tensor[float64]

// Complex is a complex128 tensor (Hamiltonian derivatives, eigenvectors,
// momentum matrices).
type Complex = Tensor[complex128]

var _ fmt.Stringer = (*Real)(nil)

// New allocates a zero-filled tensor of the given shape.
//
// Implementation:
//   - Stage 1: reject negative extents (ErrBadShape).
//   - Stage 2: compute row-major strides and allocate Π shape elements.
//
// A rank-0 shape yields a single-element scalar tensor.
func New[T Scalar](shape ...int) (*Tensor[T], error) {
	n, err := volume(shape)
	if err != nil {
		return nil, tensorErrorf(ctxNew, err)
	}

	return &Tensor[T]{
		shape:   slices.Clone(shape),
		strides: rowMajorStrides(shape),
		data:    make([]T, n),
	}, nil
}

// NewReal is New[float64].
func NewReal(shape ...int) (*Real, error) { return New[float64](shape...) }

// NewComplex is New[complex128].
func NewComplex(shape ...int) (*Complex, error) { return New[complex128](shape...) }

// FromSlice wraps data (no copy) as a tensor of the given shape.
// Returns ErrDimensionMismatch when len(data) != Π shape.
func FromSlice[T Scalar](data []T, shape ...int) (*Tensor[T], error) {
	n, err := volume(shape)
	if err != nil {
		return nil, tensorErrorf(ctxFrom, err)
	}
	if n != len(data) {
		return nil, tensorErrorf(ctxFrom, fmt.Errorf("len %d != volume %d: %w", len(data), n, ErrDimensionMismatch))
	}

	return &Tensor[T]{
		shape:   slices.Clone(shape),
		strides: rowMajorStrides(shape),
		data:    data,
	}, nil
}

// Shape returns a copy of the extents.
func (t *Tensor[T]) Shape() []int { return slices.Clone(t.shape) }

// Rank returns the number of axes.
func (t *Tensor[T]) Rank() int { return len(t.shape) }

// Dim returns the extent of axis a, or 0 when a is not a valid axis.
func (t *Tensor[T]) Dim(a int) int {
	if a < 0 || a >= len(t.shape) {
		return 0
	}

	return t.shape[a]
}

// Strides returns a copy of the row-major strides.
func (t *Tensor[T]) Strides() []int { return slices.Clone(t.strides) }

// Len returns the total number of elements.
func (t *Tensor[T]) Len() int { return len(t.data) }

// Data exposes the flat backing slice. Mutations are visible in t.
// Hot kernels index it with Strides to skip per-element bounds errors.
func (t *Tensor[T]) Data() []T { return t.data }

// SameShape reports whether t and o have identical extents.
func (t *Tensor[T]) SameShape(o *Tensor[T]) bool {
	if t == nil || o == nil {
		return false
	}

	return slices.Equal(t.shape, o.shape)
}

// Offset converts a full index into a flat offset.
// Returns ErrDimensionMismatch for a wrong index count and ErrOutOfRange for
// any component outside [0, shape[a]).
func (t *Tensor[T]) Offset(idx ...int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, fmt.Errorf("rank %d index for rank %d tensor: %w", len(idx), len(t.shape), ErrDimensionMismatch)
	}
	off := 0
	for a, i := range idx {
		if i < 0 || i >= t.shape[a] {
			return 0, fmt.Errorf("axis %d index %d not in [0,%d): %w", a, i, t.shape[a], ErrOutOfRange)
		}
		off += i * t.strides[a]
	}

	return off, nil
}

// At returns the element at idx.
func (t *Tensor[T]) At(idx ...int) (T, error) {
	off, err := t.Offset(idx...)
	if err != nil {
		var zero T
		return zero, tensorErrorf(ctxAt, err)
	}

	return t.data[off], nil
}

// Set stores v at idx.
func (t *Tensor[T]) Set(v T, idx ...int) error {
	off, err := t.Offset(idx...)
	if err != nil {
		return tensorErrorf(ctxSet, err)
	}
	t.data[off] = v

	return nil
}

// Rows copies the axis-0 slab [begin, end) into a new tensor whose first
// extent is end-begin and whose remaining extents match t.
//
// Behavior highlights:
//   - begin == end is legal and yields an empty slab (workers with no items).
//   - The result never aliases t.
//
// Complexity: O((end-begin)·strides[0]).
func (t *Tensor[T]) Rows(begin, end int) (*Tensor[T], error) {
	if t == nil {
		return nil, tensorErrorf(ctxRows, ErrNilTensor)
	}
	if len(t.shape) == 0 || begin < 0 || end < begin || end > t.shape[0] {
		return nil, tensorErrorf(ctxRows, fmt.Errorf("slab [%d,%d): %w", begin, end, ErrOutOfRange))
	}
	shape := slices.Clone(t.shape)
	shape[0] = end - begin
	out, err := New[T](shape...)
	if err != nil {
		return nil, tensorErrorf(ctxRows, err)
	}
	copy(out.data, t.data[begin*t.strides[0]:end*t.strides[0]])

	return out, nil
}

// SetRows copies src into the axis-0 slab starting at begin.
// src must match t on every axis but the first.
func (t *Tensor[T]) SetRows(begin int, src *Tensor[T]) error {
	if t == nil || src == nil {
		return tensorErrorf(ctxSetRows, ErrNilTensor)
	}
	if len(t.shape) == 0 || len(src.shape) != len(t.shape) || !slices.Equal(src.shape[1:], t.shape[1:]) {
		return tensorErrorf(ctxSetRows, fmt.Errorf("%v into %v: %w", src.shape, t.shape, ErrDimensionMismatch))
	}
	if begin < 0 || begin+src.shape[0] > t.shape[0] {
		return tensorErrorf(ctxSetRows, fmt.Errorf("slab at %d len %d: %w", begin, src.shape[0], ErrOutOfRange))
	}
	copy(t.data[begin*t.strides[0]:], src.data)

	return nil
}

// AddInPlace performs t += o elementwise. Shapes must match exactly.
func (t *Tensor[T]) AddInPlace(o *Tensor[T]) error {
	if t == nil || o == nil {
		return tensorErrorf(ctxAdd, ErrNilTensor)
	}
	if !slices.Equal(t.shape, o.shape) {
		return tensorErrorf(ctxAdd, fmt.Errorf("%v vs %v: %w", t.shape, o.shape, ErrDimensionMismatch))
	}
	if dst, ok := any(t.data).([]float64); ok {
		floats.Add(dst, any(o.data).([]float64))
		return nil
	}
	for i, v := range o.data {
		t.data[i] += v
	}

	return nil
}

// Scale multiplies every element by alpha.
func (t *Tensor[T]) Scale(alpha T) {
	for i := range t.data {
		t.data[i] *= alpha
	}
}

// Shift adds c to every element.
func (t *Tensor[T]) Shift(c T) {
	for i := range t.data {
		t.data[i] += c
	}
}

// Clone returns a deep copy.
func (t *Tensor[T]) Clone() *Tensor[T] {
	return &Tensor[T]{
		shape:   slices.Clone(t.shape),
		strides: slices.Clone(t.strides),
		data:    slices.Clone(t.data),
	}
}

// String implements fmt.Stringer with a compact shape summary.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor%v(len=%d)", t.shape, len(t.data))
}

// volume returns Π shape or ErrBadShape on a negative extent.
func volume(shape []int) (int, error) {
	n := 1
	for a, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("axis %d extent %d: %w", a, d, ErrBadShape)
		}
		n *= d
	}

	return n, nil
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	s := 1
	for a := len(shape) - 1; a >= 0; a-- {
		strides[a] = s
		s *= shape[a]
	}

	return strides
}
