// SPDX-License-Identifier: MIT

// Package matrix - CDense: complex128 row-major storage.
//
// CDense mirrors Dense for complex entries. Orbital-basis operator blocks
// (∂H/∂k at one k-point) and eigenvector blocks are CDense; the band-basis
// projection Vᴴ·A·V is computed in impl_linear_algebra.go.

package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// cdenseErrorf wraps an error with CDense context and callsite indices.
func cdenseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("CDense.%s(%d,%d): %w", method, row, col, err)
}

// CDense is a concrete row-major complex128 matrix (offset = i*c + j).
type CDense struct {
	r, c int
	data []complex128
}

var _ fmt.Stringer = (*CDense)(nil)

// NewCDense creates an r×c zero complex matrix.
// Errors: ErrInvalidDimensions when rows<=0 or cols<=0.
func NewCDense(rows, cols int) (*CDense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &CDense{r: rows, c: cols, data: make([]complex128, rows*cols)}, nil
}

// NewCDenseFrom wraps data (no copy) as an r×c matrix.
// Errors: ErrInvalidDimensions, ErrDimensionMismatch when len(data) != r*c.
func NewCDenseFrom(rows, cols int, data []complex128) (*CDense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("NewCDenseFrom: len %d != %d*%d: %w", len(data), rows, cols, ErrDimensionMismatch)
	}

	return &CDense{r: rows, c: cols, data: data}, nil
}

// Rows returns the number of rows.
func (m *CDense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *CDense) Cols() int { return m.c }

// At retrieves the element at (row, col) or ErrOutOfRange.
func (m *CDense) At(row, col int) (complex128, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, cdenseErrorf(ctxAt, row, col, ErrOutOfRange)
	}

	return m.data[row*m.c+col], nil
}

// Set assigns v at (row, col). NaN/Inf components are always rejected.
func (m *CDense) Set(row, col int, v complex128) error {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return cdenseErrorf(ctxSet, row, col, ErrOutOfRange)
	}
	if cmplx.IsNaN(v) || cmplx.IsInf(v) {
		return cdenseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[row*m.c+col] = v

	return nil
}

// RawData exposes the row-major backing slice for hot kernels.
func (m *CDense) RawData() []complex128 { return m.data }

// Clone returns a deep copy.
func (m *CDense) Clone() *CDense {
	cp := make([]complex128, len(m.data))
	copy(cp, m.data)

	return &CDense{r: m.r, c: m.c, data: cp}
}

// MaxAbsDiff returns max |m[i,j] - o[i,j]|, or +Inf when shapes differ.
func (m *CDense) MaxAbsDiff(o *CDense) float64 {
	if m == nil || o == nil || m.r != o.r || m.c != o.c {
		return math.Inf(1)
	}
	var worst float64
	for i, v := range m.data {
		worst = math.Max(worst, cmplx.Abs(v-o.data[i]))
	}

	return worst
}

// String renders one bracketed row per line.
func (m *CDense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteString(_fmtRowOpen)
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(_fmtSep)
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}
