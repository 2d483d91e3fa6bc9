// SPDX-License-Identifier: MIT

package tensor

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every message is prefixed with "tensor: ..."; callers
// match them with errors.Is.
var (
	// ErrBadShape is returned when a requested shape has a negative extent.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrOutOfRange indicates an index (or axis-0 slab) outside valid bounds.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrDimensionMismatch indicates incompatible shapes between operands or
	// between a shape and a backing slice.
	ErrDimensionMismatch = errors.New("tensor: dimension mismatch")

	// ErrNilTensor indicates a nil *Tensor receiver or argument.
	ErrNilTensor = errors.New("tensor: nil tensor")
)

// tensorErrorf attaches an operation tag to a sentinel.
func tensorErrorf(tag string, err error) error {
	return fmt.Errorf("Tensor.%s: %w", tag, err)
}
