// SPDX-License-Identifier: MIT

package epsilon

import "errors"

var (
	// ErrShapeMismatch is returned when energies, momenta and weights disagree
	// on their extents, or when the requested spin channel does not exist.
	ErrShapeMismatch = errors.New("epsilon: shape mismatch")

	// ErrInvalidGrid is returned by Grid.Validate for unusable frequency grids.
	ErrInvalidGrid = errors.New("epsilon: invalid frequency grid")
)
