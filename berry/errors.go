// SPDX-License-Identifier: MIT

package berry

import "errors"

// ErrShapeMismatch is returned when energies and momenta disagree on their
// extents, or when the requested spin channel does not exist.
var ErrShapeMismatch = errors.New("berry: shape mismatch")
