// SPDX-License-Identifier: MIT

package velocity

import "errors"

// ErrShapeMismatch is returned when dH, R, the k-point list and the
// eigenvectors disagree on their extents. It is raised before any work.
var ErrShapeMismatch = errors.New("velocity: shape mismatch")
