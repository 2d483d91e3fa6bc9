// SPDX-License-Identifier: MIT

package report

import "errors"

// ErrShapeMismatch is returned when a tensor does not match its energy axis.
var ErrShapeMismatch = errors.New("report: shape mismatch")
