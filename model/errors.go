// SPDX-License-Identifier: MIT

package model

import "errors"

// ErrInvalidModel is returned by Validate for out-of-range orbitals,
// non-finite parameters or on-site terms disguised as R=0 self-hoppings.
var ErrInvalidModel = errors.New("model: invalid model")
