// SPDX-License-Identifier: MIT

package collective

import "errors"

var (
	// ErrAborted is returned by every collective once the pool has been
	// aborted. The abort cause is wrapped alongside it.
	ErrAborted = errors.New("collective: pool aborted")

	// ErrDesynchronized is the abort cause when a worker leaves the pool while
	// another worker waits in (or enters) a collective it can never complete.
	ErrDesynchronized = errors.New("collective: worker left the pool during a collective")

	// ErrShapeMismatch is the abort cause when reduction partials differ in shape,
	// or when a scatter source is missing on the coordinator.
	ErrShapeMismatch = errors.New("collective: shape mismatch")

	// ErrInvalidPoolSize is returned by NewPool for size < 1.
	ErrInvalidPoolSize = errors.New("collective: pool size must be >= 1")
)
