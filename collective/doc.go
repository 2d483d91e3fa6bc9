// SPDX-License-Identifier: MIT

// Package collective is the message-passing substrate of the response
// engines: a fixed pool of workers that synchronize exclusively through
// collective operations.
//
// What & Why:
//
//	Engines never share memory between workers. Every exchange is one of
//	  - BroadcastInts: the coordinator's metadata becomes everyone's,
//	  - Scatter:       the coordinator's full array is split along axis 0
//	                   using partition.Range, one slab per worker,
//	  - Reduce:        elementwise sum of same-shaped partials, delivered to
//	                   the coordinator only (ToRoot) or to every worker (ToAll),
//	  - Barrier.
//	Each call is a full-pool barrier: nobody returns until everybody has
//	arrived and the operation has completed. Partials are summed in worker
//	index order, so results are bitwise reproducible for a given pool size.
//
// Failure model:
//
//	A worker that returns an error, a canceled context, a shape mismatch
//	inside a reduction, or a worker that leaves while others still wait in a
//	collective, aborts the whole pool. Every worker blocked in (or later
//	entering) a collective gets an error matching ErrAborted. There is no
//	retry and no partial result.
//
// The in-process Pool runs one goroutine per worker (errgroup). The Channel
// interface is what engines depend on, so another transport can back it
// without touching engine code.
package collective
