// SPDX-License-Identifier: MIT

package collective

import (
	"context"

	"github.com/kylincaster/PAOFLOW/tensor"
)

// Root is the index of the coordinator worker.
const Root = 0

// WorkerContext identifies one worker for the lifetime of a pool run.
// It is passed explicitly; there is no ambient rank.
type WorkerContext struct {
	Index int // 0 <= Index < Size
	Size  int // pool size
}

// IsCoordinator reports whether this worker performs assembly and reporting.
func (w WorkerContext) IsCoordinator() bool { return w.Index == Root }

// Target selects who receives the result of a reduction.
type Target int

const (
	// ToRoot delivers the sum to the coordinator only; other workers get nil.
	ToRoot Target = iota
	// ToAll delivers an independent copy of the sum to every worker.
	ToAll
)

// String implements fmt.Stringer.
func (t Target) String() string {
	if t == ToAll {
		return "all"
	}

	return "root"
}

// Channel is the collective surface one worker sees.
//
// Every method is a full-pool barrier and must be called by all workers in
// the same order. Returned tensors are owned by the caller.
type Channel interface {
	// Worker returns this worker's identity.
	Worker() WorkerContext

	// Barrier blocks until every worker has called Barrier.
	Barrier(ctx context.Context) error

	// BroadcastInts returns the coordinator's vals on every worker.
	// Non-coordinators may pass nil.
	BroadcastInts(ctx context.Context, vals []int) ([]int, error)

	// ScatterReal splits the coordinator's full tensor along axis 0 with
	// partition.Range and returns this worker's slab. Non-coordinators pass nil.
	ScatterReal(ctx context.Context, full *tensor.Real) (*tensor.Real, error)

	// ScatterComplex is ScatterReal for complex tensors.
	ScatterComplex(ctx context.Context, full *tensor.Complex) (*tensor.Complex, error)

	// ReduceReal sums same-shaped partials across the pool.
	ReduceReal(ctx context.Context, partial *tensor.Real, to Target) (*tensor.Real, error)

	// ReduceComplex is ReduceReal for complex tensors.
	ReduceComplex(ctx context.Context, partial *tensor.Complex, to Target) (*tensor.Complex, error)
}
