// SPDX-License-Identifier: MIT

package collective

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kylincaster/PAOFLOW/partition"
	"github.com/kylincaster/PAOFLOW/tensor"
)

// WorkerFunc is the body every worker of a pool runs.
type WorkerFunc func(ctx context.Context, ch Channel) error

// Pool is an in-process worker pool of fixed size. A Pool holds no state
// between runs; each Run gets a fresh rendezvous hub.
type Pool struct {
	size int
	opts Options
}

// NewPool creates a pool of size workers.
// Errors: ErrInvalidPoolSize when size < 1.
func NewPool(size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("NewPool(%d): %w", size, ErrInvalidPoolSize)
	}

	return &Pool{size: size, opts: gatherOptions(opts...)}, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Run executes fn once per worker, each on its own goroutine, and waits for
// all of them.
//
// Behavior highlights:
//   - The first worker error (or ctx cancellation) aborts the pool; blocked
//     collectives return ErrAborted on every other worker.
//   - The returned error is the abort cause, not one of the derived
//     ErrAborted errors, so callers see the root failure.
func (p *Pool) Run(ctx context.Context, fn WorkerFunc) error {
	h := newHub(p.size)
	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() { h.abort(context.Cause(gctx)) })
	defer stop()

	p.opts.logger.Debug("pool run starting", zap.Int("workers", p.size))
	for r := 0; r < p.size; r++ {
		ep := &endpoint{
			hub:    h,
			worker: WorkerContext{Index: r, Size: p.size},
			logger: p.opts.logger.With(zap.Int("worker", r)),
		}
		g.Go(func() error {
			err := fn(gctx, ep)
			if err != nil {
				h.abort(err)
			}
			h.depart()
			return err
		})
	}

	err := g.Wait()
	if err != nil {
		if cause := h.firstCause(); cause != nil {
			err = cause
		}
		p.opts.logger.Debug("pool run aborted", zap.Error(err))
		return err
	}

	return nil
}

// endpoint is one worker's Channel onto the shared hub.
type endpoint struct {
	hub    *hub
	worker WorkerContext
	logger *zap.Logger
}

var _ Channel = (*endpoint)(nil)

func (e *endpoint) Worker() WorkerContext { return e.worker }

func (e *endpoint) Barrier(ctx context.Context) error {
	_, err := e.hub.exchange(ctx, e.worker.Index, nil, func(slots []any) ([]any, error) {
		return make([]any, len(slots)), nil
	})

	return err
}

func (e *endpoint) BroadcastInts(ctx context.Context, vals []int) ([]int, error) {
	out, err := e.hub.exchange(ctx, e.worker.Index, vals, func(slots []any) ([]any, error) {
		src, _ := slots[Root].([]int)
		res := make([]any, len(slots))
		for r := range res {
			res[r] = append([]int(nil), src...)
		}
		return res, nil
	})
	if err != nil {
		return nil, fmt.Errorf("BroadcastInts: %w", err)
	}
	e.logger.Debug("broadcast", zap.Ints("values", out.([]int)))

	return out.([]int), nil
}

func (e *endpoint) ScatterReal(ctx context.Context, full *tensor.Real) (*tensor.Real, error) {
	return scatter(ctx, e, full)
}

func (e *endpoint) ScatterComplex(ctx context.Context, full *tensor.Complex) (*tensor.Complex, error) {
	return scatter(ctx, e, full)
}

func (e *endpoint) ReduceReal(ctx context.Context, partial *tensor.Real, to Target) (*tensor.Real, error) {
	return reduce(ctx, e, partial, to)
}

func (e *endpoint) ReduceComplex(ctx context.Context, partial *tensor.Complex, to Target) (*tensor.Complex, error) {
	return reduce(ctx, e, partial, to)
}

// scatter hands worker r the axis-0 slab [off[r], off[r+1]) of the
// coordinator's tensor, with off = partition.Offsets(n, size).
func scatter[T tensor.Scalar](ctx context.Context, e *endpoint, full *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	var contribution any
	if e.worker.IsCoordinator() {
		contribution = full
	}
	out, err := e.hub.exchange(ctx, e.worker.Index, contribution, func(slots []any) ([]any, error) {
		src, _ := slots[Root].(*tensor.Tensor[T])
		if src == nil || src.Rank() == 0 {
			return nil, fmt.Errorf("scatter source missing on coordinator: %w", ErrShapeMismatch)
		}
		size := len(slots)
		off := partition.Offsets(src.Dim(0), size)
		res := make([]any, size)
		for r := 0; r < size; r++ {
			slab, err := src.Rows(off[r], off[r+1])
			if err != nil {
				return nil, err
			}
			res[r] = slab
		}
		return res, nil
	})
	if err != nil {
		return nil, fmt.Errorf("Scatter: %w", err)
	}
	slab := out.(*tensor.Tensor[T])
	e.logger.Debug("scatter", zap.Ints("slab", slab.Shape()))

	return slab, nil
}

// reduce sums partials in worker-index order.
func reduce[T tensor.Scalar](ctx context.Context, e *endpoint, partial *tensor.Tensor[T], to Target) (*tensor.Tensor[T], error) {
	out, err := e.hub.exchange(ctx, e.worker.Index, partial, func(slots []any) ([]any, error) {
		parts := make([]*tensor.Tensor[T], len(slots))
		for r, s := range slots {
			p, _ := s.(*tensor.Tensor[T])
			if p == nil {
				return nil, fmt.Errorf("worker %d sent no partial: %w", r, ErrShapeMismatch)
			}
			if r > 0 && !p.SameShape(parts[0]) {
				return nil, fmt.Errorf("worker %d partial %v vs %v: %w", r, p.Shape(), parts[0].Shape(), ErrShapeMismatch)
			}
			parts[r] = p
		}
		sum := parts[0].Clone()
		for _, p := range parts[1:] {
			if err := sum.AddInPlace(p); err != nil {
				return nil, err
			}
		}
		res := make([]any, len(slots))
		res[Root] = sum
		if to == ToAll {
			for r := range res {
				if r != Root {
					res[r] = sum.Clone()
				}
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, fmt.Errorf("Reduce(%s): %w", to, err)
	}
	e.logger.Debug("reduce", zap.Stringer("target", to))
	if out == nil {
		return nil, nil
	}

	return out.(*tensor.Tensor[T]), nil
}
