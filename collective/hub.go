// SPDX-License-Identifier: MIT

package collective

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// combineFunc turns one contribution per worker into one result per worker.
// It runs on the last arriving worker while the hub lock is held.
type combineFunc func(slots []any) ([]any, error)

// hub is the rendezvous point shared by the workers of one Pool.Run.
//
// Invariants:
//   - slots/arrived describe the collective currently being assembled.
//   - gen increments exactly once per completed collective; results holds
//     that collective's per-worker outputs until the next one completes,
//     which cannot happen before every worker has read its entry.
//   - cause is set at most once; after that every exchange fails.
type hub struct {
	size int

	mu       sync.Mutex
	cond     *sync.Cond
	slots    []any
	arrived  int
	gen      uint64
	results  []any
	departed int
	cause    error
}

func newHub(size int) *hub {
	h := &hub{size: size, slots: make([]any, size)}
	h.cond = sync.NewCond(&h.mu)

	return h
}

// exchange deposits contribution for rank and blocks until the collective
// completes or the pool aborts.
func (h *hub) exchange(ctx context.Context, rank int, contribution any, combine combineFunc) (any, error) {
	if err := ctx.Err(); err != nil {
		h.abort(err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cause != nil {
		return nil, h.abortedErr()
	}
	if h.departed > 0 {
		h.abortLocked(ErrDesynchronized)
		return nil, h.abortedErr()
	}

	h.slots[rank] = contribution
	h.arrived++
	myGen := h.gen

	if h.arrived == h.size {
		results, err := combine(h.slots)
		if err != nil {
			h.abortLocked(err)
			return nil, h.abortedErr()
		}
		h.results = results
		clear(h.slots)
		h.arrived = 0
		h.gen++
		h.cond.Broadcast()

		return results[rank], nil
	}

	for h.gen == myGen && h.cause == nil {
		h.cond.Wait()
	}
	if h.gen == myGen {
		return nil, h.abortedErr()
	}

	return h.results[rank], nil
}

// depart records that a worker function returned. A worker leaving while
// others sit in a collective can never let that collective complete.
func (h *hub) depart() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.departed++
	if h.arrived > 0 {
		h.abortLocked(ErrDesynchronized)
	}
}

func (h *hub) abort(cause error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.abortLocked(cause)
}

func (h *hub) abortLocked(cause error) {
	if h.cause != nil || cause == nil {
		return
	}
	h.cause = cause
	h.cond.Broadcast()
}

// firstCause returns the error that aborted the pool, if any.
func (h *hub) firstCause() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.cause
}

func (h *hub) abortedErr() error {
	if errors.Is(h.cause, ErrAborted) {
		return h.cause
	}

	return fmt.Errorf("%w: %w", ErrAborted, h.cause)
}
