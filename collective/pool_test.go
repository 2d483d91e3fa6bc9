// SPDX-License-Identifier: MIT

package collective_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kylincaster/PAOFLOW/collective"
	"github.com/kylincaster/PAOFLOW/partition"
	"github.com/kylincaster/PAOFLOW/tensor"
)

func newPool(t *testing.T, size int) *collective.Pool {
	t.Helper()
	p, err := collective.NewPool(size, collective.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return p
}

func TestNewPoolRejectsEmpty(t *testing.T) {
	_, err := collective.NewPool(0)
	require.ErrorIs(t, err, collective.ErrInvalidPoolSize)
}

// TestWorkerContexts verifies every index runs exactly once and only index 0 coordinates.
func TestWorkerContexts(t *testing.T) {
	const size = 5
	var mu sync.Mutex
	seen := map[int]bool{}
	coordinators := 0

	err := newPool(t, size).Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		w := ch.Worker()
		mu.Lock()
		defer mu.Unlock()
		seen[w.Index] = true
		if w.IsCoordinator() {
			coordinators++
		}
		assert.Equal(t, size, w.Size)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, size)
	require.Equal(t, 1, coordinators)
}

func TestBroadcastInts(t *testing.T) {
	got := make([][]int, 3)
	err := newPool(t, 3).Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		var mine []int
		if ch.Worker().IsCoordinator() {
			mine = []int{7, 4, 2}
		}
		out, err := ch.BroadcastInts(ctx, mine)
		got[ch.Worker().Index] = out
		return err
	})
	require.NoError(t, err)
	for r := range got {
		require.Equal(t, []int{7, 4, 2}, got[r], "worker %d", r)
	}
}

// TestScatterMatchesPartition checks each worker receives exactly its partition.Range slab.
func TestScatterMatchesPartition(t *testing.T) {
	const size, n = 3, 10
	full, err := tensor.NewComplex(n, 2)
	require.NoError(t, err)
	for i := range full.Data() {
		full.Data()[i] = complex(float64(i/2), float64(i%2))
	}

	slabs := make([]*tensor.Complex, size)
	err = newPool(t, size).Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		var src *tensor.Complex
		if ch.Worker().IsCoordinator() {
			src = full
		}
		slab, err := ch.ScatterComplex(ctx, src)
		slabs[ch.Worker().Index] = slab
		return err
	})
	require.NoError(t, err)

	for r, slab := range slabs {
		b, e := partition.Range(n, size, r)
		require.Equal(t, []int{e - b, 2}, slab.Shape())
		want, _ := full.Rows(b, e)
		require.Equal(t, want.Data(), slab.Data())
	}
}

// TestAllReduceOnes: S all-ones partials of shape (3,3,F) sum to S everywhere.
func TestAllReduceOnes(t *testing.T) {
	for _, size := range []int{1, 2, 3, 7} {
		const F = 50
		results := make([]*tensor.Real, size)
		err := newPool(t, size).Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
			part, _ := tensor.NewReal(3, 3, F)
			part.Shift(1)
			out, err := ch.ReduceReal(ctx, part, collective.ToAll)
			results[ch.Worker().Index] = out
			return err
		})
		require.NoError(t, err)
		for r, out := range results {
			require.NotNil(t, out, "worker %d", r)
			for _, v := range out.Data() {
				require.Equal(t, float64(size), v)
			}
		}
		if size > 1 {
			// every worker owns an independent buffer
			results[1].Data()[0] = -1
			require.Equal(t, float64(size), results[0].Data()[0])
		}
	}
}

func TestReduceToRoot(t *testing.T) {
	results := make([]*tensor.Complex, 4)
	err := newPool(t, 4).Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		part, _ := tensor.NewComplex(2)
		part.Data()[0] = complex(float64(ch.Worker().Index), 1)
		out, err := ch.ReduceComplex(ctx, part, collective.ToRoot)
		results[ch.Worker().Index] = out
		return err
	})
	require.NoError(t, err)
	require.Equal(t, []complex128{6 + 4i, 0}, results[0].Data())
	for r := 1; r < 4; r++ {
		require.Nil(t, results[r])
	}
}

// TestReduceShapeMismatchAbortsPool: a precondition violation in one partial is fatal to all.
func TestReduceShapeMismatchAbortsPool(t *testing.T) {
	errs := make([]error, 3)
	err := newPool(t, 3).Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		n := 4
		if ch.Worker().Index == 2 {
			n = 5
		}
		part, _ := tensor.NewReal(n)
		_, err := ch.ReduceReal(ctx, part, collective.ToAll)
		errs[ch.Worker().Index] = err
		return err
	})
	require.ErrorIs(t, err, collective.ErrShapeMismatch)
	for r, e := range errs {
		require.ErrorIs(t, e, collective.ErrAborted, "worker %d", r)
	}
}

// TestWorkerErrorUnblocksOthers: a failing worker must not leave the rest stuck in a barrier.
func TestWorkerErrorUnblocksOthers(t *testing.T) {
	boom := errors.New("boom")
	err := newPool(t, 4).Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		if ch.Worker().Index == 3 {
			return boom
		}
		return ch.Barrier(ctx)
	})
	require.ErrorIs(t, err, boom)
}

// TestEarlyReturnDesynchronizes: a worker that returns nil without joining a collective is detected.
func TestEarlyReturnDesynchronizes(t *testing.T) {
	err := newPool(t, 3).Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		if ch.Worker().Index == 1 {
			return nil
		}
		return ch.Barrier(ctx)
	})
	require.ErrorIs(t, err, collective.ErrDesynchronized)
}

func TestContextCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := newPool(t, 2).Run(ctx, func(ctx context.Context, ch collective.Channel) error {
		if ch.Worker().Index == 0 {
			<-ctx.Done()
			return ctx.Err()
		}
		return ch.Barrier(ctx)
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestScatterWithoutSource: the coordinator must provide the full array.
func TestScatterWithoutSource(t *testing.T) {
	err := newPool(t, 2).Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		_, err := ch.ScatterReal(ctx, nil)
		return err
	})
	require.ErrorIs(t, err, collective.ErrShapeMismatch)
}
