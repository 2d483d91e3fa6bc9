// SPDX-License-Identifier: MIT

package partition_test

import (
	"testing"

	"github.com/kylincaster/PAOFLOW/partition"
	"github.com/stretchr/testify/require"
)

// TestRangeExample pins the documented n=10, size=3 layout.
func TestRangeExample(t *testing.T) {
	want := [][2]int{{0, 4}, {4, 7}, {7, 10}}
	for r, w := range want {
		b, e := partition.Range(10, 3, r)
		require.Equal(t, w[0], b, "begin of rank %d", r)
		require.Equal(t, w[1], e, "end of rank %d", r)
	}
}

// TestRangeTiles checks tiling, contiguity and balance over a grid of (n, size).
func TestRangeTiles(t *testing.T) {
	for n := 0; n <= 37; n++ {
		for size := 1; size <= 9; size++ {
			next := 0
			minLen, maxLen := n+1, -1
			for r := 0; r < size; r++ {
				b, e := partition.Range(n, size, r)
				require.Equal(t, next, b, "gap/overlap at n=%d size=%d rank=%d", n, size, r)
				require.LessOrEqual(t, b, e)
				next = e
				minLen = min(minLen, e-b)
				maxLen = max(maxLen, e-b)
			}
			require.Equal(t, n, next, "blocks must cover [0,n) for n=%d size=%d", n, size)
			require.LessOrEqual(t, maxLen-minLen, 1, "imbalance at n=%d size=%d", n, size)
		}
	}
}

// TestRemainderGoesToLowRanks verifies that the larger blocks come first.
func TestRemainderGoesToLowRanks(t *testing.T) {
	require.Equal(t, []int{0, 3, 6, 8, 10}, partition.Offsets(10, 4))
	require.Equal(t, []int{0, 1, 2, 2, 2, 2}, partition.Offsets(2, 5))
}

// TestOffsetsMatchRange checks that consecutive offsets bound each Range block.
func TestOffsetsMatchRange(t *testing.T) {
	for _, tc := range []struct{ n, size int }{{0, 1}, {10, 3}, {2, 5}, {7, 7}, {100, 6}} {
		off := partition.Offsets(tc.n, tc.size)
		require.Len(t, off, tc.size+1)
		for r := 0; r < tc.size; r++ {
			b, e := partition.Range(tc.n, tc.size, r)
			require.Equal(t, [2]int{b, e}, [2]int{off[r], off[r+1]}, "n=%d size=%d rank=%d", tc.n, tc.size, r)
		}
	}
	require.Panics(t, func() { partition.Offsets(3, 0) })
}

func TestRangePanicsOnProgrammerError(t *testing.T) {
	require.Panics(t, func() { partition.Range(10, 0, 0) })
	require.Panics(t, func() { partition.Range(10, 3, 3) })
	require.Panics(t, func() { partition.Range(10, 3, -1) })
	require.Panics(t, func() { partition.Range(-1, 3, 0) })
}
