// SPDX-License-Identifier: MIT

// Package partition splits an index range [0, n) into contiguous,
// near-equal blocks, one block per worker.
//
// The layout is deterministic: for a given (n, size) every worker computes
// the same table without communicating, which is what lets the collective
// layer scatter and gather axis-0 slices purely from (size, rank, n).
//
// Layout rule:
//
//	base = n / size, rem = n % size
//	worker r owns base+1 items when r < rem, base items otherwise.
//
// Example (n=10, size=3):
//
//	r=0 → [0,4)   r=1 → [4,7)   r=2 → [7,10)
//
// Complexity: Range is O(1); Offsets is O(size).
package partition
