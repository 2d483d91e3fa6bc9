// SPDX-License-Identifier: MIT

package partition

import "fmt"

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicSizeInvalid  = "partition: size must be >= 1"
	panicRankInvalid  = "partition: rank must satisfy 0 <= rank < size"
	panicCountInvalid = "partition: n must be >= 0"
)

// Range returns the half-open block [begin, end) owned by worker rank out of
// size workers for n items.
//
// Implementation:
//   - Stage 1: validate arguments (panic on programmer error).
//   - Stage 2: base = n/size, rem = n%size; the first rem workers get base+1.
//   - Stage 3: begin = rank*base + min(rank, rem).
//
// Behavior highlights:
//   - Blocks tile [0, n) exactly, in rank order, with no gaps or overlap.
//   - Block sizes differ by at most one.
//   - n < size leaves the highest ranks with empty blocks (begin == end).
//
// Complexity:
//   - Time O(1), Space O(1).
func Range(n, size, rank int) (begin, end int) {
	validate(n, size)
	if rank < 0 || rank >= size {
		panic(fmt.Sprintf("%s (rank=%d, size=%d)", panicRankInvalid, rank, size))
	}

	base, rem := n/size, n%size
	begin = rank*base + min(rank, rem)
	end = begin + base
	if rank < rem {
		end++ // lowest ranks absorb the remainder
	}

	return begin, end
}

// Offsets returns the begin index of every worker's block plus a trailing
// sentinel equal to n, so block r is [Offsets[r], Offsets[r+1]).
// Complexity: O(size).
func Offsets(n, size int) []int {
	validate(n, size)
	out := make([]int, size+1)
	for r := 0; r < size; r++ {
		out[r], _ = Range(n, size, r)
	}
	out[size] = n

	return out
}

func validate(n, size int) {
	if size < 1 {
		panic(panicSizeInvalid)
	}
	if n < 0 {
		panic(panicCountInvalid)
	}
}
