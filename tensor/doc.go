// SPDX-License-Identifier: MIT

// Package tensor provides dense, row-major N-dimensional arrays of float64
// or complex128 values.
//
// What & Why:
//
//	Every array that crosses the collective layer (eigenvalues, momentum
//	matrices, dielectric accumulators) is a Tensor. Storage is one flat
//	slice indexed by the explicit row-major formula
//	offset = Σ idx[a]·stride[a], so kernels may walk Data() directly
//	while the public At/Set surface stays bounds-checked and error-returning.
//
//	Axis 0 is the distribution axis: Rows copies a contiguous axis-0 slab
//	(the unit of scatter) and SetRows writes one back (the unit of gather).
//
// Complexity:
//
//	New: O(len) zero-init; At/Set/Offset: O(rank); Rows/SetRows: O(slab);
//	AddInPlace/Scale/Clone: O(len).
package tensor
