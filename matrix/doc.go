// SPDX-License-Identifier: MIT

// Package matrix offers the dense linear-algebra kernels used by the
// response engines.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set, used for
//     real-symmetric Hamiltonians and their Jacobi eigen-decomposition.
//   - CDense: the complex128 counterpart, used for orbital-basis operators
//     and eigenvector blocks.
//   - Kernels: CMul, ConjTranspose and Sandwich (Vᴴ·A·V, the change of
//     basis from orbitals to bands), plus Eigen/EigenSorted (Jacobi).
//
// All kernels validate shapes up front and return package sentinels
// (ErrDimensionMismatch, ErrNilMatrix, ...) wrapped with an operation tag;
// callers match them with errors.Is. Nothing panics on user input.
//
// Matrices here are small (nawf×nawf, typically ≤ a few hundred), so the
// kernels favour deterministic fixed loop orders over blocking tricks.
package matrix
