// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating shape/nil/symmetry checks here.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Symmetry checks run O(n²) on the upper triangle only.

package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateMulCompatible ensures a (r×n) and b (n×c) can be multiplied.
// Returns ErrNilMatrix or ErrDimensionMismatch.
func ValidateMulCompatible(ar, ac, br, bc int) error {
	if ac != br {
		return validatorErrorf("ValidateMulCompatible",
			fmt.Errorf("(%dx%d)·(%dx%d): %w", ar, ac, br, bc, ErrDimensionMismatch))
	}

	return nil
}

// ValidateSymmetric ensures m is square and |m[i,j]-m[j,i]| ≤ tol.
// Returns ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf (bad tol) or ErrAsymmetry.
// Complexity: O(n²).
func ValidateSymmetric(m *Dense, tol float64) error {
	if m == nil {
		return validatorErrorf("ValidateSymmetric", ErrNilMatrix)
	}
	if m.r != m.c {
		return validatorErrorf("ValidateSymmetric", ErrDimensionMismatch)
	}
	if isNonFinite(tol) {
		return validatorErrorf("ValidateSymmetric", ErrNaNInf)
	}
	tol = math.Abs(tol)
	n := m.r
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(m.data[i*n+j]-m.data[j*n+i]) > tol {
				return validatorErrorf("ValidateSymmetric", ErrAsymmetry)
			}
		}
	}

	return nil
}

// ValidateHermitian ensures m is square and |m[i,j]-conj(m[j,i])| ≤ tol,
// including the diagonal (imaginary part within tol).
// Returns ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf (bad tol) or ErrAsymmetry.
func ValidateHermitian(m *CDense, tol float64) error {
	if m == nil {
		return validatorErrorf("ValidateHermitian", ErrNilMatrix)
	}
	if m.r != m.c {
		return validatorErrorf("ValidateHermitian", ErrDimensionMismatch)
	}
	if isNonFinite(tol) {
		return validatorErrorf("ValidateHermitian", ErrNaNInf)
	}
	tol = math.Abs(tol)
	n := m.r
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if cmplx.Abs(m.data[i*n+j]-cmplx.Conj(m.data[j*n+i])) > tol {
				return validatorErrorf("ValidateHermitian", ErrAsymmetry)
			}
		}
	}

	return nil
}
