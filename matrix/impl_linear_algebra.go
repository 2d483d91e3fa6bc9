// SPDX-License-Identifier: MIT
// Package matrix: linear-algebra kernels on Dense/CDense.
//
// Purpose:
//   - CMul: plain complex product with fixed i→k→j loop order.
//   - ConjTranspose: Aᴴ materialization.
//   - Sandwich: Vᴴ·A·V from the two primitives above.
//   - Eigen / EigenSorted: Jacobi eigen-decomposition of real symmetric matrices.
//   - EigenHermitian: the same solver applied to the real 2n×2n embedding of
//     a Hermitian matrix.
//
// Notes:
//   - All kernels validate first, allocate the result once, and never mutate inputs.

package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// Operation name constants for unified error wrapping.
const (
	opCMul          = "CMul"
	opConjTranspose = "ConjTranspose"
	opSandwich      = "Sandwich"
	opEigen         = "Eigen"
	opEigenHerm     = "EigenHermitian"
)

// embeddingKeep is the minimum residual norm of a candidate complex
// eigenvector after projecting out the accepted ones. Partner columns of the
// real embedding leave ~0; genuine new directions leave ~1.
const embeddingKeep = 0.5

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// CMul returns a·b for complex matrices.
//
// Implementation:
//   - Stage 1: validate non-nil and a.Cols == b.Rows.
//   - Stage 2: row-major i→k→j accumulation, skipping zero a[i,k].
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func CMul(a, b *CDense) (*CDense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opCMul, ErrNilMatrix)
	}
	if err := ValidateMulCompatible(a.r, a.c, b.r, b.c); err != nil {
		return nil, matrixErrorf(opCMul, err)
	}
	res, err := NewCDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opCMul, err)
	}
	var av complex128
	for i := 0; i < a.r; i++ {
		rowA, rowR := i*a.c, i*b.c
		for k := 0; k < a.c; k++ {
			if av = a.data[rowA+k]; av == 0 {
				continue // skip zero for performance
			}
			rowB := k * b.c
			for j := 0; j < b.c; j++ {
				res.data[rowR+j] += av * b.data[rowB+j]
			}
		}
	}

	return res, nil
}

// ConjTranspose returns Aᴴ (c×r) with res[j,i] = conj(a[i,j]).
func ConjTranspose(a *CDense) (*CDense, error) {
	if a == nil {
		return nil, matrixErrorf(opConjTranspose, ErrNilMatrix)
	}
	res, err := NewCDense(a.c, a.r)
	if err != nil {
		return nil, matrixErrorf(opConjTranspose, err)
	}
	for i := 0; i < a.r; i++ {
		for j := 0; j < a.c; j++ {
			res.data[j*a.r+i] = cmplx.Conj(a.data[i*a.c+j])
		}
	}

	return res, nil
}

// Sandwich returns Vᴴ·A·V, the representation of operator A (n×n, orbital
// basis) in the basis spanned by the columns of V (n×m).
//
// Implementation:
//   - Stage 1: validate A square and V.Rows == A.Rows.
//   - Stage 2: T = A·V (n×m), then Vᴴ·T, both via CMul.
//
// Behavior highlights:
//   - If A is Hermitian and V unitary, the result is Hermitian up to rounding.
//
// Complexity:
//   - Time O(n²m + nm²), Space O(nm + m²).
func Sandwich(v, a *CDense) (*CDense, error) {
	if v == nil || a == nil {
		return nil, matrixErrorf(opSandwich, ErrNilMatrix)
	}
	if a.r != a.c || v.r != a.r {
		return nil, matrixErrorf(opSandwich,
			fmt.Errorf("A %dx%d, V %dx%d: %w", a.r, a.c, v.r, v.c, ErrDimensionMismatch))
	}
	t, err := CMul(a, v)
	if err != nil {
		return nil, matrixErrorf(opSandwich, err)
	}
	vh, err := ConjTranspose(v)
	if err != nil {
		return nil, matrixErrorf(opSandwich, err)
	}
	res, err := CMul(vh, t)
	if err != nil {
		return nil, matrixErrorf(opSandwich, err)
	}

	return res, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via Jacobi rotations.
//
// Implementation:
//   - Stage 1: validate symmetric square input within tol.
//   - Stage 2: repeatedly pick (p,q) with the largest |A[p,q]| in i→j order
//     and apply a Jacobi rotation, accumulating it into Q.
//
// Returns:
//   - []float64: eigenvalues (diagonal of the rotated matrix, unsorted).
//   - *Dense: Q whose columns are the matching eigenvectors.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (non-square), ErrAsymmetry (not symmetric within tol),
//     ErrMatrixEigenFailed (max off-diagonal ≥ tol after maxIter rotations).
//
// Determinism:
//   - Fixed i→j pivot search and fixed update order produce stable results.
//
// Complexity:
//   - Time O(maxIter·n²) worst case (pivot scan per rotation), Space O(n²).
func Eigen(m *Dense, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := m.r
	A := m.Clone()
	Q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		p, q             int
		maxOff, off      float64
		app, aqq, apq    float64
		aip, aiq         float64
		qip, qiq         float64
		theta, t, c, s   float64
		newIP, newIQ     float64
		converged        bool
		iter, i, j, base int
	)
	for iter = 0; iter < maxIter; iter++ {
		// J.1: pivot (p,q) maximizing |A[p,q]|
		maxOff = NormZero
		for i = 0; i < n; i++ {
			base = i * n
			for j = i + 1; j < n; j++ {
				if off = math.Abs(A.data[base+j]); off > maxOff {
					maxOff, p, q = off, i, j
				}
			}
		}
		// J.2: convergence
		if maxOff < tol {
			converged = true
			break
		}
		// J.3: rotation parameters
		app, aqq, apq = A.data[p*n+p], A.data[q*n+q], A.data[p*n+q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c
		// J.4: rotate rows/cols p and q of A
		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip, aiq = A.data[i*n+p], A.data[i*n+q]
			newIP = c*aip - s*aiq
			newIQ = s*aip + c*aiq
			A.data[i*n+p], A.data[p*n+i] = newIP, newIP
			A.data[i*n+q], A.data[q*n+i] = newIQ, newIQ
		}
		A.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		A.data[q*n+q] = s*s*app + 2*c*s*apq + c*c*aqq
		A.data[p*n+q], A.data[q*n+p] = 0, 0
		// J.5: accumulate into Q
		for i = 0; i < n; i++ {
			qip, qiq = Q.data[i*n+p], Q.data[i*n+q]
			Q.data[i*n+p] = c*qip - s*qiq
			Q.data[i*n+q] = s*qip + c*qiq
		}
	}
	if !converged {
		// the last rotation may have finished the job
		maxOff = NormZero
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				maxOff = math.Max(maxOff, math.Abs(A.data[i*n+j]))
			}
		}
		if maxOff >= tol {
			return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
		}
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = A.data[i*n+i]
	}

	return eigs, Q, nil
}

// EigenSorted runs Eigen with tolerance/iteration caps taken from opts and
// returns eigenvalues in ascending order with Q's columns permuted to match.
// Ties keep Jacobi's column order (stable sort).
func EigenSorted(m *Dense, opts ...Option) ([]float64, *Dense, error) {
	o := gatherOptions(opts...)
	eigs, Q, err := Eigen(m, o.eigenTol, o.eigenMaxRot)
	if err != nil {
		return nil, nil, err
	}
	n := len(eigs)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return eigs[order[a]] < eigs[order[b]] })

	sortedVals := make([]float64, n)
	sortedVecs, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	for col, src := range order {
		sortedVals[col] = eigs[src]
		for i := 0; i < n; i++ {
			sortedVecs.data[i*n+col] = Q.data[i*n+src]
		}
	}

	return sortedVals, sortedVecs, nil
}

// EigenHermitian diagonalizes a Hermitian matrix H = A + iB through the real
// symmetric embedding [[A, −B], [B, A]], whose spectrum is H's with every
// eigenvalue doubled.
//
// Implementation:
//   - Stage 1: validate H Hermitian within Options.Epsilon and build the
//     embedding from the upper triangle, so it is exactly symmetric.
//   - Stage 2: EigenSorted on the 2n×2n embedding.
//   - Stage 3: walk the sorted columns, map (x; y) → x + iy, Gram–Schmidt it
//     against the accepted vectors, and keep it when the residual survives.
//
// Returns ascending eigenvalues and a CDense whose columns are orthonormal
// eigenvectors. ErrMatrixEigenFailed when fewer than n directions survive.
//
// Complexity: that of Eigen on 2n plus O(n³) for the selection.
func EigenHermitian(h *CDense, opts ...Option) ([]float64, *CDense, error) {
	o := gatherOptions(opts...)
	if err := ValidateHermitian(h, o.eps); err != nil {
		return nil, nil, matrixErrorf(opEigenHerm, err)
	}
	n := h.r
	emb, err := NewDense(2*n, 2*n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenHerm, err)
	}
	w := 2 * n
	for i := 0; i < n; i++ {
		emb.data[i*w+i] = real(h.data[i*n+i])
		emb.data[(n+i)*w+n+i] = real(h.data[i*n+i])
		for j := i + 1; j < n; j++ {
			a, b := real(h.data[i*n+j]), imag(h.data[i*n+j])
			emb.data[i*w+j], emb.data[j*w+i] = a, a
			emb.data[(n+i)*w+n+j], emb.data[(n+j)*w+n+i] = a, a
			emb.data[i*w+n+j], emb.data[(n+j)*w+i] = -b, -b
			emb.data[(n+i)*w+j], emb.data[j*w+n+i] = b, b
		}
	}

	vals, Q, err := EigenSorted(emb, opts...)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenHerm, err)
	}

	eigs := make([]float64, 0, n)
	vecs := make([][]complex128, 0, n)
	u := make([]complex128, n)
	for c := 0; c < w && len(vecs) < n; c++ {
		for i := 0; i < n; i++ {
			u[i] = complex(Q.data[i*w+c], Q.data[(n+i)*w+c])
		}
		for _, a := range vecs {
			var dot complex128
			for i := range u {
				dot += cmplx.Conj(a[i]) * u[i]
			}
			for i := range u {
				u[i] -= dot * a[i]
			}
		}
		var norm float64
		for _, x := range u {
			norm += real(x)*real(x) + imag(x)*imag(x)
		}
		norm = math.Sqrt(norm)
		if norm < embeddingKeep {
			continue
		}
		keep := make([]complex128, n)
		for i, x := range u {
			keep[i] = x / complex(norm, 0)
		}
		vecs = append(vecs, keep)
		eigs = append(eigs, vals[c])
	}
	if len(vecs) < n {
		return nil, nil, matrixErrorf(opEigenHerm, ErrMatrixEigenFailed)
	}

	V, err := NewCDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigenHerm, err)
	}
	for col, a := range vecs {
		for i, x := range a {
			V.data[i*n+col] = x
		}
	}

	return eigs, V, nil
}
