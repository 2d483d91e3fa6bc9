// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for validator tolerances and the
// Jacobi eigen solver. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the symmetry/Hermiticity tolerance of validators.
	DefaultEpsilon = 1e-9

	// DefaultEigenTolerance is the off-diagonal threshold at which Jacobi stops.
	DefaultEigenTolerance = 1e-12

	// DefaultEigenMaxRotations caps the number of Jacobi rotations.
	DefaultEigenMaxRotations = 10000
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid   = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicEigenTolInvalid  = "matrix: WithEigenTolerance: tol must be finite, positive"
	panicEigenIterInvalid = "matrix: WithEigenMaxRotations: n must be >= 1"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	eps         float64 // >= 0; DefaultEpsilon
	eigenTol    float64 // > 0; DefaultEigenTolerance
	eigenMaxRot int     // >= 1; DefaultEigenMaxRotations
}

// WithEpsilon sets the tolerance used by ValidateSymmetric/ValidateHermitian
// inside kernels that accept options.
//
// Errors:
//   - Panics with a stable message when eps is NaN, ±Inf or negative.
func WithEpsilon(eps float64) Option {
	if isNonFinite(eps) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithEigenTolerance sets the Jacobi convergence threshold on max |A[p,q]|.
func WithEigenTolerance(tol float64) Option {
	if isNonFinite(tol) || tol <= 0 {
		panic(panicEigenTolInvalid)
	}

	return func(o *Options) { o.eigenTol = tol }
}

// WithEigenMaxRotations caps the number of Jacobi rotations.
func WithEigenMaxRotations(n int) Option {
	if n < 1 {
		panic(panicEigenIterInvalid)
	}

	return func(o *Options) { o.eigenMaxRot = n }
}

// gatherOptions applies opts in order on top of defaults; later wins.
func gatherOptions(opts ...Option) Options {
	o := Options{
		eps:         DefaultEpsilon,
		eigenTol:    DefaultEigenTolerance,
		eigenMaxRot: DefaultEigenMaxRotations,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

func isNonFinite(x float64) bool { return math.IsNaN(x) || math.IsInf(x, 0) }
