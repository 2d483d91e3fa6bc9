// SPDX-License-Identifier: MIT

package velocity_test

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylincaster/PAOFLOW/collective"
	"github.com/kylincaster/PAOFLOW/tensor"
	"github.com/kylincaster/PAOFLOW/velocity"
)

// identityV returns identity eigenvectors for P points, nawf orbitals, nspin spins.
func identityV(t *testing.T, P, nawf, nspin int) *tensor.Complex {
	t.Helper()
	v, err := tensor.NewComplex(P, nawf, nawf, nspin)
	require.NoError(t, err)
	for p := 0; p < P; p++ {
		for a := 0; a < nawf; a++ {
			for s := 0; s < nspin; s++ {
				require.NoError(t, v.Set(1, p, a, a, s))
			}
		}
	}
	return v
}

// rotationV returns the same 2x2 unitary at every point.
func rotationV(t *testing.T, P int) *tensor.Complex {
	t.Helper()
	v, err := tensor.NewComplex(P, 2, 2, 1)
	require.NoError(t, err)
	c, s := math.Cos(0.3), math.Sin(0.3)
	for p := 0; p < P; p++ {
		require.NoError(t, v.Set(complex(c, 0), p, 0, 0, 0))
		require.NoError(t, v.Set(complex(0, s), p, 0, 1, 0))
		require.NoError(t, v.Set(complex(0, s), p, 1, 0, 0))
		require.NoError(t, v.Set(complex(c, 0), p, 1, 1, 0))
	}
	return v
}

// hermitianPairDH builds dH over R ∈ {0, +x, -x} with dH(-R) = dH(R)ᴴ, so every Hk is Hermitian.
func hermitianPairDH(t *testing.T) (*tensor.Complex, [][3]float64) {
	t.Helper()
	R := [][3]float64{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}}
	dH, err := tensor.NewComplex(3, 2, 2, 3, 1)
	require.NoError(t, err)
	for l := 0; l < 3; l++ {
		scale := complex(float64(l+1), 0)
		// on-site: Hermitian
		require.NoError(t, dH.Set(0.5*scale, l, 0, 0, 0, 0))
		require.NoError(t, dH.Set(-0.5*scale, l, 1, 1, 0, 0))
		require.NoError(t, dH.Set((0.2+0.1i)*scale, l, 0, 1, 0, 0))
		require.NoError(t, dH.Set((0.2-0.1i)*scale, l, 1, 0, 0, 0))
		// +R block A and -R block Aᴴ
		A := [2][2]complex128{{1i, 0.3}, {-0.7 + 0.2i, 0.4}}
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				require.NoError(t, dH.Set(A[a][b]*scale, l, a, b, 1, 0))
				require.NoError(t, dH.Set(cmplx.Conj(A[b][a])*scale, l, a, b, 2, 0))
			}
		}
	}
	return dH, R
}

func linePoints(P int) [][3]float64 {
	pts := make([][3]float64, P)
	for i := range pts {
		pts[i] = [3]float64{float64(i) / float64(P), 0.1 * float64(i), 0}
	}
	return pts
}

func runCompute(t *testing.T, size int, in velocity.Input) *tensor.Complex {
	t.Helper()
	pool, err := collective.NewPool(size)
	require.NoError(t, err)
	var out *tensor.Complex
	err = pool.Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		pop, err := velocity.Compute(ctx, ch, in)
		if err != nil {
			return err
		}
		if ch.Worker().IsCoordinator() {
			out = pop
		} else {
			assert.Nil(t, pop)
		}
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

// TestOriginOnlyIsPointIndependent: with R = {0}, the phase is 1 and p_op is the direct projection of dH.
func TestOriginOnlyIsPointIndependent(t *testing.T) {
	dH, err := tensor.NewComplex(3, 2, 2, 1, 1)
	require.NoError(t, err)
	for i := range dH.Data() {
		dH.Data()[i] = complex(float64(i%5)-2, float64(i%3)-1)
	}
	P := 4
	in := velocity.Input{DH: dH, R: [][3]float64{{0, 0, 0}}, Points: linePoints(P), V: identityV(t, P, 2, 1)}

	pop := runCompute(t, 3, in)
	require.Equal(t, []int{P, 3, 2, 2, 1}, pop.Shape())
	for p := 0; p < P; p++ {
		for l := 0; l < 3; l++ {
			for a := 0; a < 2; a++ {
				for b := 0; b < 2; b++ {
					want, _ := dH.At(l, a, b, 0, 0)
					got, _ := pop.At(p, l, a, b, 0)
					require.InDelta(t, 0, cmplx.Abs(got-want), 1e-14, "p=%d l=%d a=%d b=%d", p, l, a, b)
				}
			}
		}
	}
}

// TestFourierPhase pins exp(i·2π·k·R) for a single displaced lattice vector.
func TestFourierPhase(t *testing.T) {
	dH, _ := tensor.NewComplex(3, 1, 1, 1, 1)
	require.NoError(t, dH.Set(2, 0, 0, 0, 0, 0))
	R := [][3]float64{{1, 0, 0}}
	pts := [][3]float64{{0, 0, 0}, {0.25, 0, 0}, {0.5, 0.3, 0}}

	hk, err := velocity.Interpolate(dH, R, pts, 0, len(pts))
	require.NoError(t, err)
	want := []complex128{2, 2i, -2}
	for p, w := range want {
		got, _ := hk.At(0, 0, 0, p, 0)
		require.InDelta(t, 0, cmplx.Abs(got-w), 1e-14, "point %d", p)
	}

	partial, err := velocity.Interpolate(dH, R, pts, 1, 2)
	require.NoError(t, err)
	got0, _ := partial.At(0, 0, 0, 0, 0)
	require.Equal(t, complex128(0), got0, "points outside the range stay zero")
}

// TestPoolSizeInvariance: the assembled operator does not depend on the worker count.
func TestPoolSizeInvariance(t *testing.T) {
	dH, R := hermitianPairDH(t)
	P := 7
	in := velocity.Input{DH: dH, R: R, Points: linePoints(P), V: rotationV(t, P)}

	ref := runCompute(t, 1, in)
	for _, size := range []int{2, 3, 8} {
		got := runCompute(t, size, in)
		for i := range ref.Data() {
			require.InDelta(t, 0, cmplx.Abs(ref.Data()[i]-got.Data()[i]), 1e-13, "size %d element %d", size, i)
		}
	}
}

// TestHermitianPreserved: Hermitian Hk and unitary eigenvectors give Hermitian p_op.
func TestHermitianPreserved(t *testing.T) {
	dH, R := hermitianPairDH(t)
	P := 5
	pop := runCompute(t, 2, velocity.Input{DH: dH, R: R, Points: linePoints(P), V: rotationV(t, P)})
	for p := 0; p < P; p++ {
		for l := 0; l < 3; l++ {
			for n := 0; n < 2; n++ {
				for m := 0; m < 2; m++ {
					nm, _ := pop.At(p, l, n, m, 0)
					mn, _ := pop.At(p, l, m, n, 0)
					require.InDelta(t, 0, cmplx.Abs(nm-cmplx.Conj(mn)), 1e-12)
				}
			}
		}
	}
}

func TestValidateShapes(t *testing.T) {
	dH, R := hermitianPairDH(t)
	pts := linePoints(3)

	_, err := velocity.Validate(velocity.Input{DH: dH, R: R[:2], Points: pts}, false)
	require.ErrorIs(t, err, velocity.ErrShapeMismatch)

	_, err = velocity.Validate(velocity.Input{DH: dH, R: R, Points: pts, V: identityV(t, 2, 2, 1)}, true)
	require.ErrorIs(t, err, velocity.ErrShapeMismatch)

	bad, _ := tensor.NewComplex(2, 2, 2, 3, 1)
	_, err = velocity.Validate(velocity.Input{DH: bad, R: R, Points: pts}, false)
	require.ErrorIs(t, err, velocity.ErrShapeMismatch)

	d, err := velocity.Validate(velocity.Input{DH: dH, R: R, Points: pts, V: identityV(t, 3, 2, 1)}, true)
	require.NoError(t, err)
	require.Equal(t, velocity.Dims{Points: 3, Orbitals: 2, Lattice: 3, Spins: 1}, d)
}

// TestComputeFailsFastOnPool: a shape error on the coordinator aborts every worker.
func TestComputeFailsFastOnPool(t *testing.T) {
	dH, R := hermitianPairDH(t)
	in := velocity.Input{DH: dH, R: R, Points: linePoints(4), V: identityV(t, 3, 2, 1)}
	pool, err := collective.NewPool(3)
	require.NoError(t, err)
	err = pool.Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		_, err := velocity.Compute(ctx, ch, in)
		return err
	})
	require.ErrorIs(t, err, velocity.ErrShapeMismatch)
}
