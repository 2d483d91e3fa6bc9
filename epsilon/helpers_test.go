package epsilon_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kylincaster/PAOFLOW/collective"
	"github.com/kylincaster/PAOFLOW/epsilon"
	"github.com/kylincaster/PAOFLOW/tensor"
)

// twoBand builds P copies of a gapped two-band point: E = [-1, 1],
// p_y = σx, p_z = σy, p_x = 0, uniform weights 1/P.
func twoBand(t testing.TB, P int) epsilon.Input {
	t.Helper()
	E, err := tensor.NewReal(P, 2, 1)
	require.NoError(t, err)
	p, err := tensor.NewComplex(P, 3, 2, 2, 1)
	require.NoError(t, err)
	w := make([]float64, P)
	for k := 0; k < P; k++ {
		require.NoError(t, E.Set(-1, k, 0, 0))
		require.NoError(t, E.Set(1, k, 1, 0))
		require.NoError(t, p.Set(1, k, 1, 0, 1, 0))
		require.NoError(t, p.Set(1, k, 1, 1, 0, 0))
		require.NoError(t, p.Set(-1i, k, 2, 0, 1, 0))
		require.NoError(t, p.Set(1i, k, 2, 1, 0, 0))
		w[k] = 1 / float64(P)
	}

	return epsilon.Input{E: E, P: p, W: w}
}

// mixedBands builds P points with three bands whose energies and Hermitian
// momenta vary from point to point.
func mixedBands(t testing.TB, P int) epsilon.Input {
	t.Helper()
	E, err := tensor.NewReal(P, 3, 1)
	require.NoError(t, err)
	p, err := tensor.NewComplex(P, 3, 3, 3, 1)
	require.NoError(t, err)
	w := make([]float64, P)
	for k := 0; k < P; k++ {
		x := float64(k)
		require.NoError(t, E.Set(-1.2+0.1*x, k, 0, 0))
		require.NoError(t, E.Set(0.01*x, k, 1, 0))
		require.NoError(t, E.Set(0.8+0.3*x, k, 2, 0))
		for l := 0; l < 3; l++ {
			for n := 0; n < 3; n++ {
				d := complex(0.1*float64(l+n)+0.05*x, 0)
				require.NoError(t, p.Set(d, k, l, n, n, 0))
				for m := n + 1; m < 3; m++ {
					v := complex(0.3*float64(l+1)-0.1*float64(m), 0.2*float64(n+1)+0.02*x)
					require.NoError(t, p.Set(v, k, l, n, m, 0))
					require.NoError(t, p.Set(complex(real(v), -imag(v)), k, l, m, n, 0))
				}
			}
		}
		w[k] = 1 / float64(P)
	}

	return epsilon.Input{E: E, P: p, W: w}
}

// runCompute executes epsilon.Compute on a pool and returns every worker's result.
func runCompute(t *testing.T, size int, in epsilon.Input, opts ...epsilon.Option) []*epsilon.Result {
	t.Helper()
	pool, err := collective.NewPool(size)
	require.NoError(t, err)
	out := make([]*epsilon.Result, size)
	err = pool.Run(context.Background(), func(ctx context.Context, ch collective.Channel) error {
		var mine epsilon.Input
		if ch.Worker().IsCoordinator() {
			mine = in
		}
		res, err := epsilon.Compute(ctx, ch, mine, opts...)
		if err != nil {
			return err
		}
		out[ch.Worker().Index] = res
		return nil
	})
	require.NoError(t, err)

	return out
}

// row returns the F values of component (i, j).
func row(t testing.TB, x *tensor.Real, i, j int) []float64 {
	t.Helper()
	F := x.Dim(2)
	return x.Data()[(i*3+j)*F : (i*3+j+1)*F]
}
