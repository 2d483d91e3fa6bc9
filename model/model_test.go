package model_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylincaster/PAOFLOW/model"
	"github.com/kylincaster/PAOFLOW/velocity"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		m    model.Model
	}{
		{"empty", model.Model{Name: "x"}},
		{"orbital range", model.Model{Onsite: []float64{0}, Hoppings: []model.Hopping{{R: [3]int{1, 0, 0}, To: 1}}}},
		{"self hop", model.Model{Onsite: []float64{0}, Hoppings: []model.Hopping{{Re: 1}}}},
		{"nan onsite", model.Model{Onsite: []float64{math.NaN()}}},
		{"inf hop", model.Model{Onsite: []float64{0, 0}, Hoppings: []model.Hopping{{To: 1, Im: math.Inf(1)}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.m.Validate(), model.ErrInvalidModel)
		})
	}
	require.NoError(t, model.TwoBand(1, 0.1, 0.2, 0.3).Validate())
}

func TestLatticeIncludesPartners(t *testing.T) {
	m := model.TwoBand(1, 0.1, 0.2, 0.3)
	R := m.Lattice()
	require.Equal(t, [][3]float64{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}, R)

	H, R2, err := m.RealSpace()
	require.NoError(t, err)
	require.Equal(t, R, R2)
	require.Equal(t, []int{2, 2, 7, 1}, H.Shape())
	// H(−R) = H(R)ᴴ
	for r, nr := range []int{0, 2, 1, 4, 3, 6, 5} {
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				x, _ := H.At(a, b, r, 0)
				y, _ := H.At(b, a, nr, 0)
				require.Equal(t, x, cmplx.Conj(y), "r=%d a=%d b=%d", r, a, b)
			}
		}
	}
}

func TestChainDispersion(t *testing.T) {
	m := model.Chain(0.5, -1)
	pts, err := model.Line([3]float64{0, 0, 0}, [3]float64{0.5, 0, 0}, 11)
	require.NoError(t, err)
	E, V, err := m.Solve(pts, 0.5)
	require.NoError(t, err)
	require.Equal(t, []int{11, 1, 1}, E.Shape())
	for p, k := range pts {
		got, _ := E.At(p, 0, 0)
		assert.InDelta(t, -2*math.Cos(2*math.Pi*k[0]), got, 1e-12, "point %d", p)
		v, _ := V.At(p, 0, 0, 0)
		assert.InDelta(t, 1, cmplx.Abs(v), 1e-12)
	}
}

func TestTwoBandEigenpairs(t *testing.T) {
	gap, tx, ty, tz := 2.0, 0.2, 0.3, 0.4
	m := model.TwoBand(gap, tx, ty, tz)
	pts, err := model.Mesh(3, 2, 4)
	require.NoError(t, err)
	E, V, err := m.Solve(pts, 0)
	require.NoError(t, err)

	for p, k := range pts {
		d := gap/2 + 2*tx*math.Cos(2*math.Pi*k[0])
		h01 := complex(ty, 0)*cmplx.Exp(complex(0, 2*math.Pi*k[1])) + complex(0, -tz)*cmplx.Exp(complex(0, 2*math.Pi*k[2]))
		want := math.Sqrt(d*d + real(h01)*real(h01) + imag(h01)*imag(h01))
		lo, _ := E.At(p, 0, 0)
		hi, _ := E.At(p, 1, 0)
		assert.InDelta(t, -want, lo, 1e-10, "point %d", p)
		assert.InDelta(t, want, hi, 1e-10, "point %d", p)

		hk, err := m.Hamiltonian(k)
		require.NoError(t, err)
		for b, e := range []float64{lo, hi} {
			for a := 0; a < 2; a++ {
				var hv complex128
				for c := 0; c < 2; c++ {
					h, _ := hk.At(a, c)
					v, _ := V.At(p, c, b, 0)
					hv += h * v
				}
				v, _ := V.At(p, a, b, 0)
				assert.InDelta(t, 0, cmplx.Abs(hv-complex(e, 0)*v), 1e-9)
			}
		}
	}
}

// TestDerivativeMatchesFiniteDifference: the interpolated dH is ∂H/∂k.
func TestDerivativeMatchesFiniteDifference(t *testing.T) {
	m := model.TwoBand(1.5, 0.25, 0.35, 0.45)
	dH, R, err := m.Derivative()
	require.NoError(t, err)
	k := [3]float64{0.13, 0.27, 0.61}
	hk, err := velocity.Interpolate(dH, R, [][3]float64{k}, 0, 1)
	require.NoError(t, err)

	const h = 1e-6
	for l := 0; l < 3; l++ {
		kp, km := k, k
		kp[l] += h
		km[l] -= h
		Hp, err := m.Hamiltonian(kp)
		require.NoError(t, err)
		Hm, err := m.Hamiltonian(km)
		require.NoError(t, err)
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				p, _ := Hp.At(a, b)
				q, _ := Hm.At(a, b)
				want := (p - q) / complex(2*h, 0)
				got, _ := hk.At(l, a, b, 0, 0)
				assert.InDelta(t, 0, cmplx.Abs(got-want), 1e-6, "l=%d a=%d b=%d", l, a, b)
			}
		}
	}
}

func TestKPoints(t *testing.T) {
	pts, err := model.Line([3]float64{0, 0, 0}, [3]float64{1, 0.5, 0}, 3)
	require.NoError(t, err)
	require.Equal(t, [][3]float64{{0, 0, 0}, {0.5, 0.25, 0}, {1, 0.5, 0}}, pts)

	one, err := model.Line([3]float64{0.2, 0, 0}, [3]float64{1, 1, 1}, 1)
	require.NoError(t, err)
	require.Equal(t, [][3]float64{{0.2, 0, 0}}, one)

	mesh, err := model.Mesh(2, 1, 2)
	require.NoError(t, err)
	require.Equal(t, [][3]float64{{0, 0, 0}, {0, 0, 0.5}, {0.5, 0, 0}, {0.5, 0, 0.5}}, mesh)

	_, err = model.Mesh(0, 1, 1)
	require.ErrorIs(t, err, model.ErrInvalidModel)
	_, err = model.Line([3]float64{}, [3]float64{}, 0)
	require.ErrorIs(t, err, model.ErrInvalidModel)

	require.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, model.UniformWeights(4), 0)
}

func TestByName(t *testing.T) {
	for name := range model.Presets {
		m, ok := model.ByName(name)
		require.True(t, ok)
		require.NoError(t, m.Validate(), name)
	}
	_, ok := model.ByName("graphene")
	require.False(t, ok)
}
