// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/kylincaster/PAOFLOW/matrix"
	"github.com/kylincaster/PAOFLOW/tensor"
)

// Hopping is the amplitude Re + i·Im from orbital From in the home cell to
// orbital To in the cell at R.
type Hopping struct {
	R    [3]int  `yaml:"r"`
	From int     `yaml:"from"`
	To   int     `yaml:"to"`
	Re   float64 `yaml:"re"`
	Im   float64 `yaml:"im"`
}

// Amplitude returns the complex hopping.
func (h Hopping) Amplitude() complex128 { return complex(h.Re, h.Im) }

// Model is a spinless tight-binding model: one on-site energy per orbital
// plus a list of hoppings.
type Model struct {
	Name     string    `yaml:"name"`
	Onsite   []float64 `yaml:"onsite"`
	Hoppings []Hopping `yaml:"hoppings"`
}

// Orbitals returns nawf.
func (m *Model) Orbitals() int { return len(m.Onsite) }

// Validate checks orbital indices and finiteness.
func (m *Model) Validate() error {
	n := m.Orbitals()
	if n == 0 {
		return fmt.Errorf("%q has no orbitals: %w", m.Name, ErrInvalidModel)
	}
	for i, e := range m.Onsite {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return fmt.Errorf("%q on-site %d = %g: %w", m.Name, i, e, ErrInvalidModel)
		}
	}
	for i, h := range m.Hoppings {
		if h.From < 0 || h.From >= n || h.To < 0 || h.To >= n {
			return fmt.Errorf("%q hopping %d: orbitals %d->%d of %d: %w", m.Name, i, h.From, h.To, n, ErrInvalidModel)
		}
		if cmplx.IsNaN(h.Amplitude()) || cmplx.IsInf(h.Amplitude()) {
			return fmt.Errorf("%q hopping %d: amplitude not finite: %w", m.Name, i, ErrInvalidModel)
		}
		if h.R == [3]int{} && h.From == h.To {
			return fmt.Errorf("%q hopping %d: self-hopping at R=0, use Onsite: %w", m.Name, i, ErrInvalidModel)
		}
	}

	return nil
}

// Lattice returns the distinct lattice vectors of the model: R=0 first,
// then every hopping's R and −R in order of first appearance.
func (m *Model) Lattice() [][3]float64 {
	vecs, _ := m.lattice()
	out := make([][3]float64, len(vecs))
	for i, r := range vecs {
		out[i] = [3]float64{float64(r[0]), float64(r[1]), float64(r[2])}
	}

	return out
}

func (m *Model) lattice() ([][3]int, map[[3]int]int) {
	index := map[[3]int]int{{}: 0}
	vecs := [][3]int{{}}
	add := func(r [3]int) {
		if _, ok := index[r]; !ok {
			index[r] = len(vecs)
			vecs = append(vecs, r)
		}
	}
	for _, h := range m.Hoppings {
		add(h.R)
		add([3]int{-h.R[0], -h.R[1], -h.R[2]})
	}

	return vecs, index
}

// RealSpace returns H(R) with shape [nawf, nawf, nR, 1] over Lattice().
func (m *Model) RealSpace() (*tensor.Complex, [][3]float64, error) {
	if err := m.Validate(); err != nil {
		return nil, nil, fmt.Errorf("RealSpace: %w", err)
	}
	vecs, index := m.lattice()
	n := m.Orbitals()
	H, err := tensor.NewComplex(n, n, len(vecs), 1)
	if err != nil {
		return nil, nil, fmt.Errorf("RealSpace: %w", err)
	}
	hs, hd := H.Strides(), H.Data()
	for a, e := range m.Onsite {
		hd[a*hs[0]+a*hs[1]] += complex(e, 0)
	}
	for _, h := range m.Hoppings {
		r := index[h.R]
		nr := index[[3]int{-h.R[0], -h.R[1], -h.R[2]}]
		t := h.Amplitude()
		hd[h.From*hs[0]+h.To*hs[1]+r*hs[2]] += t
		hd[h.To*hs[0]+h.From*hs[1]+nr*hs[2]] += cmplx.Conj(t)
	}

	return H, m.Lattice(), nil
}

// Derivative returns dH with shape [3, nawf, nawf, nR, 1] and the lattice
// vectors it is indexed by: dH[l,·,·,r] = i·2π·R_l·H(R).
func (m *Model) Derivative() (*tensor.Complex, [][3]float64, error) {
	H, R, err := m.RealSpace()
	if err != nil {
		return nil, nil, fmt.Errorf("Derivative: %w", err)
	}
	n, nR := H.Dim(0), H.Dim(2)
	dH, err := tensor.NewComplex(3, n, n, nR, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("Derivative: %w", err)
	}
	ds := dH.Strides()
	src := H.Data()
	for l := 0; l < 3; l++ {
		for i, h := range src {
			// H is [n,n,nR,1] so i enumerates (a,b,r) in the same order as dH's tail
			r := i % nR
			dH.Data()[l*ds[0]+i] = complex(0, 2*math.Pi*R[r][l]) * h
		}
	}

	return dH, R, nil
}

// Hamiltonian evaluates H(k) as a Hermitian matrix. The result is explicitly
// Hermitized so rounding in the Fourier sum cannot break the symmetry.
func (m *Model) Hamiltonian(k [3]float64) (*matrix.CDense, error) {
	H, R, err := m.RealSpace()
	if err != nil {
		return nil, fmt.Errorf("Hamiltonian: %w", err)
	}

	return hamiltonianAt(H, R, k)
}

func hamiltonianAt(H *tensor.Complex, R [][3]float64, k [3]float64) (*matrix.CDense, error) {
	n, nR := H.Dim(0), H.Dim(2)
	hk, err := matrix.NewCDense(n, n)
	if err != nil {
		return nil, err
	}
	phase := make([]complex128, nR)
	for r := range phase {
		phase[r] = cmplx.Exp(complex(0, 2*math.Pi*(k[0]*R[r][0]+k[1]*R[r][1]+k[2]*R[r][2])))
	}
	raw, hd := hk.RawData(), H.Data()
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			var sum complex128
			base := (a*n + b) * nR
			for r := 0; r < nR; r++ {
				sum += hd[base+r] * phase[r]
			}
			raw[a*n+b] = sum
		}
	}
	for a := 0; a < n; a++ {
		raw[a*n+a] = complex(real(raw[a*n+a]), 0)
		for b := a + 1; b < n; b++ {
			avg := (raw[a*n+b] + cmplx.Conj(raw[b*n+a])) / 2
			raw[a*n+b], raw[b*n+a] = avg, cmplx.Conj(avg)
		}
	}

	return hk, nil
}

// Solve diagonalizes H(k) at every point and returns the band energies
// E [P, nawf, 1] (ascending per point, shifted by −fermi) and eigenvectors
// V [P, nawf, nawf, 1] whose columns are the bands.
func (m *Model) Solve(points [][3]float64, fermi float64, opts ...matrix.Option) (*tensor.Real, *tensor.Complex, error) {
	H, R, err := m.RealSpace()
	if err != nil {
		return nil, nil, fmt.Errorf("Solve: %w", err)
	}
	n, P := m.Orbitals(), len(points)
	E, err := tensor.NewReal(P, n, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("Solve: %w", err)
	}
	V, err := tensor.NewComplex(P, n, n, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("Solve: %w", err)
	}
	for p, k := range points {
		hk, err := hamiltonianAt(H, R, k)
		if err != nil {
			return nil, nil, fmt.Errorf("Solve: point %d: %w", p, err)
		}
		vals, vecs, err := matrix.EigenHermitian(hk, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("Solve: point %d: %w", p, err)
		}
		for b, e := range vals {
			E.Data()[p*n+b] = e - fermi
		}
		copy(V.Data()[p*n*n:(p+1)*n*n], vecs.RawData())
	}

	return E, V, nil
}
