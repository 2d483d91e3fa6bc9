// SPDX-License-Identifier: MIT

package epsilon

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"time"

	"go.uber.org/zap"

	"github.com/kylincaster/PAOFLOW/collective"
	"github.com/kylincaster/PAOFLOW/partition"
	"github.com/kylincaster/PAOFLOW/tensor"
)

// Input is the coordinator's full data set. Other workers pass a zero Input.
//   - E has shape [P, nawf, nspin], relative to the Fermi level.
//   - P is the momentum operator p_op with shape [P, 3, nawf, nawf, nspin].
//   - W holds one weight per k-point.
type Input struct {
	E *tensor.Real
	P *tensor.Complex
	W []float64
}

// Result is the dielectric tensor on the frequency grid.
// Imag and Real have shape [3, 3, len(Grid)].
type Result struct {
	Grid []float64
	Imag *tensor.Real
	Real *tensor.Real
}

// checkShapes returns (points, bands, spins) when E, p and w agree.
func checkShapes(E *tensor.Real, p *tensor.Complex, w *tensor.Real) (int, int, int, error) {
	if E == nil || p == nil || w == nil {
		return 0, 0, 0, fmt.Errorf("missing energies, momenta or weights: %w", ErrShapeMismatch)
	}
	if E.Rank() != 3 || p.Rank() != 5 || w.Rank() != 1 {
		return 0, 0, 0, fmt.Errorf("ranks E=%d p=%d w=%d, want 3,5,1: %w", E.Rank(), p.Rank(), w.Rank(), ErrShapeMismatch)
	}
	nk, nawf, nspin := E.Dim(0), E.Dim(1), E.Dim(2)
	if p.Dim(0) != nk || p.Dim(1) != 3 || p.Dim(2) != nawf || p.Dim(3) != nawf || p.Dim(4) != nspin {
		return 0, 0, 0, fmt.Errorf("p %v does not match E %v: %w", p.Shape(), E.Shape(), ErrShapeMismatch)
	}
	if w.Dim(0) != nk {
		return 0, 0, 0, fmt.Errorf("%d weights for %d points: %w", w.Dim(0), nk, ErrShapeMismatch)
	}

	return nk, nawf, nspin, nil
}

// occupation is the Fermi–Dirac factor; T == 0 gives the step function
// with ½ at the Fermi level.
func occupation(e, temp float64) float64 {
	if temp == 0 {
		switch {
		case e < 0:
			return 1
		case e > 0:
			return 0
		default:
			return 0.5
		}
	}

	return 1.0 / (1.0 + math.Exp(e/temp))
}

// occupationSlope is −df/dE = ½·1/(1+cosh(E/T))/T, zero at T == 0.
func occupationSlope(e, temp float64) float64 {
	if temp == 0 {
		return 0
	}

	return 0.5 / (1.0 + math.Cosh(e/temp)) / temp
}

// ImagLocal accumulates the imaginary part over every k-point of the given
// slabs (E [nk,nawf,nspin], p [nk,3,nawf,nawf,nspin], w [nk]) for the
// configured spin channel, already multiplied by the prefactor.
//
// Complexity: O(nk·nawf²·9·F).
func ImagLocal(E *tensor.Real, p *tensor.Complex, w *tensor.Real, opts ...Option) (*tensor.Real, error) {
	o := gatherOptions(opts...)
	nk, nawf, nspin, err := checkShapes(E, p, w)
	if err != nil {
		return nil, fmt.Errorf("ImagLocal: %w", err)
	}
	if o.spin >= nspin {
		return nil, fmt.Errorf("ImagLocal: spin %d of %d: %w", o.spin, nspin, ErrShapeMismatch)
	}

	ene := o.grid.Values()
	F := len(ene)
	epsi, err := tensor.NewReal(3, 3, F)
	if err != nil {
		return nil, fmt.Errorf("ImagLocal: %w", err)
	}
	out := epsi.Data()

	delta, temp := o.delta, o.temp
	// Intraband broadening is a Gaussian centred at ω = 0, independent of
	// any interband line shape computed for the same point.
	intra := make([]float64, F)  // g(ω)/(δ·ω), ω-dependence of the intraband term
	interW := make([]float64, F) // 1/(ω²+δ²)
	for f, x := range ene {
		intra[f] = math.Exp(-(x/delta)*(x/delta)) / math.Sqrt(math.Pi) / delta / x
		interW[f] = 1.0 / (x*x + delta*delta)
	}
	gauss := make([]float64, F)

	ed, es := E.Data(), E.Strides()
	pd, ps := p.Data(), p.Strides()
	mom := func(k, l, n, m int) complex128 {
		return pd[k*ps[0]+l*ps[1]+n*ps[2]+m*ps[3]+o.spin]
	}
	for k := 0; k < nk; k++ {
		wk := w.Data()[k]
		if wk == 0 {
			continue
		}
		for n := 0; n < nawf; n++ {
			en := ed[k*es[0]+n*es[1]+o.spin]
			if slope := occupationSlope(en, temp); slope != 0 {
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						mag := cmplx.Abs(mom(k, i, n, n) * mom(k, j, n, n))
						if mag == 0 {
							continue
						}
						c := wk * slope * mag
						row := out[(i*3+j)*F : (i*3+j+1)*F]
						for f := range row {
							row[f] += c * intra[f]
						}
					}
				}
			}

			fn := occupation(en, temp)
			for m := 0; m < nawf; m++ {
				if m == n {
					continue
				}
				em := ed[k*es[0]+m*es[1]+o.spin]
				docc := fn - occupation(em, temp)
				if docc == 0 {
					continue
				}
				de := em - en
				for f, x := range ene {
					u := (x - de) / delta
					gauss[f] = math.Exp(-u*u) / math.Sqrt(math.Pi) / delta * interW[f]
				}
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						mag := cmplx.Abs(mom(k, i, n, m) * mom(k, j, m, n))
						if mag == 0 {
							continue
						}
						c := wk * docc * mag
						row := out[(i*3+j)*F : (i*3+j+1)*F]
						for f := range row {
							row[f] += c * gauss[f]
						}
					}
				}
			}
		}
	}
	epsi.Scale(o.prefactor())

	return epsi, nil
}

// KramersKronig evaluates the real part (without the vacuum baseline) at
// grid indices [begin, end) from the imaginary part imag [3,3,F]:
//
//	Re[i,j,ie] = 2/π · Σ_{k ∉ {ie-1,ie,ie+1}} ene[k]·de·Im[i,j,k] / (ene[k]² − ene[ie]²)
//
// Entries outside [begin, end) are zero.
func KramersKronig(ene []float64, imag *tensor.Real, begin, end int) (*tensor.Real, error) {
	F := len(ene)
	if imag == nil || imag.Rank() != 3 || imag.Dim(0) != 3 || imag.Dim(1) != 3 || imag.Dim(2) != F {
		return nil, fmt.Errorf("KramersKronig: imaginary part does not match %d frequencies: %w", F, ErrShapeMismatch)
	}
	if begin < 0 || end < begin || end > F {
		return nil, fmt.Errorf("KramersKronig: range [%d,%d) of %d: %w", begin, end, F, ErrShapeMismatch)
	}
	epsr, err := tensor.NewReal(3, 3, F)
	if err != nil {
		return nil, fmt.Errorf("KramersKronig: %w", err)
	}
	if F < 2 {
		return epsr, nil
	}

	de := ene[1] - ene[0]
	in, out := imag.Data(), epsr.Data()
	for ie := begin; ie < end; ie++ {
		e2 := ene[ie] * ene[ie]
		for ij := 0; ij < 9; ij++ {
			row := in[ij*F : (ij+1)*F]
			var sum float64
			for k := 0; k < F; k++ {
				if k >= ie-1 && k <= ie+1 {
					continue
				}
				sum += ene[k] * de * row[k] / (ene[k]*ene[k] - e2)
			}
			out[ij*F+ie] = 2.0 / math.Pi * sum
		}
	}

	return epsr, nil
}

// Compute runs the distributed dielectric calculation on one worker.
//
// Implementation:
//   - Stage 1: the coordinator validates its Input and broadcasts [P,nawf,nspin].
//   - Stage 2: scatter p_op, E and the weights along the point axis.
//   - Stage 3: ImagLocal on the slab, ReduceReal(ToAll).
//   - Stage 4: KramersKronig on this worker's frequency range,
//     ReduceReal(ToAll), add 1.
//
// Every worker returns the same Result.
func Compute(ctx context.Context, ch collective.Channel, in Input, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	w := ch.Worker()
	start := time.Now()

	var (
		dims         []int
		fullE, fullW *tensor.Real
		fullP        *tensor.Complex
		err          error
	)
	if w.IsCoordinator() {
		fullE, fullP = in.E, in.P
		if fullW, err = tensor.FromSlice(in.W, len(in.W)); err != nil {
			return nil, fmt.Errorf("epsilon.Compute: %w", err)
		}
		nk, nawf, nspin, err := checkShapes(fullE, fullP, fullW)
		if err != nil {
			return nil, fmt.Errorf("epsilon.Compute: %w", err)
		}
		dims = []int{nk, nawf, nspin}
	}
	if dims, err = ch.BroadcastInts(ctx, dims); err != nil {
		return nil, fmt.Errorf("epsilon.Compute: %w", err)
	}
	if o.spin >= dims[2] {
		return nil, fmt.Errorf("epsilon.Compute: spin %d of %d: %w", o.spin, dims[2], ErrShapeMismatch)
	}

	p, err := ch.ScatterComplex(ctx, fullP)
	if err != nil {
		return nil, fmt.Errorf("epsilon.Compute: %w", err)
	}
	E, err := ch.ScatterReal(ctx, fullE)
	if err != nil {
		return nil, fmt.Errorf("epsilon.Compute: %w", err)
	}
	wk, err := ch.ScatterReal(ctx, fullW)
	if err != nil {
		return nil, fmt.Errorf("epsilon.Compute: %w", err)
	}

	local, err := ImagLocal(E, p, wk, opts...)
	if err != nil {
		return nil, err
	}
	imag, err := ch.ReduceReal(ctx, local, collective.ToAll)
	if err != nil {
		return nil, fmt.Errorf("epsilon.Compute: %w", err)
	}
	o.logger.Debug("imaginary part reduced",
		zap.Int("worker", w.Index),
		zap.Int("points", E.Dim(0)),
		zap.Duration("elapsed", time.Since(start)),
	)

	ene := o.grid.Values()
	begin, end := partition.Range(len(ene), w.Size, w.Index)
	partial, err := KramersKronig(ene, imag, begin, end)
	if err != nil {
		return nil, err
	}
	re, err := ch.ReduceReal(ctx, partial, collective.ToAll)
	if err != nil {
		return nil, fmt.Errorf("epsilon.Compute: %w", err)
	}
	re.Shift(1)

	if w.IsCoordinator() {
		o.logger.Info("dielectric tensor assembled",
			zap.Int("points", dims[0]),
			zap.Int("bands", dims[1]),
			zap.Int("frequencies", len(ene)),
			zap.Int("spin", o.spin),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	return &Result{Grid: ene, Imag: imag, Real: re}, nil
}
