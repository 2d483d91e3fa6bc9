// SPDX-License-Identifier: MIT

package berry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kylincaster/PAOFLOW/collective"
	"github.com/kylincaster/PAOFLOW/partition"
	"github.com/kylincaster/PAOFLOW/tensor"
)

// Direction indices of the momentum operator's second axis.
const (
	dirY = 1
	dirZ = 2
)

// Result holds the band-resolved curvature Ω [P, nawf] and its occupied sum
// per point.
type Result struct {
	Omega     *tensor.Real
	Aggregate []float64
}

func checkShapes(E *tensor.Real, p *tensor.Complex, spin int) (int, int, error) {
	if E == nil || p == nil || E.Rank() != 3 || p.Rank() != 5 {
		return 0, 0, fmt.Errorf("energies [P,nawf,nspin] and momenta [P,3,nawf,nawf,nspin] required: %w", ErrShapeMismatch)
	}
	nk, nawf, nspin := E.Dim(0), E.Dim(1), E.Dim(2)
	if p.Dim(0) != nk || p.Dim(1) != 3 || p.Dim(2) != nawf || p.Dim(3) != nawf || p.Dim(4) != nspin {
		return 0, 0, fmt.Errorf("p %v does not match E %v: %w", p.Shape(), E.Shape(), ErrShapeMismatch)
	}
	if spin >= nspin {
		return 0, 0, fmt.Errorf("spin %d of %d: %w", spin, nspin, ErrShapeMismatch)
	}

	return nk, nawf, nil
}

// Curvature evaluates Ω for every point of the slab (E [nk,nawf,nspin],
// p [nk,3,nawf,nawf,nspin]) and returns a [nk, nawf] tensor.
//
// Complexity: O(nk·nawf²).
func Curvature(E *tensor.Real, p *tensor.Complex, spin int, deltaB float64) (*tensor.Real, error) {
	nk, nawf, err := checkShapes(E, p, spin)
	if err != nil {
		return nil, fmt.Errorf("Curvature: %w", err)
	}
	omega, err := tensor.NewReal(nk, nawf)
	if err != nil {
		return nil, fmt.Errorf("Curvature: %w", err)
	}

	ed, es := E.Data(), E.Strides()
	pd, ps := p.Data(), p.Strides()
	out := omega.Data()
	d2 := deltaB * deltaB
	for k := 0; k < nk; k++ {
		py := func(n, m int) complex128 { return pd[k*ps[0]+dirY*ps[1]+n*ps[2]+m*ps[3]+spin] }
		pz := func(n, m int) complex128 { return pd[k*ps[0]+dirZ*ps[1]+n*ps[2]+m*ps[3]+spin] }
		for n := 0; n < nawf; n++ {
			en := ed[k*es[0]+n*es[1]+spin]
			var sum float64
			for m := 0; m < nawf; m++ {
				if m == n {
					continue
				}
				gap := ed[k*es[0]+m*es[1]+spin] - en
				sum += -2 * imag(py(n, m)*pz(m, n)-pz(n, m)*py(m, n)) / (gap*gap + d2)
			}
			out[k*nawf+n] = sum
		}
	}

	return omega, nil
}

// occupied is ½·(1 − sign(e)): 1 below the Fermi level, ½ at it, 0 above.
func occupied(e float64) float64 {
	switch {
	case e < 0:
		return 1
	case e > 0:
		return 0
	default:
		return 0.5
	}
}

// Aggregate sums Ω over the occupied bands of each point.
func Aggregate(E, omega *tensor.Real, spin int) ([]float64, error) {
	if E == nil || omega == nil || E.Rank() != 3 || omega.Rank() != 2 ||
		E.Dim(0) != omega.Dim(0) || E.Dim(1) != omega.Dim(1) || spin >= E.Dim(2) {
		return nil, fmt.Errorf("Aggregate: energies and curvature disagree: %w", ErrShapeMismatch)
	}
	nk, nawf := omega.Dim(0), omega.Dim(1)
	es := E.Strides()
	agg := make([]float64, nk)
	for k := 0; k < nk; k++ {
		for n := 0; n < nawf; n++ {
			agg[k] += occupied(E.Data()[k*es[0]+n*es[1]+spin]) * omega.Data()[k*nawf+n]
		}
	}

	return agg, nil
}

// Compute runs the distributed curvature calculation on one worker.
// E and p are read on the coordinator only; other workers pass nil.
//
// Implementation:
//   - Stage 1: the coordinator validates and broadcasts [P, nawf, nspin].
//   - Stage 2: scatter p_op and E along the point axis.
//   - Stage 3: each worker writes its rows of a zeroed [P, nawf] tensor.
//   - Stage 4: ReduceReal(ToRoot); the coordinator aggregates.
//
// Returns the Result on the coordinator and nil elsewhere.
func Compute(ctx context.Context, ch collective.Channel, E *tensor.Real, p *tensor.Complex, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	w := ch.Worker()
	start := time.Now()

	var dims []int
	if w.IsCoordinator() {
		nk, nawf, err := checkShapes(E, p, o.spin)
		if err != nil {
			return nil, fmt.Errorf("berry.Compute: %w", err)
		}
		dims = []int{nk, nawf, E.Dim(2)}
	}
	dims, err := ch.BroadcastInts(ctx, dims)
	if err != nil {
		return nil, fmt.Errorf("berry.Compute: %w", err)
	}
	nk, nawf := dims[0], dims[1]

	localP, err := ch.ScatterComplex(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("berry.Compute: %w", err)
	}
	localE, err := ch.ScatterReal(ctx, E)
	if err != nil {
		return nil, fmt.Errorf("berry.Compute: %w", err)
	}
	local, err := Curvature(localE, localP, o.spin, o.deltaB)
	if err != nil {
		return nil, err
	}

	partial, err := tensor.NewReal(nk, nawf)
	if err != nil {
		return nil, fmt.Errorf("berry.Compute: %w", err)
	}
	begin, _ := partition.Range(nk, w.Size, w.Index)
	if err = partial.SetRows(begin, local); err != nil {
		return nil, fmt.Errorf("berry.Compute: %w", err)
	}
	omega, err := ch.ReduceReal(ctx, partial, collective.ToRoot)
	if err != nil {
		return nil, fmt.Errorf("berry.Compute: %w", err)
	}
	if !w.IsCoordinator() {
		return nil, nil
	}

	agg, err := Aggregate(E, omega, o.spin)
	if err != nil {
		return nil, err
	}
	o.logger.Info("berry curvature assembled",
		zap.Int("points", nk),
		zap.Int("bands", nawf),
		zap.Int("spin", o.spin),
		zap.Float64("delta_b", o.deltaB),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{Omega: omega, Aggregate: agg}, nil
}
