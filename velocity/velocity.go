// SPDX-License-Identifier: MIT

package velocity

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"time"

	"go.uber.org/zap"

	"github.com/kylincaster/PAOFLOW/collective"
	"github.com/kylincaster/PAOFLOW/matrix"
	"github.com/kylincaster/PAOFLOW/partition"
	"github.com/kylincaster/PAOFLOW/tensor"
)

// Input is the read-only data every worker passes to Compute.
//   - DH has shape [3, nawf, nawf, nR, nspin].
//   - R has nR lattice vectors, indexed like DH's fourth axis.
//   - Points has P k-points; outputs are indexed parallel to it.
//   - V has shape [P, nawf, nawf, nspin], columns are eigenvectors. Only the
//     coordinator reads it; other workers may leave it nil.
type Input struct {
	DH     *tensor.Complex
	R      [][3]float64
	Points [][3]float64
	V      *tensor.Complex
}

// Dims is the extent summary shared by the engines.
type Dims struct {
	Points, Orbitals, Lattice, Spins int
}

// Validate checks the extents of in. withV also requires V to match.
func Validate(in Input, withV bool) (Dims, error) {
	var d Dims
	if in.DH == nil || in.DH.Rank() != 5 || in.DH.Dim(0) != 3 {
		return d, fmt.Errorf("dH must have shape [3,nawf,nawf,nR,nspin]: %w", ErrShapeMismatch)
	}
	d = Dims{
		Points:   len(in.Points),
		Orbitals: in.DH.Dim(1),
		Lattice:  in.DH.Dim(3),
		Spins:    in.DH.Dim(4),
	}
	if in.DH.Dim(2) != d.Orbitals || d.Orbitals == 0 {
		return d, fmt.Errorf("dH orbital block %dx%d: %w", in.DH.Dim(1), in.DH.Dim(2), ErrShapeMismatch)
	}
	if len(in.R) != d.Lattice {
		return d, fmt.Errorf("len(R)=%d, dH has %d lattice vectors: %w", len(in.R), d.Lattice, ErrShapeMismatch)
	}
	if !withV {
		return d, nil
	}
	want := []int{d.Points, d.Orbitals, d.Orbitals, d.Spins}
	if in.V == nil || in.V.Rank() != 4 {
		return d, fmt.Errorf("eigenvectors missing or not rank 4: %w", ErrShapeMismatch)
	}
	for a, w := range want {
		if in.V.Dim(a) != w {
			return d, fmt.Errorf("eigenvectors %v, want %v: %w", in.V.Shape(), want, ErrShapeMismatch)
		}
	}

	return d, nil
}

// Interpolate evaluates the Fourier sum for points [begin, end) and returns
// a [3, nawf, nawf, P, nspin] tensor that is zero outside that range, ready
// to be summed with the other workers' blocks.
//
// Complexity: O((end-begin)·nspin·3·nawf²·nR).
func Interpolate(dH *tensor.Complex, R, points [][3]float64, begin, end int) (*tensor.Complex, error) {
	nawf, nR, nspin := dH.Dim(1), dH.Dim(3), dH.Dim(4)
	P := len(points)
	if begin < 0 || end < begin || end > P {
		return nil, fmt.Errorf("Interpolate: range [%d,%d) of %d points: %w", begin, end, P, ErrShapeMismatch)
	}
	hk, err := tensor.NewComplex(3, nawf, nawf, P, nspin)
	if err != nil {
		return nil, fmt.Errorf("Interpolate: %w", err)
	}

	src, dst := dH.Data(), hk.Data()
	ss, ds := dH.Strides(), hk.Strides()
	phase := make([]complex128, nR)
	for ik := begin; ik < end; ik++ {
		k := points[ik]
		for r := 0; r < nR; r++ {
			phase[r] = cmplx.Exp(complex(0, 2*math.Pi*(k[0]*R[r][0]+k[1]*R[r][1]+k[2]*R[r][2])))
		}
		for l := 0; l < 3; l++ {
			for a := 0; a < nawf; a++ {
				for b := 0; b < nawf; b++ {
					base := l*ss[0] + a*ss[1] + b*ss[2]
					for s := 0; s < nspin; s++ {
						var sum complex128
						for r := 0; r < nR; r++ {
							sum += src[base+r*ss[3]+s] * phase[r]
						}
						dst[l*ds[0]+a*ds[1]+b*ds[2]+ik*ds[3]+s] = sum
					}
				}
			}
		}
	}

	return hk, nil
}

// Project applies the change of basis v(p,s)ᴴ·Hk·v(p,s) at every point,
// direction and spin, returning p_op with shape [P, 3, nawf, nawf, nspin].
func Project(hk, v *tensor.Complex) (*tensor.Complex, error) {
	nawf, P, nspin := hk.Dim(1), hk.Dim(3), hk.Dim(4)
	if v == nil || v.Dim(0) != P || v.Dim(1) != nawf || v.Dim(2) != nawf || v.Dim(3) != nspin {
		return nil, fmt.Errorf("Project: eigenvectors do not match Hk %v: %w", hk.Shape(), ErrShapeMismatch)
	}
	pop, err := tensor.NewComplex(P, 3, nawf, nawf, nspin)
	if err != nil {
		return nil, fmt.Errorf("Project: %w", err)
	}

	hs, vs, ps := hk.Strides(), v.Strides(), pop.Strides()
	vBlk, _ := matrix.NewCDense(nawf, nawf)
	hBlk, _ := matrix.NewCDense(nawf, nawf)
	vRaw, hRaw := vBlk.RawData(), hBlk.RawData()
	for ik := 0; ik < P; ik++ {
		for s := 0; s < nspin; s++ {
			for a := 0; a < nawf; a++ {
				for b := 0; b < nawf; b++ {
					vRaw[a*nawf+b] = v.Data()[ik*vs[0]+a*vs[1]+b*vs[2]+s]
				}
			}
			for l := 0; l < 3; l++ {
				for a := 0; a < nawf; a++ {
					for b := 0; b < nawf; b++ {
						hRaw[a*nawf+b] = hk.Data()[l*hs[0]+a*hs[1]+b*hs[2]+ik*hs[3]+s]
					}
				}
				band, err := matrix.Sandwich(vBlk, hBlk)
				if err != nil {
					return nil, fmt.Errorf("Project: point %d spin %d dir %d: %w", ik, s, l, err)
				}
				bRaw := band.RawData()
				for n := 0; n < nawf; n++ {
					for m := 0; m < nawf; m++ {
						pop.Data()[ik*ps[0]+l*ps[1]+n*ps[2]+m*ps[3]+s] = bRaw[n*nawf+m]
					}
				}
			}
		}
	}

	return pop, nil
}

// Compute runs the distributed velocity calculation on one worker.
//
// Implementation:
//   - Stage 1: validate extents (the coordinator also validates V); fail fast.
//   - Stage 2: interpolate this worker's partition.Range of points.
//   - Stage 3: ReduceComplex(ToRoot) assembles Hk on the coordinator.
//   - Stage 4: the coordinator projects into the band basis.
//
// Returns p_op on the coordinator and nil elsewhere.
func Compute(ctx context.Context, ch collective.Channel, in Input, opts ...Option) (*tensor.Complex, error) {
	o := gatherOptions(opts...)
	w := ch.Worker()
	d, err := Validate(in, w.IsCoordinator())
	if err != nil {
		return nil, fmt.Errorf("velocity.Compute: %w", err)
	}

	start := time.Now()
	begin, end := partition.Range(d.Points, w.Size, w.Index)
	hk, err := Interpolate(in.DH, in.R, in.Points, begin, end)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("fourier interpolation done",
		zap.Int("worker", w.Index),
		zap.Int("begin", begin),
		zap.Int("end", end),
		zap.Duration("elapsed", time.Since(start)),
	)

	full, err := ch.ReduceComplex(ctx, hk, collective.ToRoot)
	if err != nil {
		return nil, fmt.Errorf("velocity.Compute: %w", err)
	}
	if !w.IsCoordinator() {
		return nil, nil
	}

	pop, err := Project(full, in.V)
	if err != nil {
		return nil, err
	}
	o.logger.Info("momentum operator assembled",
		zap.Int("points", d.Points),
		zap.Int("bands", d.Orbitals),
		zap.Int("spins", d.Spins),
		zap.Duration("elapsed", time.Since(start)),
	)

	return pop, nil
}
