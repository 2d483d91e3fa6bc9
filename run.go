// SPDX-License-Identifier: MIT

package paoflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kylincaster/PAOFLOW/berry"
	"github.com/kylincaster/PAOFLOW/collective"
	"github.com/kylincaster/PAOFLOW/epsilon"
	"github.com/kylincaster/PAOFLOW/model"
	"github.com/kylincaster/PAOFLOW/tensor"
	"github.com/kylincaster/PAOFLOW/velocity"
)

// ErrNilPool is returned by Run without a pool.
var ErrNilPool = errors.New("paoflow: nil pool")

// Input is everything a run needs. All fields are read-only during Run.
//   - DH [3,nawf,nawf,nR,nspin] and R (nR vectors) are read by every worker.
//   - Points (P) with one weight each.
//   - V [P,nawf,nawf,nspin] and E [P,nawf,nspin] (relative to the Fermi
//     level) are read by the coordinator only.
type Input struct {
	DH      *tensor.Complex
	R       [][3]float64
	Points  [][3]float64
	Weights []float64
	V       *tensor.Complex
	E       *tensor.Real
}

// Result is the coordinator's output. Stages skipped through options leave
// their field nil.
type Result struct {
	RunID      string
	Momentum   *tensor.Complex
	Dielectric *epsilon.Result
	Berry      *berry.Result
	Elapsed    time.Duration
}

// InputFromModel solves m at points and assembles a complete Input with
// uniform weights. fermi is subtracted from the band energies.
func InputFromModel(m *model.Model, points [][3]float64, fermi float64) (Input, error) {
	dH, R, err := m.Derivative()
	if err != nil {
		return Input{}, fmt.Errorf("InputFromModel: %w", err)
	}
	E, V, err := m.Solve(points, fermi)
	if err != nil {
		return Input{}, fmt.Errorf("InputFromModel: %w", err)
	}

	return Input{
		DH:      dH,
		R:       R,
		Points:  points,
		Weights: model.UniformWeights(len(points)),
		V:       V,
		E:       E,
	}, nil
}

// Run executes velocity → epsilon → berry on pool.
//
// Implementation:
//   - Stage 1: tag the run with a fresh id and derive a child logger.
//   - Stage 2: every worker runs the three stages in the same order; only
//     the coordinator feeds V, E and the weights and keeps the outputs.
//   - Stage 3: the first failing stage aborts the pool and is returned.
func Run(ctx context.Context, pool *collective.Pool, in Input, opts ...Option) (*Result, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	o := gatherOptions(opts...)
	res := &Result{RunID: uuid.NewString()}
	log := o.logger.With(zap.String("run_id", res.RunID))
	log.Info("run started",
		zap.Int("workers", pool.Size()),
		zap.Int("points", len(in.Points)),
		zap.Bool("dielectric", !o.skipEpsilon),
		zap.Bool("berry", !o.skipBerry),
	)
	start := time.Now()

	epsOpts := append([]epsilon.Option{epsilon.WithLogger(log)}, o.epsilonOpts...)
	berryOpts := append([]berry.Option{berry.WithLogger(log)}, o.berryOpts...)
	err := pool.Run(ctx, func(ctx context.Context, ch collective.Channel) error {
		coord := ch.Worker().IsCoordinator()
		vin := velocity.Input{DH: in.DH, R: in.R, Points: in.Points}
		if coord {
			vin.V = in.V
		}
		pop, err := velocity.Compute(ctx, ch, vin, velocity.WithLogger(log))
		if err != nil {
			return err
		}

		var (
			E *tensor.Real
			W []float64
		)
		if coord {
			E, W = in.E, in.Weights
			res.Momentum = pop
		}
		if !o.skipEpsilon {
			eps, err := epsilon.Compute(ctx, ch, epsilon.Input{E: E, P: pop, W: W}, epsOpts...)
			if err != nil {
				return err
			}
			if coord {
				res.Dielectric = eps
			}
		}
		if !o.skipBerry {
			bc, err := berry.Compute(ctx, ch, E, pop, berryOpts...)
			if err != nil {
				return err
			}
			if coord {
				res.Berry = bc
			}
		}

		return nil
	})
	res.Elapsed = time.Since(start)
	if err != nil {
		log.Error("run failed", zap.Error(err), zap.Duration("elapsed", res.Elapsed))
		return nil, fmt.Errorf("paoflow.Run: %w", err)
	}
	log.Info("run finished", zap.Duration("elapsed", res.Elapsed))

	return res, nil
}
