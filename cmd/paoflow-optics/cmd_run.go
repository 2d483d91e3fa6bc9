// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	paoflow "github.com/kylincaster/PAOFLOW"
	"github.com/kylincaster/PAOFLOW/collective"
	"github.com/kylincaster/PAOFLOW/internal/config"
	"github.com/kylincaster/PAOFLOW/report"
	"github.com/kylincaster/PAOFLOW/tensor"
)

var (
	runWorkers int
	runOutDir  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute p_op, the dielectric tensor and the Berry curvature",
	Long: `Loads the run file, solves the model on the configured k-points and
runs every enabled stage on a pool of --workers workers. Reports are written
to --out:

  epsi.dat   imaginary part, one line per frequency (energy + 9 components)
  epsr.dat   real part, same layout
  berry.dat  occupied Berry curvature per k-point ("index  value")

With output.compression set to zstd or lz4, every report gets a .zst or
.lz4 suffix.`,
	RunE: runOptics,
}

func init() {
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 0, "Pool size (overrides the run file and PAOFLOW_WORKERS)")
	runCmd.Flags().StringVarP(&runOutDir, "out", "o", "", "Report directory (overrides the run file and PAOFLOW_OUT)")
}

// loadRunConfig applies file, environment and flags, in that order.
func loadRunConfig() (*config.RunConfig, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if runWorkers > 0 {
		cfg.Workers = runWorkers
	}
	if runOutDir != "" {
		cfg.Output.Dir = runOutDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func runOptics(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	points, err := cfg.Points()
	if err != nil {
		return err
	}
	logger.Info("solving model",
		zap.String("model", m.Name),
		zap.Int("orbitals", m.Orbitals()),
		zap.Int("points", len(points)),
	)
	in, err := paoflow.InputFromModel(m, points, cfg.Fermi)
	if err != nil {
		return err
	}

	pool, err := collective.NewPool(cfg.Workers, collective.WithLogger(logger))
	if err != nil {
		return err
	}
	opts := []paoflow.Option{paoflow.WithLogger(logger)}
	if cfg.Epsilon.Skip {
		opts = append(opts, paoflow.WithoutDielectric())
	} else {
		opts = append(opts, paoflow.WithEpsilon(cfg.EpsilonOptions()...))
	}
	if cfg.Berry.Skip {
		opts = append(opts, paoflow.WithoutBerry())
	} else {
		opts = append(opts, paoflow.WithBerry(cfg.BerryOptions()...))
	}

	res, err := paoflow.Run(ctx, pool, in, opts...)
	if err != nil {
		return err
	}

	return writeReports(cfg, res)
}

func writeReports(cfg *config.RunConfig, res *paoflow.Result) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	name := func(base string) string {
		p := filepath.Join(cfg.Output.Dir, base)
		switch cfg.Output.Compression {
		case config.CompressionZstd:
			p += report.CompressedSuffix
		case config.CompressionLZ4:
			p += report.LZ4Suffix
		}
		return p
	}
	level := report.WithCompressionLevel(cfg.Output.Level)

	if d := res.Dielectric; d != nil {
		parts := []struct {
			base string
			data *tensor.Real
		}{{"epsi.dat", d.Imag}, {"epsr.dat", d.Real}}
		for _, part := range parts {
			path := name(part.base)
			if err := report.WriteFile(path, func(w io.Writer) error {
				return report.WriteDielectric(w, d.Grid, part.data)
			}, level); err != nil {
				return err
			}
			logger.Info("report written", zap.String("path", path), zap.String("run_id", res.RunID))
		}
		F := len(d.Grid)
		trace := make([]float64, F)
		for _, ii := range []int{0, 4, 8} {
			floats.Add(trace, d.Imag.Data()[ii*F:(ii+1)*F])
		}
		peak := floats.MaxIdx(trace)
		logger.Info("absorption peak",
			zap.Float64("energy_ev", d.Grid[peak]),
			zap.Float64("trace_im", trace[peak]),
		)
	}

	if b := res.Berry; b != nil {
		path := name("berry.dat")
		if err := report.WriteFile(path, func(w io.Writer) error {
			return report.WriteColumns(w, b.Aggregate)
		}, level); err != nil {
			return err
		}
		logger.Info("report written",
			zap.String("path", path),
			zap.String("run_id", res.RunID),
			zap.Float64("sum", floats.Sum(b.Aggregate)),
		)
	}

	return nil
}
