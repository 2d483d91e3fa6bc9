// SPDX-License-Identifier: MIT

// Command paoflow-optics runs the velocity, dielectric and Berry-curvature
// stages on a tight-binding model described by a YAML run file.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool
	cfgPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "paoflow-optics",
	Short: "Optical response and Berry curvature from tight-binding models",
	Long: `paoflow-optics interpolates the momentum operator of a tight-binding
model on a k-point set and derives from it, on a pool of workers:

  1. the dielectric tensor (imaginary part, Kramers-Kronig real part)
  2. the yz Berry curvature, band-resolved and summed over occupied bands

Settings come from a YAML run file (--config); PAOFLOW_WORKERS and
PAOFLOW_OUT, also read from a .env file, override it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "run.yaml", "Path to the YAML run file (defaults apply when missing)")

	rootCmd.AddCommand(runCmd, configCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
