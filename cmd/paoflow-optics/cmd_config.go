// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kylincaster/PAOFLOW/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create run files",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default run file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		logger.Info("run file written", zap.String("path", path))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective run configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
}
