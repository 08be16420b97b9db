// Package main provides the CLI entry point for urlaubsplan.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PeterStieg/esc-odoo-absence-reasons/internal/config"
	"github.com/PeterStieg/esc-odoo-absence-reasons/internal/logging"
)

var (
	configPath string
	logLevel   string
	cfg        = config.Default()
	logger     = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "urlaubsplan",
		Short: "Consolidate absence rosters into absence blocks",
		Long: `urlaubsplan reads an absence roster workbook (one sheet per month, dates as
columns, employees as rows) and writes one row per contiguous absence block
per employee and absence type.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./urlaubsplan.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(transformCmd(), mergeCmd(), serveCmd())
	return rootCmd
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err = logging.New(level, cfg.Log.File)
	return err
}
