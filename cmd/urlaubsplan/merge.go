package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/absence"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/output"
)

func mergeCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "merge [export.csv]...",
		Short: "Re-consolidate one or more exported tables into one",
		Long: `merge reads tables previously written by transform, expands them into single
days and consolidates them again. Blocks that touch across files are joined.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var days []models.AbsenceDay
			for _, path := range args {
				blocks, err := readExport(path)
				if err != nil {
					return err
				}
				logger.Info("Export read", zap.String("file", path), zap.Int("blocks", len(blocks)))
				days = append(days, absence.Expand(blocks)...)
			}

			blocks := roster.Consolidate(days, cfg.TransformOptions())
			logger.Info("Merge finished", zap.Int("days", len(days)), zap.Int("blocks", len(blocks)))

			return writeOutput(cmd.OutOrStdout(), outputPath, func(w io.Writer) error {
				return output.WriteCSV(w, blocks, cfg.Output.CSVOptions())
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output file path, - for stdout")
	return cmd
}

func readExport(path string) ([]models.AbsenceBlock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	blocks, err := output.ReadCSV(f, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return blocks, nil
}
