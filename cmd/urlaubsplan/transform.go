package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/output"
)

func transformCmd() *cobra.Command {
	var (
		outputPath string
		asJSON     bool
		pretty     bool
	)

	cmd := &cobra.Command{
		Use:   "transform [input.xlsx|input.xls]",
		Short: "Consolidate a roster workbook into absence blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]

			opts := cfg.TransformOptions()
			opts.Progress = func(p roster.Progress) {
				logger.Info("Sheet processed",
					zap.Int("index", p.Index),
					zap.Int("total", p.Total),
					zap.String("sheet", p.Sheet),
					zap.Int("entries", p.Entries))
			}

			res, err := roster.Transform(inputPath, opts)
			if err != nil {
				return fmt.Errorf("transform failed: %w", err)
			}

			logger.Info("Consolidation finished",
				zap.String("book", res.BookName),
				zap.Int("total_days", res.Summary.TotalDays),
				zap.Int("total_blocks", res.Summary.TotalBlocks))

			if asJSON {
				data, err := output.ToJSON(res, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				return writeOutput(cmd.OutOrStdout(), outputPath, func(w io.Writer) error {
					_, err := w.Write(append(data, '\n'))
					return err
				})
			}

			if outputPath == "" {
				outputPath = filepath.Join(cfg.Output.Dir, output.Filename(time.Now()))
			}
			err = writeOutput(cmd.OutOrStdout(), outputPath, func(w io.Writer) error {
				return output.WriteCSV(w, res.Blocks, cfg.Output.CSVOptions())
			})
			if err != nil {
				return err
			}

			if outputPath != "-" {
				printSummary(cmd.OutOrStdout(), res, outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path, - for stdout (default: timestamped file in output.dir)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the result and summary as JSON instead of CSV")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

// writeOutput writes to stdout for "" or "-", otherwise to the named file.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	return f.Close()
}

func printSummary(w io.Writer, res *models.Result, outputPath string) {
	fmt.Fprintf(w, "%-24s %6s %8s  %s\n", "Sheet", "Year", "Entries", "Status")
	for _, s := range res.Summary.Sheets {
		fmt.Fprintf(w, "%-24s %6d %8d  %s\n", s.Name, s.Year, s.Entries, s.Status)
	}
	fmt.Fprintf(w, "\nSingle days:  %d\n", res.Summary.TotalDays)
	fmt.Fprintf(w, "Blocks:       %d\n", res.Summary.TotalBlocks)
	if res.Summary.TotalDays > 0 {
		fmt.Fprintf(w, "Reduction:    %.1f%%\n", res.Summary.Reduction())
	}
	fmt.Fprintf(w, "Employees:    %d\n", res.Stats.Employees)
	fmt.Fprintf(w, "Multi-day:    %d\n", res.Stats.MultiDayBlocks)
	if longest, ok := longestBlock(res.Blocks); ok {
		fmt.Fprintf(w, "Longest:      %d days (%s)\n", longest.Days(), longest)
	}
	for _, tc := range res.Stats.ByType {
		fmt.Fprintf(w, "  %-8s %d\n", tc.AbsenceType, tc.Blocks)
	}
	fmt.Fprintf(w, "\nWritten to %s\n", outputPath)
}

func longestBlock(blocks []models.AbsenceBlock) (models.AbsenceBlock, bool) {
	if len(blocks) == 0 {
		return models.AbsenceBlock{}, false
	}
	longest := blocks[0]
	for _, b := range blocks[1:] {
		if b.Days() > longest.Days() {
			longest = b
		}
	}
	return longest, true
}
