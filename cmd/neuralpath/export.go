package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonnyWalker81/neuralpath/backend/internal/analysis"
	"github.com/JonnyWalker81/neuralpath/backend/internal/export"
	"github.com/JonnyWalker81/neuralpath/backend/internal/logger"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a JSON file of symptom records",
	Long: `Write a JSON array of records to one or more download formats in
--out-dir. JSON and XLSX exports include the factor analysis.`,
	RunE: runExport,
}

var exportOpts struct {
	input   string
	formats string
	outDir  string
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportOpts.input, "input", "i", "-", "Records file, - for stdin")
	f.StringVar(&exportOpts.formats, "formats", "csv,json,xlsx", "Comma-separated formats to write")
	f.StringVar(&exportOpts.outDir, "out-dir", ".", "Directory to write exports into")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := logger.WithOperation(cmd.Context(), "export")
	log := logger.Default().With(logger.String("operation", logger.OperationFromContext(ctx)))

	var formats []export.Format
	for _, name := range strings.Split(exportOpts.formats, ",") {
		format, err := export.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, format)
	}

	records, err := readRecords(exportOpts.input)
	if err != nil {
		return err
	}

	analyzer := analysis.New(cfg.Analysis)
	report := export.Report{
		Records:     records,
		Analysis:    analyzer.AnalyzeAllFactors(records),
		Streaks:     analyzer.AdherenceStreaks(records),
		GeneratedAt: time.Now().UTC(),
	}

	// report is only read from here on
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(exportOpts.outDir, format.Filename(report.GeneratedAt))
			out, err := openOutput(path)
			if err != nil {
				return err
			}
			if err := export.Write(out, format, report); err != nil {
				out.Close()
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			if err := out.Close(); err != nil {
				return err
			}
			log.Info("export written", logger.String("path", path), logger.Int("records", len(records)))
			return nil
		})
	}
	return g.Wait()
}
