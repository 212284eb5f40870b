package service

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/JonnyWalker81/neuralpath/backend/internal/analysis"
	"github.com/JonnyWalker81/neuralpath/backend/internal/export"
	"github.com/JonnyWalker81/neuralpath/backend/internal/logger"
	"github.com/JonnyWalker81/neuralpath/backend/internal/metrics"
	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
	"github.com/JonnyWalker81/neuralpath/backend/internal/repository"
)

type exportService struct {
	repo     repository.RecordRepository
	analyzer *analysis.Analyzer
	metrics  *metrics.Recorder
}

// NewExportService creates a new export service
func NewExportService(repo repository.RecordRepository, analyzer *analysis.Analyzer, rec *metrics.Recorder) ExportService {
	return &exportService{
		repo:     repo,
		analyzer: analyzer,
		metrics:  rec,
	}
}

// Export writes the window's records in format. JSON and XLSX also carry the
// factor analysis and adherence streaks.
func (s *exportService) Export(ctx context.Context, userID string, format string, window Window, w io.Writer) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx).With(
		logger.String("format", string(f)),
		logger.Int("window_days", window.Days()),
	)

	records, err := s.repo.GetByUserIDAndDateRange(ctx, userID, window.Start, window.End)
	if err != nil {
		log.Error("failed to load records for export", logger.Err(err))
		return fmt.Errorf("failed to load records: %w", err)
	}

	report := export.Report{Records: records}
	if f != export.FormatCSV {
		report, err = s.buildReport(ctx, records)
		if err != nil {
			return err
		}
	}

	if err := export.Write(w, f, report); err != nil {
		log.Error("failed to write export", logger.Err(err))
		return fmt.Errorf("failed to write %s export: %w", f, err)
	}

	s.metrics.RecordExport(string(f))
	log.Info("export written", logger.Int("records", len(records)))
	return nil
}

func (s *exportService) buildReport(ctx context.Context, records []models.SymptomRecord) (export.Report, error) {
	report := export.Report{Records: records}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Analysis = s.analyzer.AnalyzeAllFactors(records)
		return ctx.Err()
	})
	g.Go(func() error {
		report.Streaks = s.analyzer.AdherenceStreaks(records)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return export.Report{}, err
	}

	if report.Analysis != nil {
		report.GeneratedAt = report.Analysis.GeneratedAt
	}
	return report, nil
}
