package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/JonnyWalker81/neuralpath/backend/internal/analysis"
	"github.com/JonnyWalker81/neuralpath/backend/internal/logger"
	"github.com/JonnyWalker81/neuralpath/backend/internal/metrics"
	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
	"github.com/JonnyWalker81/neuralpath/backend/internal/repository"
)

// maxParallelMedications bounds the batch fan-out
const maxParallelMedications = 4

// ErrInsufficientData is matched by *InsufficientDataError
var ErrInsufficientData = errors.New("insufficient data")

// InsufficientDataError carries how many records an analysis saw and needs
type InsufficientDataError struct {
	Available int
	Required  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d records, need %d", e.Available, e.Required)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

type analysisService struct {
	repo     repository.RecordRepository
	analyzer *analysis.Analyzer
	metrics  *metrics.Recorder
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(repo repository.RecordRepository, analyzer *analysis.Analyzer, rec *metrics.Recorder) AnalysisService {
	return &analysisService{
		repo:     repo,
		analyzer: analyzer,
		metrics:  rec,
	}
}

// run loads the window and times compute. compute reports whether it had
// enough data.
func (s *analysisService) run(ctx context.Context, userID, kind string, window Window, compute func(records []models.SymptomRecord) bool) error {
	ctx = logger.WithOperation(ctx, "analysis."+kind)
	log := logger.FromContext(ctx).With(logger.String("operation", logger.OperationFromContext(ctx)))

	records, err := s.repo.GetByUserIDAndDateRange(ctx, userID, window.Start, window.End)
	if err != nil {
		s.metrics.ObserveAnalysis(kind, metrics.OutcomeError, 0, 0)
		log.Error("failed to load records", logger.Err(err))
		return fmt.Errorf("failed to load records: %w", err)
	}

	start := time.Now()
	enough := compute(records)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeOK
	if !enough {
		outcome = metrics.OutcomeInsufficient
	}
	s.metrics.ObserveAnalysis(kind, outcome, len(records), elapsed)

	log.Debug("analysis completed",
		logger.Int("records", len(records)),
		logger.String("outcome", outcome),
		logger.Duration("elapsed", elapsed),
	)
	return nil
}

func (s *analysisService) Summary(ctx context.Context, userID string, window Window) (*models.Summary, error) {
	var summary *models.Summary
	err := s.run(ctx, userID, "summary", window, func(records []models.SymptomRecord) bool {
		summary = &models.Summary{
			Average:           analysis.Average(records),
			StandardDeviation: analysis.StandardDeviation(records),
			OverallScore:      analysis.OverallScore(records),
			RecordCount:       len(records),
			Medications:       analysis.MedicationNames(records),
			Substances:        analysis.SubstanceNames(records),
			From:              window.Start,
			To:                window.End,
		}
		return len(records) > 0
	})
	return summary, err
}

func (s *analysisService) Trend(ctx context.Context, userID string, window Window) (*models.TrendResult, error) {
	var trend models.TrendResult
	err := s.run(ctx, userID, "trend", window, func(records []models.SymptomRecord) bool {
		trend = s.analyzer.ComputeTrend(records)
		return len(records) >= s.analyzer.Thresholds().MinTrendRecords
	})
	if err != nil {
		return nil, err
	}
	return &trend, nil
}

func (s *analysisService) Medication(ctx context.Context, userID, name string, window Window) (*models.MedicationEffectiveness, error) {
	var result models.MedicationEffectiveness
	err := s.run(ctx, userID, "medication", window, func(records []models.SymptomRecord) bool {
		result = s.analyzer.AnalyzeMedication(name, records)
		return result.Sufficient
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *analysisService) Medications(ctx context.Context, userID string, names []string, window Window) ([]models.MedicationEffectiveness, error) {
	var results []models.MedicationEffectiveness
	err := s.run(ctx, userID, "medications", window, func(records []models.SymptomRecord) bool {
		if len(names) == 0 {
			names = analysis.MedicationNames(records)
		}
		// records is shared read-only; the analyzer sorts its own copy
		mapper := iter.Mapper[string, models.MedicationEffectiveness]{MaxGoroutines: maxParallelMedications}
		results = mapper.Map(names, func(name *string) models.MedicationEffectiveness {
			return s.analyzer.AnalyzeMedication(*name, records)
		})
		for _, r := range results {
			if r.Sufficient {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.MedicationEffectiveness{}
	}
	return results, nil
}

func (s *analysisService) Substance(ctx context.Context, userID, name string, window Window) (*models.SubstanceImpact, error) {
	var result models.SubstanceImpact
	err := s.run(ctx, userID, "substance", window, func(records []models.SymptomRecord) bool {
		result = s.analyzer.AnalyzeSubstance(name, records)
		return result.DaysWith > 0
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *analysisService) Factors(ctx context.Context, userID string, window Window) (*models.ComprehensiveAnalysis, error) {
	var (
		result *models.ComprehensiveAnalysis
		count  int
	)
	err := s.run(ctx, userID, "factors", window, func(records []models.SymptomRecord) bool {
		count = len(records)
		result = s.analyzer.AnalyzeAllFactors(records)
		return result != nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, &InsufficientDataError{Available: count, Required: s.analyzer.Thresholds().MinFactorRecords}
	}
	return result, nil
}

func (s *analysisService) Streaks(ctx context.Context, userID string, window Window) ([]models.AdherenceStreaks, error) {
	var streaks []models.AdherenceStreaks
	err := s.run(ctx, userID, "streaks", window, func(records []models.SymptomRecord) bool {
		streaks = s.analyzer.AdherenceStreaks(records)
		return len(streaks) > 0
	})
	if err != nil {
		return nil, err
	}
	if streaks == nil {
		streaks = []models.AdherenceStreaks{}
	}
	return streaks, nil
}

func (s *analysisService) Weekdays(ctx context.Context, userID string, window Window) (*models.WeekdayPattern, error) {
	var (
		pattern *models.WeekdayPattern
		count   int
	)
	err := s.run(ctx, userID, "weekdays", window, func(records []models.SymptomRecord) bool {
		count = len(records)
		pattern = s.analyzer.WeekdayPattern(records)
		return pattern != nil
	})
	if err != nil {
		return nil, err
	}
	if pattern == nil {
		return nil, &InsufficientDataError{Available: count, Required: s.analyzer.Thresholds().MinPatternRecords}
	}
	return pattern, nil
}
