package service

import (
	"context"
	"io"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// RecordService defines the interface for symptom record business logic
type RecordService interface {
	// CreateRecord stores a new record. Retrying with the same client ID
	// returns the stored record with created=false.
	CreateRecord(ctx context.Context, userID string, req *models.CreateRecordRequest) (record *models.SymptomRecord, created bool, err error)
	GetRecord(ctx context.Context, userID, recordID string) (*models.SymptomRecord, error)
	ListRecords(ctx context.Context, userID string, window Window) ([]models.SymptomRecord, error)
	UpdateRecord(ctx context.Context, userID, recordID string, req *models.UpdateRecordRequest) (*models.SymptomRecord, error)
	DeleteRecord(ctx context.Context, userID, recordID string) error
}

// AnalysisService runs the analyzer over a user's record window
type AnalysisService interface {
	Summary(ctx context.Context, userID string, window Window) (*models.Summary, error)
	Trend(ctx context.Context, userID string, window Window) (*models.TrendResult, error)
	Medication(ctx context.Context, userID, name string, window Window) (*models.MedicationEffectiveness, error)
	// Medications analyzes each name; an empty list means every medication
	// taken in the window
	Medications(ctx context.Context, userID string, names []string, window Window) ([]models.MedicationEffectiveness, error)
	Substance(ctx context.Context, userID, name string, window Window) (*models.SubstanceImpact, error)
	// Factors returns *InsufficientDataError when the window is too small
	Factors(ctx context.Context, userID string, window Window) (*models.ComprehensiveAnalysis, error)
	Streaks(ctx context.Context, userID string, window Window) ([]models.AdherenceStreaks, error)
	Weekdays(ctx context.Context, userID string, window Window) (*models.WeekdayPattern, error)
}

// ExportService writes a user's records in a download format
type ExportService interface {
	Export(ctx context.Context, userID string, format string, window Window, w io.Writer) error
}
