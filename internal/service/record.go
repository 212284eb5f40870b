package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JonnyWalker81/neuralpath/backend/internal/logger"
	"github.com/JonnyWalker81/neuralpath/backend/internal/metrics"
	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
	"github.com/JonnyWalker81/neuralpath/backend/internal/repository"
	"github.com/JonnyWalker81/neuralpath/backend/pkg/supabase"
)

var (
	// ErrRecordNotFound is returned for missing records and records owned by
	// another user alike
	ErrRecordNotFound = errors.New("record not found")
	// ErrRecordConflict indicates the client ID is already taken
	ErrRecordConflict = errors.New("record id already exists")
)

// FieldError reports a single invalid request field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

type recordService struct {
	repo    repository.RecordRepository
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewRecordService creates a new record service
func NewRecordService(repo repository.RecordRepository, rec *metrics.Recorder) RecordService {
	return &recordService{
		repo:    repo,
		metrics: rec,
		now:     time.Now,
	}
}

func (s *recordService) CreateRecord(ctx context.Context, userID string, req *models.CreateRecordRequest) (*models.SymptomRecord, bool, error) {
	log := logger.FromContext(ctx)
	now := s.now()

	if err := checkNotFuture(req.Timestamp, now); err != nil {
		return nil, false, err
	}

	record := &models.SymptomRecord{
		UserID:          userID,
		Timestamp:       req.Timestamp,
		Mood:            req.Mood,
		Anxiety:         req.Anxiety,
		Anhedonia:       req.Anhedonia,
		SleepHours:      req.SleepHours,
		SleepQuality:    req.SleepQuality,
		ExerciseMinutes: req.ExerciseMinutes,
		DaylightMinutes: req.DaylightMinutes,
		Medications:     req.Medications,
		Substances:      req.Substances,
		Notes:           req.Notes,
	}

	if req.ID != nil {
		if err := ValidateUUIDv7(*req.ID, now); err != nil {
			return nil, false, err
		}
		record.ID = *req.ID

		// A retried create returns what the first attempt stored
		existing, err := s.repo.GetByID(ctx, userID, record.ID)
		if err == nil {
			log.Debug("record already exists, returning stored copy",
				logger.String("record_id", record.ID),
			)
			return existing, false, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, false, err
		}
	} else {
		record.ID = NewRecordID()
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return nil, false, ErrRecordConflict
		}
		return nil, false, err
	}

	s.metrics.RecordWrite("create")
	log.Info("record created",
		logger.String("record_id", created.ID),
		logger.Time("timestamp", created.Timestamp),
	)
	return created, true, nil
}

func (s *recordService) GetRecord(ctx context.Context, userID, recordID string) (*models.SymptomRecord, error) {
	record, err := s.repo.GetByID(ctx, userID, recordID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	return record, err
}

func (s *recordService) ListRecords(ctx context.Context, userID string, window Window) ([]models.SymptomRecord, error) {
	return s.repo.GetByUserIDAndDateRange(ctx, userID, window.Start, window.End)
}

func (s *recordService) UpdateRecord(ctx context.Context, userID, recordID string, req *models.UpdateRecordRequest) (*models.SymptomRecord, error) {
	if _, err := s.GetRecord(ctx, userID, recordID); err != nil {
		return nil, err
	}

	changes, err := s.updateChanges(req)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return s.GetRecord(ctx, userID, recordID)
	}

	updated, err := s.repo.Update(ctx, userID, recordID, changes)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordWrite("update")
	return updated, nil
}

func (s *recordService) DeleteRecord(ctx context.Context, userID, recordID string) error {
	if _, err := s.GetRecord(ctx, userID, recordID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, recordID); err != nil {
		return err
	}

	s.metrics.RecordWrite("delete")
	logger.FromContext(ctx).Info("record deleted", logger.String("record_id", recordID))
	return nil
}

// ===== PATCH handling =====

type intRange struct {
	field    string
	value    models.NullableInt
	min, max int
}

type floatRange struct {
	field    string
	value    models.NullableFloat
	min, max float64
}

// updateChanges converts a PATCH body into column changes. Absent fields are
// left alone; explicit nulls clear the column.
func (s *recordService) updateChanges(req *models.UpdateRecordRequest) (map[string]interface{}, error) {
	changes := make(map[string]interface{})

	if req.Timestamp.Set {
		if !req.Timestamp.Valid {
			return nil, &FieldError{Field: "timestamp", Message: "cannot be null"}
		}
		if err := checkNotFuture(req.Timestamp.Value, s.now()); err != nil {
			return nil, err
		}
		changes["timestamp"] = req.Timestamp.Value.UTC().Format(time.RFC3339Nano)
	}

	ints := []intRange{
		{"mood", req.Mood, models.MinMoodLevel, models.MaxMoodLevel},
		{"anxiety", req.Anxiety, models.MinSymptomLevel, models.MaxSymptomLevel},
		{"anhedonia", req.Anhedonia, models.MinSymptomLevel, models.MaxSymptomLevel},
		{"sleep_quality", req.SleepQuality, 1, 5},
	}
	for _, f := range ints {
		if !f.value.Set {
			continue
		}
		if f.value.Valid && (f.value.Value < f.min || f.value.Value > f.max) {
			return nil, &FieldError{Field: f.field, Message: fmt.Sprintf("must be between %d and %d", f.min, f.max)}
		}
		changes[f.field] = f.value.ToPtr()
	}

	floats := []floatRange{
		{"sleep_hours", req.SleepHours, 0, 24},
		{"exercise_minutes", req.ExerciseMinutes, 0, 1440},
		{"daylight_minutes", req.DaylightMinutes, 0, 1440},
	}
	for _, f := range floats {
		if !f.value.Set {
			continue
		}
		if f.value.Valid && (f.value.Value < f.min || f.value.Value > f.max) {
			return nil, &FieldError{Field: f.field, Message: fmt.Sprintf("must be between %g and %g", f.min, f.max)}
		}
		changes[f.field] = f.value.ToPtr()
	}

	if req.Medications != nil {
		for i, m := range req.Medications {
			if m.Name == "" {
				return nil, &FieldError{Field: fmt.Sprintf("medications[%d].name", i), Message: "is required"}
			}
		}
		changes["medications"] = req.Medications
	}
	if req.Substances != nil {
		for i, sub := range req.Substances {
			if sub.Name == "" {
				return nil, &FieldError{Field: fmt.Sprintf("substances[%d].name", i), Message: "is required"}
			}
		}
		changes["substances"] = req.Substances
	}
	if req.Notes.Set {
		changes["notes"] = req.Notes.ToPtr()
	}

	return changes, nil
}
