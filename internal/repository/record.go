package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
	"github.com/JonnyWalker81/neuralpath/backend/pkg/supabase"
)

const recordsTable = "symptom_records"

type recordRepository struct {
	client *supabase.Client
}

// NewRecordRepository creates a new symptom record repository
func NewRecordRepository(client *supabase.Client) RecordRepository {
	return &recordRepository{client: client}
}

// recordRow lists every column so PostgREST receives identical keys for
// every insert
func recordRow(record *models.SymptomRecord) map[string]interface{} {
	medications := record.Medications
	if medications == nil {
		medications = []models.MedicationEvent{}
	}
	substances := record.Substances
	if substances == nil {
		substances = []models.SubstanceEvent{}
	}

	row := map[string]interface{}{
		"user_id":          record.UserID,
		"timestamp":        record.Timestamp.UTC().Format(time.RFC3339Nano),
		"mood":             record.Mood,
		"anxiety":          record.Anxiety,
		"anhedonia":        record.Anhedonia,
		"sleep_hours":      record.SleepHours,
		"sleep_quality":    record.SleepQuality,
		"exercise_minutes": record.ExerciseMinutes,
		"daylight_minutes": record.DaylightMinutes,
		"medications":      medications,
		"substances":       substances,
		"notes":            record.Notes,
	}
	// Client-provided UUIDv7 for offline-first creates
	if record.ID != "" {
		row["id"] = record.ID
	}
	return row
}

func decodeOne(body []byte) (*models.SymptomRecord, error) {
	var records []models.SymptomRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

func ownedBy(userID, id string) supabase.Filter {
	return supabase.Filter{}.
		Add("id", "eq."+id).
		Add("user_id", "eq."+userID)
}

func (r *recordRepository) Create(ctx context.Context, record *models.SymptomRecord) (*models.SymptomRecord, error) {
	body, err := r.client.Insert(ctx, recordsTable, recordRow(record), "")
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	created, err := decodeOne(body)
	if err != nil {
		return nil, fmt.Errorf("no record returned: %w", err)
	}
	return created, nil
}

func (r *recordRepository) GetByID(ctx context.Context, userID, id string) (*models.SymptomRecord, error) {
	body, err := r.client.Query(ctx, recordsTable, ownedBy(userID, id).Add("select", "*"), "")
	if err != nil {
		if supabase.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return decodeOne(body)
}

func (r *recordRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.SymptomRecord, error) {
	filter := supabase.Filter{}.
		Add("select", "*").
		Add("user_id", "eq."+userID).
		Add("timestamp", "gte."+start.UTC().Format(time.RFC3339)).
		Add("timestamp", "lt."+end.UTC().Format(time.RFC3339)).
		Add("order", "timestamp.asc")

	body, err := r.client.Query(ctx, recordsTable, filter, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	var records []models.SymptomRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	return records, nil
}

func (r *recordRepository) Update(ctx context.Context, userID, id string, changes map[string]interface{}) (*models.SymptomRecord, error) {
	body, err := r.client.Update(ctx, recordsTable, ownedBy(userID, id), changes, "")
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	return decodeOne(body)
}

func (r *recordRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.client.Delete(ctx, recordsTable, ownedBy(userID, id), ""); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}
