package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// ErrNotFound is returned when a row does not exist or belongs to another user
var ErrNotFound = errors.New("not found")

// RecordRepository defines the interface for symptom record data access.
// Every method is scoped to a user.
type RecordRepository interface {
	Create(ctx context.Context, record *models.SymptomRecord) (*models.SymptomRecord, error)
	GetByID(ctx context.Context, userID, id string) (*models.SymptomRecord, error)
	// GetByUserIDAndDateRange returns records with start <= timestamp < end,
	// oldest first
	GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.SymptomRecord, error)
	Update(ctx context.Context, userID, id string, changes map[string]interface{}) (*models.SymptomRecord, error)
	Delete(ctx context.Context, userID, id string) error
}
