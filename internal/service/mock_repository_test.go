package service

import (
	"context"
	"sort"
	"time"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
	"github.com/JonnyWalker81/neuralpath/backend/internal/repository"
)

// mockRecordRepository is an in-memory RecordRepository for testing
type mockRecordRepository struct {
	records     map[string]*models.SymptomRecord // id -> record
	createCalls int
	createErr   error
	listErr     error
}

func newMockRecordRepository(records ...models.SymptomRecord) *mockRecordRepository {
	m := &mockRecordRepository{records: make(map[string]*models.SymptomRecord)}
	for i := range records {
		r := records[i]
		m.records[r.ID] = &r
	}
	return m
}

func (m *mockRecordRepository) Create(ctx context.Context, record *models.SymptomRecord) (*models.SymptomRecord, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	stored := *record
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.records[stored.ID] = &stored
	return &stored, nil
}

func (m *mockRecordRepository) GetByID(ctx context.Context, userID, id string) (*models.SymptomRecord, error) {
	if r, ok := m.records[id]; ok && r.UserID == userID {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockRecordRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.SymptomRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []models.SymptomRecord
	for _, r := range m.records {
		if r.UserID == userID && !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

func (m *mockRecordRepository) Update(ctx context.Context, userID, id string, changes map[string]interface{}) (*models.SymptomRecord, error) {
	r, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if v, ok := changes["mood"]; ok {
		r.Mood = v.(*int)
	}
	if v, ok := changes["notes"]; ok {
		r.Notes = v.(*string)
	}
	r.UpdatedAt = time.Now()
	return r, nil
}

func (m *mockRecordRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := m.GetByID(ctx, userID, id); err != nil {
		return err
	}
	delete(m.records, id)
	return nil
}
