package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

func doses(name string, days ...int) []models.SymptomRecord {
	records := make([]models.SymptomRecord, 0, len(days))
	for _, d := range days {
		records = append(records, withMedication(day(d, 3, 1, 1), name))
	}
	return records
}

func TestAdherenceStreaks(t *testing.T) {
	records := doses("Sertraline", 1, 2, 3, 5, 6, 7, 8, 10)
	// a second dose record on day 6 counts once
	records = append(records, withMedication(day(6, 4, 0, 0), "Sertraline"))
	records = append(records, doses("Melatonin", 1, 2)...)

	a := NewDefault(fixedClock(baseDay.AddDate(0, 0, 10).Add(5 * time.Hour)))
	streaks := a.AdherenceStreaks(records)
	require.Len(t, streaks, 2)

	melatonin := streaks[0]
	assert.Equal(t, "Melatonin", melatonin.Medication)
	assert.Nil(t, melatonin.Current, "last dose eight days ago")
	assert.Equal(t, 2, melatonin.Longest.Length)

	sertraline := streaks[1]
	assert.Equal(t, "Sertraline", sertraline.Medication)
	assert.Equal(t, 4, sertraline.Longest.Length)
	assert.True(t, sertraline.Longest.StartDate.Equal(calendarDay(baseDay.AddDate(0, 0, 5))))
	require.NotNil(t, sertraline.Longest.EndDate)
	assert.True(t, sertraline.Longest.EndDate.Equal(calendarDay(baseDay.AddDate(0, 0, 8))))

	require.NotNil(t, sertraline.Current)
	assert.True(t, sertraline.Current.IsActive)
	assert.Equal(t, 1, sertraline.Current.Length)
	assert.Equal(t, models.StreakTypeCurrent, sertraline.Current.StreakType)
}

func TestAdherenceStreaks_ActiveWindow(t *testing.T) {
	records := doses("X", 0, 1, 2)

	tests := []struct {
		name       string
		clockDay   int
		wantActive bool
	}{
		{name: "same day", clockDay: 2, wantActive: true},
		{name: "two days later", clockDay: 4, wantActive: true},
		{name: "three days later", clockDay: 5, wantActive: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewDefault(fixedClock(baseDay.AddDate(0, 0, tt.clockDay)))
			streaks := a.AdherenceStreaks(records)
			require.Len(t, streaks, 1)
			assert.Equal(t, tt.wantActive, streaks[0].Current != nil)
			assert.Equal(t, 3, streaks[0].Longest.Length)
		})
	}
}

func TestAdherenceStreaks_IgnoresSkippedDoses(t *testing.T) {
	records := doses("X", 0)
	records = append(records, day(1, 3, 1, 1))
	records[1].Medications = []models.MedicationEvent{{Name: "X", Taken: false}}
	records = append(records, doses("X", 2)...)

	a := NewDefault(fixedClock(baseDay.AddDate(0, 0, 2)))
	streaks := a.AdherenceStreaks(records)
	require.Len(t, streaks, 1)
	assert.Equal(t, 1, streaks[0].Longest.Length)
}
