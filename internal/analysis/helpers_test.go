package analysis

import (
	"fmt"
	"time"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

var baseDay = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) // a Monday

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func fixedClock(t time.Time) Option { return WithClock(func() time.Time { return t }) }

// day returns a record n days after baseDay with the given levels
func day(n, mood, anxiety, anhedonia int) models.SymptomRecord {
	return models.SymptomRecord{
		ID:        fmt.Sprintf("rec-%03d", n),
		Timestamp: baseDay.AddDate(0, 0, n),
		Mood:      intPtr(mood),
		Anxiety:   intPtr(anxiety),
		Anhedonia: intPtr(anhedonia),
	}
}

func withMedication(r models.SymptomRecord, name string) models.SymptomRecord {
	r.Medications = append(r.Medications, models.MedicationEvent{Name: name, Taken: true})
	return r
}

func withSubstance(r models.SymptomRecord, name string) models.SymptomRecord {
	r.Substances = append(r.Substances, models.SubstanceEvent{Name: name, Amount: 1, Unit: "drink"})
	return r
}

// medicationHistory builds `before` days at beforeMood followed by `after`
// days at afterMood with name taken. Anxiety is 2 and anhedonia 0 throughout.
func medicationHistory(name string, before, after, beforeMood, afterMood int) []models.SymptomRecord {
	records := make([]models.SymptomRecord, 0, before+after)
	for i := 0; i < before; i++ {
		records = append(records, day(i, beforeMood, 2, 0))
	}
	for i := before; i < before+after; i++ {
		records = append(records, withMedication(day(i, afterMood, 2, 0), name))
	}
	return records
}
