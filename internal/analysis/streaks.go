package analysis

import (
	"time"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// AdherenceStreaks returns the current and longest consecutive-day streak
// for every medication with at least one taken dose
func (a *Analyzer) AdherenceStreaks(records []models.SymptomRecord) []models.AdherenceStreaks {
	names := MedicationNames(records)
	out := make([]models.AdherenceStreaks, 0, len(names))
	for _, name := range names {
		current, longest := a.streaksFor(name, records)
		out = append(out, models.AdherenceStreaks{
			Medication: name,
			Current:    current,
			Longest:    longest,
		})
	}
	return out
}

// streaksFor walks the distinct dose days in order. The current streak is
// only reported while the last dose is within StreakActiveHours of now.
func (a *Analyzer) streaksFor(name string, records []models.SymptomRecord) (*models.Streak, models.Streak) {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, r := range sortByTimestamp(records) {
		if !r.TookMedication(name) {
			continue
		}
		day := calendarDay(r.Timestamp)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}

	if len(days) == 0 {
		return nil, models.Streak{Medication: name, StreakType: models.StreakTypeLongest}
	}

	runStart, runLength := days[0], 1
	longestStart, longestEnd, longestLength := days[0], days[0], 1

	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) == 1 {
			runLength++
		} else {
			runStart, runLength = days[i], 1
		}
		if runLength > longestLength {
			longestStart, longestEnd, longestLength = runStart, days[i], runLength
		}
	}

	longest := models.Streak{
		Medication: name,
		StreakType: models.StreakTypeLongest,
		StartDate:  longestStart,
		EndDate:    &longestEnd,
		Length:     longestLength,
	}

	last := days[len(days)-1]
	if calendarDay(a.now()).Sub(last).Hours() > a.thresholds.StreakActiveHours {
		return nil, longest
	}

	return &models.Streak{
		Medication: name,
		StreakType: models.StreakTypeCurrent,
		StartDate:  runStart,
		Length:     runLength,
		IsActive:   true,
	}, longest
}
