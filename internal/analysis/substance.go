package analysis

import (
	"fmt"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// AnalyzeSubstance compares days the substance was logged, and the calendar
// day that follows each of them, against days without it.
//
// The day-after record is the chronological successor of a use record,
// provided it falls on a different calendar day. A use on the final record
// has no day after.
func (a *Analyzer) AnalyzeSubstance(name string, records []models.SymptomRecord) models.SubstanceImpact {
	t := a.thresholds
	sorted := sortByTimestamp(records)

	var with, without, dayAfter []models.SymptomRecord
	for i, r := range sorted {
		if !r.UsedSubstance(name) {
			without = append(without, r)
			continue
		}
		with = append(with, r)
		if i+1 < len(sorted) && !sameDay(r.Timestamp, sorted[i+1].Timestamp) {
			dayAfter = append(dayAfter, sorted[i+1])
		}
	}

	result := models.SubstanceImpact{
		Name:             name,
		WithSubstanceAvg: Average(with),
		DayAfterAvg:      Average(dayAfter),
		TypicalAvg:       Average(without),
		DaysWith:         len(with),
		DaysAfter:        len(dayAfter),
	}

	if len(with) == 0 {
		result.Interpretation = fmt.Sprintf("No %s use has been logged yet.", name)
		return result
	}

	typical := result.TypicalAvg.Composite()
	immediate := result.WithSubstanceAvg.Composite() - typical
	nextDay := result.DayAfterAvg.Composite() - typical

	raw := (t.ImmediateWeight*immediate + t.NextDayWeight*nextDay) / t.ImpactDivisor
	result.ImpactScore = clamp(raw, -1, 1)
	result.Interpretation = a.interpretSubstance(result)

	return result
}

func (a *Analyzer) interpretSubstance(s models.SubstanceImpact) string {
	t := a.thresholds
	switch {
	case s.ImpactScore > t.ImpactThreshold:
		return fmt.Sprintf("%s seems to be associated with better days.", s.Name)
	case s.ImpactScore < -t.ImpactThreshold:
		if s.DayAfterAvg.Composite() < t.NextDayWarning {
			return fmt.Sprintf("%s worsens your symptoms, and the effect carries into the next day.", s.Name)
		}
		return fmt.Sprintf("%s seems to worsen your symptoms on the days you use it.", s.Name)
	default:
		return fmt.Sprintf("%s has minimal impact on your symptoms.", s.Name)
	}
}
