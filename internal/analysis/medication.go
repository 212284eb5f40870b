package analysis

import (
	"fmt"
	"math"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// AnalyzeMedication compares wellbeing before the first taken dose of name
// with wellbeing on days the medication was taken afterwards.
//
// The start date is the earliest taken dose. A medication that was never
// taken starts "now", which leaves every record in the before group and the
// after group empty.
func (a *Analyzer) AnalyzeMedication(name string, records []models.SymptomRecord) models.MedicationEffectiveness {
	t := a.thresholds
	sorted := sortByTimestamp(records)

	result := models.MedicationEffectiveness{Name: name}

	start := a.now()
	for _, r := range sorted {
		if r.TookMedication(name) {
			start = r.Timestamp
			s := start
			result.StartDate = &s
			break
		}
	}

	var before, after []models.SymptomRecord
	for _, r := range sorted {
		switch {
		case r.Timestamp.Before(start):
			before = append(before, r)
		case r.TookMedication(name):
			after = append(after, r)
		}
	}

	if len(before) < t.MinGroupRecords || len(after) < t.MinGroupRecords {
		result.Interpretation = a.interpretMedication(result)
		return result
	}

	result.Sufficient = true
	result.DaysAnalyzed = len(after)
	result.BeforeAvg = Average(before)
	result.AfterAvg = Average(after)

	baseline := result.BeforeAvg.Composite()
	if baseline == 0 {
		result.BaselineUndefined = true
	} else {
		result.PercentChange = (result.AfterAvg.Composite() - baseline) / math.Abs(baseline) * 100
	}

	result.Correlation = adherenceCorrelation(name, sorted)

	sampleConfidence := math.Min(1, float64(len(after))/t.SampleSizeDays)
	consistency := math.Max(0, 1-StandardDeviation(after)/2)
	result.Confidence = (sampleConfidence + consistency) / 2

	result.IsEffective = !result.BaselineUndefined &&
		a.isEffective(result.PercentChange, result.Correlation, result.Confidence)
	result.Interpretation = a.interpretMedication(result)

	return result
}

// adherenceCorrelation correlates daily adherence (1 taken, 0 not) with the
// composite score across the whole history. Within the after group adherence
// is always 1, so the before days supply the contrast.
func adherenceCorrelation(name string, records []models.SymptomRecord) float64 {
	adherence := make([]float64, len(records))
	for i, r := range records {
		if r.TookMedication(name) {
			adherence[i] = 1
		}
	}
	return PearsonCorrelation(adherence, scores(records))
}

// isEffective requires all three signals to strictly exceed their thresholds
func (a *Analyzer) isEffective(percentChange, correlation, confidence float64) bool {
	t := a.thresholds
	return percentChange > t.EffectivePercent &&
		correlation > t.EffectiveCorrelation &&
		confidence > t.EffectiveConfidence
}

type medicationRule struct {
	applies func(m models.MedicationEffectiveness, t Thresholds) bool
	text    func(m models.MedicationEffectiveness, t Thresholds) string
}

// medicationRules is evaluated top to bottom; the first match wins
var medicationRules = []medicationRule{
	{
		applies: func(m models.MedicationEffectiveness, _ Thresholds) bool { return !m.Sufficient },
		text: func(m models.MedicationEffectiveness, t Thresholds) string {
			return fmt.Sprintf("Not enough data yet. Log at least %d days before and %d days on %s to see its effect.",
				t.MinGroupRecords, t.MinGroupRecords, m.Name)
		},
	},
	{
		applies: func(m models.MedicationEffectiveness, _ Thresholds) bool { return m.BaselineUndefined },
		text: func(m models.MedicationEffectiveness, _ Thresholds) string {
			return fmt.Sprintf("Your scores before %s averaged exactly neutral, so a percent change can't be measured. Compare the before and after averages instead.",
				m.Name)
		},
	},
	{
		applies: func(m models.MedicationEffectiveness, t Thresholds) bool { return m.DaysAnalyzed < t.EarlyDays },
		text: func(m models.MedicationEffectiveness, t Thresholds) string {
			return fmt.Sprintf("It's still early for %s. Most medications need at least %d days before their effect shows.",
				m.Name, t.EarlyDays)
		},
	},
	{
		applies: func(m models.MedicationEffectiveness, t Thresholds) bool {
			return m.IsEffective && m.PercentChange > t.HighlyEffectivePercent
		},
		text: func(m models.MedicationEffectiveness, _ Thresholds) string {
			return fmt.Sprintf("%s appears highly effective: your scores improved %.0f%% since starting it.",
				m.Name, m.PercentChange)
		},
	},
	{
		applies: func(m models.MedicationEffectiveness, t Thresholds) bool {
			return m.IsEffective && m.PercentChange >= t.EffectivePercent
		},
		text: func(m models.MedicationEffectiveness, _ Thresholds) string {
			return fmt.Sprintf("%s appears moderately effective: your scores improved %.0f%% since starting it.",
				m.Name, m.PercentChange)
		},
	},
	{
		applies: func(m models.MedicationEffectiveness, t Thresholds) bool {
			return m.PercentChange < t.WorseningPercent
		},
		text: func(m models.MedicationEffectiveness, _ Thresholds) string {
			return fmt.Sprintf("Your scores dropped %.0f%% since starting %s. Consider discussing this with your prescriber.",
				math.Abs(m.PercentChange), m.Name)
		},
	},
	{
		applies: func(m models.MedicationEffectiveness, t Thresholds) bool {
			return m.PercentChange >= t.WorseningPercent && m.PercentChange <= t.NoEffectUpperPercent
		},
		text: func(m models.MedicationEffectiveness, _ Thresholds) string {
			return fmt.Sprintf("%s shows no significant effect on your symptoms so far.", m.Name)
		},
	},
}

func (a *Analyzer) interpretMedication(m models.MedicationEffectiveness) string {
	for _, rule := range medicationRules {
		if rule.applies(m, a.thresholds) {
			return rule.text(m, a.thresholds)
		}
	}
	return fmt.Sprintf("%s shows minimal improvement so far (%.0f%%).", m.Name, m.PercentChange)
}
