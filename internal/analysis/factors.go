package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// AnalyzeAllFactors runs every analyzer over the snapshot and ranks the
// resulting factors by absolute impact. It returns nil when there are fewer
// than MinFactorRecords records.
func (a *Analyzer) AnalyzeAllFactors(records []models.SymptomRecord) *models.ComprehensiveAnalysis {
	t := a.thresholds
	if len(records) < t.MinFactorRecords {
		return nil
	}

	medNames, subNames := distinctNames(records)
	factors := make([]models.FactorImpact, 0, len(medNames)+len(subNames)+len(lifestyleBuckets))

	medications := make([]models.MedicationEffectiveness, 0, len(medNames))
	for _, name := range medNames {
		m := a.AnalyzeMedication(name, records)
		if !m.Sufficient || m.DaysAnalyzed < t.MinGroupRecords {
			continue
		}
		medications = append(medications, m)
		factors = append(factors, a.medicationFactor(m))
	}

	for _, name := range subNames {
		s := a.AnalyzeSubstance(name, records)
		if s.DaysWith == 0 {
			continue
		}
		factors = append(factors, a.substanceFactor(s))
	}

	for _, bucket := range lifestyleBuckets {
		if f, ok := a.lifestyleFactor(bucket, records); ok {
			factors = append(factors, f)
		}
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return math.Abs(factors[i].ImpactScore) > math.Abs(factors[j].ImpactScore)
	})

	analysis := &models.ComprehensiveAnalysis{
		OverallScore:   OverallScore(records),
		OverallTrend:   a.ComputeTrend(records),
		TopPositive:    topFactors(factors, t.TopFactors, func(v float64) bool { return v > 0 }),
		TopNegative:    topFactors(factors, t.TopFactors, func(v float64) bool { return v < 0 }),
		AllFactors:     factors,
		WeekdayPattern: a.WeekdayPattern(records),
		SleepLag:       a.SleepLagCorrelation(records),
		RecordCount:    len(records),
		GeneratedAt:    a.now(),
	}

	facts := insightFacts{
		analysis:    analysis,
		medications: medications,
		thresholds:  t,
	}
	analysis.Insights = facts.render(insightRules)
	analysis.Recommendations = facts.render(recommendationRules)
	if len(analysis.Recommendations) == 0 {
		analysis.Recommendations = []string{fallbackRecommendation}
	}

	return analysis
}

// topFactors takes up to n factors (already ranked) whose impact satisfies keep
func topFactors(ranked []models.FactorImpact, n int, keep func(float64) bool) []models.FactorImpact {
	out := make([]models.FactorImpact, 0, n)
	for _, f := range ranked {
		if len(out) == n {
			break
		}
		if keep(f.ImpactScore) {
			out = append(out, f)
		}
	}
	return out
}

func (a *Analyzer) medicationFactor(m models.MedicationEffectiveness) models.FactorImpact {
	impact := clamp(m.PercentChange/100, -1, 1)
	if m.BaselineUndefined {
		impact = clamp((m.AfterAvg.Composite()-m.BeforeAvg.Composite())/a.thresholds.ImpactDivisor, -1, 1)
	}
	return models.FactorImpact{
		Name:           m.Name,
		Category:       models.FactorMedication,
		ImpactScore:    impact,
		Confidence:     m.Confidence,
		TrendDirection: directionFor(impact),
		DetailText:     m.Interpretation,
	}
}

func (a *Analyzer) substanceFactor(s models.SubstanceImpact) models.FactorImpact {
	return models.FactorImpact{
		Name:           s.Name,
		Category:       models.FactorSubstance,
		ImpactScore:    s.ImpactScore,
		Confidence:     math.Min(1, float64(s.DaysWith)/a.thresholds.SubstanceConfidenceDays),
		TrendDirection: directionFor(s.ImpactScore),
		DetailText:     s.Interpretation,
	}
}

// lifestyleBucket describes a high-vs-low comparison over one numeric field
type lifestyleBucket struct {
	name     string
	category models.FactorCategory
	unit     string
	value    func(models.SymptomRecord) *float64
	high     func(Thresholds) float64
	low      func(Thresholds) float64
}

var lifestyleBuckets = []lifestyleBucket{
	{
		name:     "Sleep",
		category: models.FactorSleep,
		unit:     "hours of sleep",
		value:    func(r models.SymptomRecord) *float64 { return r.SleepHours },
		high:     func(t Thresholds) float64 { return t.HighSleepHours },
		low:      func(t Thresholds) float64 { return t.LowSleepHours },
	},
	{
		name:     "Exercise",
		category: models.FactorExercise,
		unit:     "minutes of exercise",
		value:    func(r models.SymptomRecord) *float64 { return r.ExerciseMinutes },
		high:     func(t Thresholds) float64 { return t.HighExerciseMinutes },
		low:      func(t Thresholds) float64 { return t.LowExerciseMinutes },
	},
	{
		name:     "Daylight",
		category: models.FactorDaylight,
		unit:     "minutes of daylight",
		value:    func(r models.SymptomRecord) *float64 { return r.DaylightMinutes },
		high:     func(t Thresholds) float64 { return t.HighDaylightMinutes },
		low:      func(t Thresholds) float64 { return t.LowDaylightMinutes },
	},
}

// lifestyleFactor is skipped (ok=false) when either bucket is empty
func (a *Analyzer) lifestyleFactor(b lifestyleBucket, records []models.SymptomRecord) (models.FactorImpact, bool) {
	highCut, lowCut := b.high(a.thresholds), b.low(a.thresholds)

	var high, low []models.SymptomRecord
	for _, r := range records {
		v := b.value(r)
		if v == nil {
			continue
		}
		switch {
		case *v > highCut:
			high = append(high, r)
		case *v < lowCut:
			low = append(low, r)
		}
	}
	if len(high) == 0 || len(low) == 0 {
		return models.FactorImpact{}, false
	}

	highAvg := Average(high).Composite()
	lowAvg := Average(low).Composite()
	impact := clamp((highAvg-lowAvg)/math.Max(math.Abs(lowAvg), 1), -1, 1)

	return models.FactorImpact{
		Name:           b.name,
		Category:       b.category,
		ImpactScore:    impact,
		Confidence:     math.Min(1, float64(len(high)+len(low))/a.thresholds.BucketConfidenceRecords),
		TrendDirection: directionFor(impact),
		DetailText: fmt.Sprintf("Days with more than %.0f %s average %.2f, compared with %.2f on days with less than %.0f.",
			highCut, b.unit, highAvg, lowAvg, lowCut),
	}, true
}
