package analysis

import (
	"fmt"
	"math"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

const fallbackRecommendation = "Keep logging daily. A few more weeks of data will reveal clearer patterns."

// insightFacts is everything the text rules may react to
type insightFacts struct {
	analysis    *models.ComprehensiveAnalysis
	medications []models.MedicationEffectiveness
	thresholds  Thresholds
}

// textRule yields one sentence, or ok=false when it does not apply
type textRule func(f insightFacts) (text string, ok bool)

// render evaluates rules in order and keeps every sentence that applies
func (f insightFacts) render(rules []textRule) []string {
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		if text, ok := rule(f); ok {
			out = append(out, text)
		}
	}
	return out
}

func (f insightFacts) factor(category models.FactorCategory) (models.FactorImpact, bool) {
	for _, factor := range f.analysis.AllFactors {
		if factor.Category == category {
			return factor, true
		}
	}
	return models.FactorImpact{}, false
}

func (f insightFacts) meanMedicationConfidence() (float64, bool) {
	if len(f.medications) == 0 {
		return 0, false
	}
	var sum float64
	for _, m := range f.medications {
		sum += m.Confidence
	}
	return sum / float64(len(f.medications)), true
}

// =============================================================================
// Insights
// =============================================================================

var insightRules = []textRule{
	trendInsight,
	daysToGoodInsight,
	topPositiveInsight,
	topNegativeInsight,
	sleepInsight,
	medicationConfidenceInsight,
	weekdayInsight,
	sleepLagInsight,
}

func trendInsight(f insightFacts) (string, bool) {
	trend := f.analysis.OverallTrend
	switch trend.Direction {
	case models.TrendImproving:
		return fmt.Sprintf("Your overall wellbeing is improving (about %+.2f points per day).", trend.Slope), true
	case models.TrendWorsening:
		return fmt.Sprintf("Your overall wellbeing has been trending down (about %.2f points per day).", trend.Slope), true
	default:
		return "Your overall wellbeing has been relatively stable.", true
	}
}

func daysToGoodInsight(f insightFacts) (string, bool) {
	trend := f.analysis.OverallTrend
	if trend.Direction != models.TrendImproving || trend.DaysToGoodLevel == nil || *trend.DaysToGoodLevel <= 0 {
		return "", false
	}
	return fmt.Sprintf("At this pace you could reach a consistently good level in about %d days.", *trend.DaysToGoodLevel), true
}

func topPositiveInsight(f insightFacts) (string, bool) {
	if len(f.analysis.TopPositive) == 0 {
		return "", false
	}
	top := f.analysis.TopPositive[0]
	return fmt.Sprintf("%s has the strongest positive association with how you feel.", top.Name), true
}

func topNegativeInsight(f insightFacts) (string, bool) {
	if len(f.analysis.TopNegative) == 0 {
		return "", false
	}
	top := f.analysis.TopNegative[0]
	return fmt.Sprintf("%s has the strongest negative association with how you feel.", top.Name), true
}

func sleepInsight(f insightFacts) (string, bool) {
	sleep, ok := f.factor(models.FactorSleep)
	if !ok {
		return "", false
	}
	t := f.thresholds
	switch {
	case sleep.ImpactScore >= t.NotableImpact:
		return fmt.Sprintf("Days with more than %.0f hours of sleep are noticeably better than days with less than %.0f.",
			t.HighSleepHours, t.LowSleepHours), true
	case sleep.ImpactScore <= -t.NotableImpact:
		return "Longer sleep isn't lining up with better days. Oversleeping can be a sign of low mood.", true
	default:
		return "", false
	}
}

func medicationConfidenceInsight(f insightFacts) (string, bool) {
	confidence, ok := f.meanMedicationConfidence()
	if !ok {
		return "", false
	}
	if confidence < f.thresholds.LowMedicationConfidence {
		return "Medication estimates are still uncertain. Logging every dose will sharpen them.", true
	}
	return fmt.Sprintf("Medication estimates are backed by consistent data (confidence %.0f%%).", confidence*100), true
}

func weekdayInsight(f insightFacts) (string, bool) {
	p := f.analysis.WeekdayPattern
	if p == nil || p.Spread < f.thresholds.WeekdaySpread {
		return "", false
	}
	return fmt.Sprintf("%ss tend to be your hardest day and %ss your best.", p.WorstDay, p.BestDay), true
}

func sleepLagInsight(f insightFacts) (string, bool) {
	lag := f.analysis.SleepLag
	t := f.thresholds
	if lag == nil || math.Abs(lag.Coefficient) < t.LagCorrelationFloor || lag.PValue >= t.LagPValue {
		return "", false
	}
	if lag.Coefficient > 0 {
		return fmt.Sprintf("More sleep tends to be followed by a better next day (r = %.2f).", lag.Coefficient), true
	}
	return fmt.Sprintf("Longer sleep tends to be followed by a harder next day (r = %.2f).", lag.Coefficient), true
}

// =============================================================================
// Recommendations
// =============================================================================

var recommendationRules = []textRule{
	worseningRecommendation,
	negativeFactorRecommendation,
	lifestyleRecommendation(models.FactorSleep, func(t Thresholds) string {
		return fmt.Sprintf("Aim for a consistent sleep schedule with at least %.0f hours per night.", t.HighSleepHours)
	}),
	lifestyleRecommendation(models.FactorExercise, func(t Thresholds) string {
		return fmt.Sprintf("Keep moving. Days with more than %.0f minutes of exercise are better days for you.", t.HighExerciseMinutes)
	}),
	lifestyleRecommendation(models.FactorDaylight, func(t Thresholds) string {
		return fmt.Sprintf("Try to get at least %.0f minutes of daylight each day.", t.HighDaylightMinutes)
	}),
}

func worseningRecommendation(f insightFacts) (string, bool) {
	if f.analysis.OverallTrend.Direction != models.TrendWorsening {
		return "", false
	}
	return "Your scores have been slipping. Consider checking in with your care provider.", true
}

func negativeFactorRecommendation(f insightFacts) (string, bool) {
	if len(f.analysis.TopNegative) == 0 {
		return "", false
	}
	top := f.analysis.TopNegative[0]
	switch top.Category {
	case models.FactorSubstance:
		return fmt.Sprintf("Try cutting back on %s and watch whether your symptoms change.", top.Name), true
	case models.FactorMedication:
		return fmt.Sprintf("Talk to your prescriber about %s. Your scores have dropped since starting it.", top.Name), true
	default:
		return "", false
	}
}

func lifestyleRecommendation(category models.FactorCategory, text func(Thresholds) string) textRule {
	return func(f insightFacts) (string, bool) {
		factor, ok := f.factor(category)
		if !ok || factor.ImpactScore < f.thresholds.NotableImpact {
			return "", false
		}
		return text(f.thresholds), true
	}
}
