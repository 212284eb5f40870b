package analysis

import (
	"math"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// ComputeTrend fits composite score against calendar-day index, where day 0
// is the earliest record. Fewer than MinTrendRecords records yield a
// zero-valued stable result.
func (a *Analyzer) ComputeTrend(records []models.SymptomRecord) models.TrendResult {
	if len(records) < a.thresholds.MinTrendRecords {
		return models.TrendResult{
			Direction:  models.TrendStable,
			SampleSize: len(records),
		}
	}

	sorted := sortByTimestamp(records)
	first := sorted[0].Timestamp

	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, r := range sorted {
		xs[i] = float64(daysBetween(first, r.Timestamp))
		ys[i] = Score(r)
	}

	slope, intercept, rSquared := LinearRegression(xs, ys)
	result := models.TrendResult{
		Slope:      slope,
		Intercept:  intercept,
		RSquared:   rSquared,
		Direction:  a.classifySlope(slope),
		SampleSize: len(sorted),
	}

	latest := ys[len(ys)-1]
	if result.Direction == models.TrendImproving && latest < a.thresholds.GoodLevel {
		days := int((a.thresholds.GoodLevel - latest) / slope)
		result.DaysToGoodLevel = &days
	}

	return result
}

// classifySlope treats |slope| <= StableSlope as stable
func (a *Analyzer) classifySlope(slope float64) models.TrendDirection {
	if math.Abs(slope) <= a.thresholds.StableSlope {
		return models.TrendStable
	}
	if slope > 0 {
		return models.TrendImproving
	}
	return models.TrendWorsening
}
