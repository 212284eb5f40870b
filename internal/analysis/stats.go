package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// Average returns mean symptom levels. An empty input yields the neutral
// average {3, 3, 3}: no data means no signal.
func Average(records []models.SymptomRecord) models.SymptomAverage {
	if len(records) == 0 {
		return models.SymptomAverage{Mood: NeutralLevel, Anxiety: NeutralLevel, Anhedonia: NeutralLevel}
	}

	moods := make([]float64, len(records))
	anxiety := make([]float64, len(records))
	anhedonia := make([]float64, len(records))
	for i, r := range records {
		moods[i], anxiety[i], anhedonia[i] = levels(r)
	}

	avg := models.SymptomAverage{}
	avg.Mood, _ = stats.Mean(moods)
	avg.Anxiety, _ = stats.Mean(anxiety)
	avg.Anhedonia, _ = stats.Mean(anhedonia)
	return avg
}

// StandardDeviation is the population standard deviation of composite
// scores. An empty input returns 0.
func StandardDeviation(records []models.SymptomRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sd, err := stats.StandardDeviationPopulation(scores(records))
	if err != nil {
		return 0
	}
	return sd
}

// isConstant reports whether every value equals the first; such a series has
// zero variance and no defined correlation or slope
func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// PearsonCorrelation returns r in [-1, 1], or 0 when there are fewer than two
// points, the lengths differ, or either series has zero variance.
func PearsonCorrelation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	if isConstant(xs) || isConstant(ys) {
		return 0
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return clamp(r, -1, 1)
}

// LinearRegression fits ys = slope*xs + intercept by ordinary least squares.
// It returns (0, 0, 0) for fewer than two points or zero x-variance.
// rSquared is clamped to [0, 1]; a constant ys explains nothing and gets 0.
func LinearRegression(xs, ys []float64) (slope, intercept, rSquared float64) {
	if len(xs) != len(ys) || len(xs) < 2 || isConstant(xs) {
		return 0, 0, 0
	}

	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	if isConstant(ys) {
		return slope, intercept, 0
	}

	rSquared = stat.RSquared(xs, ys, nil, intercept, slope)
	if math.IsNaN(rSquared) {
		rSquared = 0
	}
	return slope, intercept, clamp(rSquared, 0, 1)
}

// OverallScore blends average mood (40%), inverse anxiety (30%) and inverse
// anhedonia (30%) into a 0-100 health score. Unrecorded levels are left out
// of their own average.
func OverallScore(records []models.SymptomRecord) float64 {
	var moodSum, anxietySum, anhedoniaSum float64
	var moodCount, anxietyCount, anhedoniaCount int

	for _, r := range records {
		if r.Mood != nil {
			moodSum += float64(*r.Mood)
			moodCount++
		}
		if r.Anxiety != nil {
			anxietySum += float64(*r.Anxiety)
			anxietyCount++
		}
		if r.Anhedonia != nil {
			anhedoniaSum += float64(*r.Anhedonia)
			anhedoniaCount++
		}
	}

	avgMood := moodSum / float64(max(1, moodCount))
	avgAnxiety := anxietySum / float64(max(1, anxietyCount))
	avgAnhedonia := anhedoniaSum / float64(max(1, anhedoniaCount))

	mood := clamp((avgMood-models.MinMoodLevel)/(models.MaxMoodLevel-models.MinMoodLevel), 0, 1)
	calm := clamp(1-avgAnxiety/models.MaxSymptomLevel, 0, 1)
	engaged := clamp(1-avgAnhedonia/models.MaxSymptomLevel, 0, 1)

	return clamp((0.4*mood+0.3*calm+0.3*engaged)*100, 0, 100)
}
