package analysis

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// WeekdayPattern computes the mean composite score per day of week.
// Returns nil with fewer than MinPatternRecords records.
func (a *Analyzer) WeekdayPattern(records []models.SymptomRecord) *models.WeekdayPattern {
	if len(records) < a.thresholds.MinPatternRecords {
		return nil
	}

	byDay := make([][]float64, 7)
	for _, r := range records {
		day := int(r.Timestamp.Weekday())
		byDay[day] = append(byDay[day], Score(r))
	}

	pattern := &models.WeekdayPattern{
		Means:     make([]float64, 7),
		Counts:    make([]int, 7),
		TotalDays: len(records),
	}

	best, worst := -1, -1
	for day, values := range byDay {
		pattern.Counts[day] = len(values)
		if len(values) == 0 {
			continue
		}
		mean, _ := stats.Mean(values)
		pattern.Means[day] = mean

		if best < 0 || mean > pattern.Means[best] {
			best = day
		}
		if worst < 0 || mean < pattern.Means[worst] {
			worst = day
		}
	}

	pattern.BestDay = time.Weekday(best).String()
	pattern.WorstDay = time.Weekday(worst).String()
	pattern.Spread = pattern.Means[best] - pattern.Means[worst]

	return pattern
}

// SleepLagCorrelation relates sleep logged on one day to the composite score
// of the following calendar day. Pairs are only formed across consecutive
// days. Returns nil with fewer than MinLagPairs pairs.
func (a *Analyzer) SleepLagCorrelation(records []models.SymptomRecord) *models.LagCorrelation {
	sorted := sortByTimestamp(records)

	var sleep, nextDay []float64
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].SleepHours == nil {
			continue
		}
		if daysBetween(sorted[i].Timestamp, sorted[i+1].Timestamp) != 1 {
			continue
		}
		sleep = append(sleep, *sorted[i].SleepHours)
		nextDay = append(nextDay, Score(sorted[i+1]))
	}

	if len(sleep) < a.thresholds.MinLagPairs {
		return nil
	}

	r := PearsonCorrelation(sleep, nextDay)
	return &models.LagCorrelation{
		Factor:      "sleep_hours",
		LagDays:     1,
		Coefficient: r,
		PValue:      correlationPValue(r, len(sleep)),
		SampleSize:  len(sleep),
	}
}

// correlationPValue is the two-tailed p-value of r under a Student's t
// distribution with n-2 degrees of freedom
func correlationPValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}
