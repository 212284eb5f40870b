// Package analysis computes wellbeing statistics over a snapshot of symptom
// records: trends, medication effectiveness, substance impact, ranked factors
// and the insights derived from them.
//
// Every entry point is a pure function of its input. The analyzer keeps no
// state between calls beyond its thresholds and clock.
package analysis

import (
	"sort"
	"time"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// Analyzer runs the analysis pipeline with a fixed policy
type Analyzer struct {
	thresholds Thresholds
	now        func() time.Time
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithClock overrides the time source used for "now" (medication start
// fallback, streak activity and GeneratedAt)
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// New creates an analyzer with the given thresholds
func New(thresholds Thresholds, opts ...Option) *Analyzer {
	a := &Analyzer{
		thresholds: thresholds,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewDefault creates an analyzer with DefaultThresholds
func NewDefault(opts ...Option) *Analyzer {
	return New(DefaultThresholds(), opts...)
}

// Thresholds returns the analyzer's policy
func (a *Analyzer) Thresholds() Thresholds {
	return a.thresholds
}

// =============================================================================
// Helpers
// =============================================================================

// sortByTimestamp returns an ascending copy; the caller's slice is left untouched
func sortByTimestamp(records []models.SymptomRecord) []models.SymptomRecord {
	sorted := make([]models.SymptomRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// calendarDay returns midnight UTC of the date t falls on in its own location
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar-day boundaries from a to b, ignoring time of day
func daysBetween(a, b time.Time) int {
	return int(calendarDay(b).Sub(calendarDay(a)).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	return calendarDay(a).Equal(calendarDay(b))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func directionFor(v float64) models.TrendDirection {
	switch {
	case v > 0:
		return models.TrendImproving
	case v < 0:
		return models.TrendWorsening
	default:
		return models.TrendStable
	}
}

// distinctNames collects medication names (taken doses only) and substance
// names, each sorted so factor order never depends on map iteration
func distinctNames(records []models.SymptomRecord) (medications, substances []string) {
	meds := make(map[string]bool)
	subs := make(map[string]bool)
	for _, r := range records {
		for _, m := range r.Medications {
			if m.Taken && m.Name != "" {
				meds[m.Name] = true
			}
		}
		for _, s := range r.Substances {
			if s.Name != "" {
				subs[s.Name] = true
			}
		}
	}

	medications = make([]string, 0, len(meds))
	for name := range meds {
		medications = append(medications, name)
	}
	sort.Strings(medications)

	substances = make([]string, 0, len(subs))
	for name := range subs {
		substances = append(substances, name)
	}
	sort.Strings(substances)

	return medications, substances
}

// MedicationNames returns every medication with at least one taken dose
func MedicationNames(records []models.SymptomRecord) []string {
	meds, _ := distinctNames(records)
	return meds
}

// SubstanceNames returns every substance logged at least once
func SubstanceNames(records []models.SymptomRecord) []string {
	_, subs := distinctNames(records)
	return subs
}
