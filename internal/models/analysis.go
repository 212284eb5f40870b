package models

import (
	"time"
)

// TrendDirection describes where the composite score is heading
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendWorsening TrendDirection = "worsening"
	TrendStable    TrendDirection = "stable"
)

// FactorCategory groups factors by what kind of input they come from
type FactorCategory string

const (
	FactorMedication FactorCategory = "medication"
	FactorSubstance  FactorCategory = "substance"
	FactorSleep      FactorCategory = "sleep"
	FactorExercise   FactorCategory = "exercise"
	FactorDaylight   FactorCategory = "daylight"
)

// StreakType represents whether a streak is current or historical
type StreakType string

const (
	StreakTypeCurrent StreakType = "current"
	StreakTypeLongest StreakType = "longest"
)

// SymptomAverage holds mean symptom levels over a set of records
type SymptomAverage struct {
	Mood      float64 `json:"mood"`
	Anxiety   float64 `json:"anxiety"`
	Anhedonia float64 `json:"anhedonia"`
}

// Composite returns mood - (anxiety + anhedonia) / 2
func (a SymptomAverage) Composite() float64 {
	return a.Mood - (a.Anxiety+a.Anhedonia)/2
}

// TrendResult is a linear fit of composite score against day index
type TrendResult struct {
	Slope           float64        `json:"slope"`
	Intercept       float64        `json:"intercept"`
	RSquared        float64        `json:"r_squared"`
	Direction       TrendDirection `json:"direction"`
	DaysToGoodLevel *int           `json:"days_to_good_level,omitempty"`
	SampleSize      int            `json:"sample_size"`
}

// MedicationEffectiveness compares wellbeing before and after starting a medication
type MedicationEffectiveness struct {
	Name              string         `json:"name"`
	StartDate         *time.Time     `json:"start_date,omitempty"`
	BeforeAvg         SymptomAverage `json:"before_avg"`
	AfterAvg          SymptomAverage `json:"after_avg"`
	PercentChange     float64        `json:"percent_change"`
	BaselineUndefined bool           `json:"baseline_undefined"`
	Correlation       float64        `json:"correlation"`
	Confidence        float64        `json:"confidence"`
	DaysAnalyzed      int            `json:"days_analyzed"`
	IsEffective       bool           `json:"is_effective"`
	Sufficient        bool           `json:"sufficient"`
	Interpretation    string         `json:"interpretation"`
}

// SubstanceImpact compares days with a substance (and the day after) to typical days
type SubstanceImpact struct {
	Name             string         `json:"name"`
	WithSubstanceAvg SymptomAverage `json:"with_substance_avg"`
	DayAfterAvg      SymptomAverage `json:"day_after_avg"`
	TypicalAvg       SymptomAverage `json:"typical_avg"`
	DaysWith         int            `json:"days_with"`
	DaysAfter        int            `json:"days_after"`
	ImpactScore      float64        `json:"impact_score"`
	Interpretation   string         `json:"interpretation"`
}

// FactorImpact is one ranked entry in the factor analysis
type FactorImpact struct {
	Name           string         `json:"name"`
	Category       FactorCategory `json:"category"`
	ImpactScore    float64        `json:"impact_score"`
	Confidence     float64        `json:"confidence"`
	TrendDirection TrendDirection `json:"trend_direction"`
	DetailText     string         `json:"detail_text"`
}

// WeekdayPattern holds mean composite score per day of week
type WeekdayPattern struct {
	// Means is indexed by time.Weekday; days with no records hold 0 and Counts 0
	Means     []float64 `json:"means"`
	Counts    []int     `json:"counts"`
	BestDay   string    `json:"best_day"`
	WorstDay  string    `json:"worst_day"`
	Spread    float64   `json:"spread"`
	TotalDays int       `json:"total_days"`
}

// LagCorrelation relates a factor on one day to the composite score LagDays later
type LagCorrelation struct {
	Factor      string  `json:"factor"`
	LagDays     int     `json:"lag_days"`
	Coefficient float64 `json:"coefficient"`
	PValue      float64 `json:"p_value"`
	SampleSize  int     `json:"sample_size"`
}

// Streak represents a consecutive-day adherence sequence for a medication
type Streak struct {
	Medication string     `json:"medication"`
	StreakType StreakType `json:"streak_type"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Length     int        `json:"length"`
	IsActive   bool       `json:"is_active"`
}

// AdherenceStreaks pairs the current and longest streak for one medication
type AdherenceStreaks struct {
	Medication string  `json:"medication"`
	Current    *Streak `json:"current,omitempty"`
	Longest    Streak  `json:"longest"`
}

// ComprehensiveAnalysis is the full factor report for a record snapshot
type ComprehensiveAnalysis struct {
	OverallScore    float64         `json:"overall_score"`
	OverallTrend    TrendResult     `json:"overall_trend"`
	TopPositive     []FactorImpact  `json:"top_positive"`
	TopNegative     []FactorImpact  `json:"top_negative"`
	AllFactors      []FactorImpact  `json:"all_factors"`
	WeekdayPattern  *WeekdayPattern `json:"weekday_pattern,omitempty"`
	SleepLag        *LagCorrelation `json:"sleep_lag,omitempty"`
	Insights        []string        `json:"insights"`
	Recommendations []string        `json:"recommendations"`
	RecordCount     int             `json:"record_count"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// Summary gives descriptive statistics for a record window
type Summary struct {
	Average           SymptomAverage `json:"average"`
	StandardDeviation float64        `json:"standard_deviation"`
	OverallScore      float64        `json:"overall_score"`
	RecordCount       int            `json:"record_count"`
	Medications       []string       `json:"medications"`
	Substances        []string       `json:"substances"`
	From              time.Time      `json:"from"`
	To                time.Time      `json:"to"`
}
