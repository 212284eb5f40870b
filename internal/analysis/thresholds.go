package analysis

// Thresholds holds every policy constant the analyzer uses. DefaultThresholds
// returns the production values; config can override individual entries.
type Thresholds struct {
	// Trend
	MinTrendRecords int     `mapstructure:"min_trend_records"`
	StableSlope     float64 `mapstructure:"stable_slope"`
	GoodLevel       float64 `mapstructure:"good_level"`

	// Medication effectiveness
	MinGroupRecords        int     `mapstructure:"min_group_records"`
	EarlyDays              int     `mapstructure:"early_days"`
	SampleSizeDays         float64 `mapstructure:"sample_size_days"`
	EffectivePercent       float64 `mapstructure:"effective_percent"`
	EffectiveCorrelation   float64 `mapstructure:"effective_correlation"`
	EffectiveConfidence    float64 `mapstructure:"effective_confidence"`
	HighlyEffectivePercent float64 `mapstructure:"highly_effective_percent"`
	WorseningPercent       float64 `mapstructure:"worsening_percent"`
	NoEffectUpperPercent   float64 `mapstructure:"no_effect_upper_percent"`

	// Substance impact
	ImmediateWeight float64 `mapstructure:"immediate_weight"`
	NextDayWeight   float64 `mapstructure:"next_day_weight"`
	ImpactDivisor   float64 `mapstructure:"impact_divisor"`
	ImpactThreshold float64 `mapstructure:"impact_threshold"`
	NextDayWarning  float64 `mapstructure:"next_day_warning"`
	// SubstanceConfidenceDays is the number of logged days at which substance
	// confidence saturates at 1
	SubstanceConfidenceDays float64 `mapstructure:"substance_confidence_days"`

	// Factor ranking
	MinFactorRecords        int     `mapstructure:"min_factor_records"`
	HighSleepHours          float64 `mapstructure:"high_sleep_hours"`
	LowSleepHours           float64 `mapstructure:"low_sleep_hours"`
	HighExerciseMinutes     float64 `mapstructure:"high_exercise_minutes"`
	LowExerciseMinutes      float64 `mapstructure:"low_exercise_minutes"`
	HighDaylightMinutes     float64 `mapstructure:"high_daylight_minutes"`
	LowDaylightMinutes      float64 `mapstructure:"low_daylight_minutes"`
	BucketConfidenceRecords float64 `mapstructure:"bucket_confidence_records"`
	TopFactors              int     `mapstructure:"top_factors"`
	// NotableImpact is the |impact| above which a lifestyle factor earns a recommendation
	NotableImpact float64 `mapstructure:"notable_impact"`
	// LowMedicationConfidence triggers the "keep logging doses" insight
	LowMedicationConfidence float64 `mapstructure:"low_medication_confidence"`

	// Supplementary patterns
	MinPatternRecords   int     `mapstructure:"min_pattern_records"`
	WeekdaySpread       float64 `mapstructure:"weekday_spread"`
	MinLagPairs         int     `mapstructure:"min_lag_pairs"`
	LagCorrelationFloor float64 `mapstructure:"lag_correlation_floor"`
	LagPValue           float64 `mapstructure:"lag_p_value"`
	StreakActiveHours   float64 `mapstructure:"streak_active_hours"`
}

// DefaultThresholds returns the standard analysis policy
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinTrendRecords: 3,
		StableSlope:     0.01,
		GoodLevel:       4.0,

		MinGroupRecords:        7,
		EarlyDays:              14,
		SampleSizeDays:         30,
		EffectivePercent:       20,
		EffectiveCorrelation:   0.3,
		EffectiveConfidence:    0.6,
		HighlyEffectivePercent: 50,
		WorseningPercent:       -20,
		NoEffectUpperPercent:   10,

		ImmediateWeight:         0.6,
		NextDayWeight:           0.4,
		ImpactDivisor:           3.0,
		ImpactThreshold:         0.3,
		NextDayWarning:          -0.5,
		SubstanceConfidenceDays: 10,

		MinFactorRecords:        7,
		HighSleepHours:          7,
		LowSleepHours:           6,
		HighExerciseMinutes:     20,
		LowExerciseMinutes:      5,
		HighDaylightMinutes:     30,
		LowDaylightMinutes:      10,
		BucketConfidenceRecords: 20,
		TopFactors:              3,
		NotableImpact:           0.2,
		LowMedicationConfidence: 0.5,

		MinPatternRecords:   7,
		WeekdaySpread:       0.5,
		MinLagPairs:         14,
		LagCorrelationFloor: 0.3,
		LagPValue:           0.05,
		StreakActiveHours:   48,
	}
}
