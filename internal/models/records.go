package models

import "time"

// Ordinal scale bounds for symptom levels
const (
	MinMoodLevel    = 1
	MaxMoodLevel    = 5
	MinSymptomLevel = 0
	MaxSymptomLevel = 4
)

// MedicationEvent records that a medication was taken on a given day
type MedicationEvent struct {
	Name  string `json:"name" binding:"required"`
	Taken bool   `json:"taken"`
}

// SubstanceEvent records substance use on a given day
type SubstanceEvent struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount" binding:"gte=0"`
	Unit   string  `json:"unit"`
}

// SymptomRecord is one day of self-reported symptoms and lifestyle factors.
// Optional fields are nil when the user did not record them.
type SymptomRecord struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	Timestamp       time.Time         `json:"timestamp"`
	Mood            *int              `json:"mood,omitempty"`
	Anxiety         *int              `json:"anxiety,omitempty"`
	Anhedonia       *int              `json:"anhedonia,omitempty"`
	SleepHours      *float64          `json:"sleep_hours,omitempty"`
	SleepQuality    *int              `json:"sleep_quality,omitempty"`
	ExerciseMinutes *float64          `json:"exercise_minutes,omitempty"`
	DaylightMinutes *float64          `json:"daylight_minutes,omitempty"`
	Medications     []MedicationEvent `json:"medications"`
	Substances      []SubstanceEvent  `json:"substances"`
	Notes           *string           `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TookMedication reports whether the named medication was taken on this day.
// Names are matched exactly.
func (r SymptomRecord) TookMedication(name string) bool {
	for _, m := range r.Medications {
		if m.Taken && m.Name == name {
			return true
		}
	}
	return false
}

// UsedSubstance reports whether the named substance was logged on this day.
func (r SymptomRecord) UsedSubstance(name string) bool {
	for _, s := range r.Substances {
		if s.Name == name {
			return true
		}
	}
	return false
}

// CreateRecordRequest represents the request to create a symptom record
type CreateRecordRequest struct {
	ID              *string           `json:"id"`
	Timestamp       time.Time         `json:"timestamp" binding:"required"`
	Mood            *int              `json:"mood" binding:"omitempty,min=1,max=5"`
	Anxiety         *int              `json:"anxiety" binding:"omitempty,min=0,max=4"`
	Anhedonia       *int              `json:"anhedonia" binding:"omitempty,min=0,max=4"`
	SleepHours      *float64          `json:"sleep_hours" binding:"omitempty,gte=0,lte=24"`
	SleepQuality    *int              `json:"sleep_quality" binding:"omitempty,min=1,max=5"`
	ExerciseMinutes *float64          `json:"exercise_minutes" binding:"omitempty,gte=0,lte=1440"`
	DaylightMinutes *float64          `json:"daylight_minutes" binding:"omitempty,gte=0,lte=1440"`
	Medications     []MedicationEvent `json:"medications" binding:"omitempty,dive"`
	Substances      []SubstanceEvent  `json:"substances" binding:"omitempty,dive"`
	Notes           *string           `json:"notes"`
}

// UpdateRecordRequest represents a partial update of a symptom record.
// Nullable fields distinguish "leave unchanged" from "clear the value".
type UpdateRecordRequest struct {
	Timestamp       NullableTime      `json:"timestamp"`
	Mood            NullableInt       `json:"mood"`
	Anxiety         NullableInt       `json:"anxiety"`
	Anhedonia       NullableInt       `json:"anhedonia"`
	SleepHours      NullableFloat     `json:"sleep_hours"`
	SleepQuality    NullableInt       `json:"sleep_quality"`
	ExerciseMinutes NullableFloat     `json:"exercise_minutes"`
	DaylightMinutes NullableFloat     `json:"daylight_minutes"`
	Medications     []MedicationEvent `json:"medications"`
	Substances      []SubstanceEvent  `json:"substances"`
	Notes           NullableString    `json:"notes"`
}
