package models

import (
	"time"

	"github.com/goccy/go-json"
)

// NullableString represents a string field that can distinguish between:
// - Field absent in JSON: Set=false, Valid=false, Value=""
// - Field present with null: Set=true, Valid=false, Value=""
// - Field present with value: Set=true, Valid=true, Value="the value"
//
// Go's standard JSON unmarshaling treats both "field absent" and
// "field: null" as nil for pointer types, which loses PATCH semantics.
type NullableString struct {
	Value string
	Valid bool // true if Value is not null
	Set   bool // true if field was present in JSON
}

// UnmarshalJSON implements custom JSON unmarshaling for NullableString.
func (ns *NullableString) UnmarshalJSON(data []byte) error {
	ns.Set = true
	ns.Value = ""
	ns.Valid = false
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &ns.Value); err != nil {
		return err
	}
	ns.Valid = true
	return nil
}

// MarshalJSON implements custom JSON marshaling for NullableString.
func (ns NullableString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ns.Value)
}

// ToPtr converts NullableString to *string.
// Returns nil if Valid is false, otherwise returns pointer to Value.
func (ns NullableString) ToPtr() *string {
	if !ns.Valid {
		return nil
	}
	return &ns.Value
}

// NullableInt is the integer counterpart of NullableString, used for symptom levels
type NullableInt struct {
	Value int
	Valid bool
	Set   bool
}

// UnmarshalJSON implements custom JSON unmarshaling for NullableInt.
func (ni *NullableInt) UnmarshalJSON(data []byte) error {
	ni.Set = true
	ni.Value = 0
	ni.Valid = false
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &ni.Value); err != nil {
		return err
	}
	ni.Valid = true
	return nil
}

// MarshalJSON implements custom JSON marshaling for NullableInt.
func (ni NullableInt) MarshalJSON() ([]byte, error) {
	if !ni.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ni.Value)
}

// ToPtr converts NullableInt to *int.
func (ni NullableInt) ToPtr() *int {
	if !ni.Valid {
		return nil
	}
	return &ni.Value
}

// NullableFloat is the float counterpart of NullableString, used for
// sleep, exercise and daylight measurements
type NullableFloat struct {
	Value float64
	Valid bool
	Set   bool
}

// UnmarshalJSON implements custom JSON unmarshaling for NullableFloat.
func (nf *NullableFloat) UnmarshalJSON(data []byte) error {
	nf.Set = true
	nf.Value = 0
	nf.Valid = false
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &nf.Value); err != nil {
		return err
	}
	nf.Valid = true
	return nil
}

// MarshalJSON implements custom JSON marshaling for NullableFloat.
func (nf NullableFloat) MarshalJSON() ([]byte, error) {
	if !nf.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(nf.Value)
}

// ToPtr converts NullableFloat to *float64.
func (nf NullableFloat) ToPtr() *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Value
}

// NullableTime represents a time field that can distinguish between:
// - Field absent in JSON: Set=false, Valid=false
// - Field present with null: Set=true, Valid=false
// - Field present with value: Set=true, Valid=true, Value=time
type NullableTime struct {
	Value time.Time
	Valid bool
	Set   bool
}

// UnmarshalJSON implements custom JSON unmarshaling for NullableTime.
func (nt *NullableTime) UnmarshalJSON(data []byte) error {
	nt.Set = true
	nt.Value = time.Time{}
	nt.Valid = false
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &nt.Value); err != nil {
		return err
	}
	nt.Valid = true
	return nil
}

// MarshalJSON implements custom JSON marshaling for NullableTime.
func (nt NullableTime) MarshalJSON() ([]byte, error) {
	if !nt.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(nt.Value)
}

// ToPtr converts NullableTime to *time.Time.
func (nt NullableTime) ToPtr() *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Value
}
