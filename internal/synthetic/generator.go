// Package synthetic generates seeded, realistic symptom histories for demos,
// load tests and offline model training.
//
// The model follows one person starting an antidepressant on day 60 with
// 85% adherence. The effect ramps up over 30 days, and sleep, exercise,
// daylight, caffeine, weekend alcohol and Monday blues all feed mood, anxiety
// and anhedonia.
package synthetic

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// Substance and medication names written into generated records
const (
	Caffeine = "Caffeine"
	Alcohol  = "Alcohol"
)

// Config controls a generation run
type Config struct {
	Days            int
	Seed            uint64
	Start           time.Time
	UserID          string
	Medication      string
	MedicationStart int     // day index the medication begins
	Adherence       float64 // probability a dose is taken once started
}

// DefaultConfig returns the 180-day scenario starting at start
func DefaultConfig(start time.Time) Config {
	return Config{
		Days:            180,
		Seed:            42,
		Start:           start,
		UserID:          "synthetic-user",
		Medication:      "Sertraline",
		MedicationStart: 60,
		Adherence:       0.85,
	}
}

const (
	baselineMood      = 2.0
	baselineAnxiety   = 3.0
	baselineAnhedonia = 2.5
	rampDays          = 30.0
	maxMedEffect      = 1.5
)

type generator struct {
	cfg Config
	rng *rand.Rand

	previousSleep float64
	previousMood  int
}

// Generate builds cfg.Days records, one per day, oldest first. The same
// Config always produces the same records.
func Generate(cfg Config) []models.SymptomRecord {
	g := &generator{
		cfg:           cfg,
		rng:           rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		previousSleep: 6.5,
		previousMood:  2,
	}

	records := make([]models.SymptomRecord, 0, cfg.Days)
	for day := 0; day < cfg.Days; day++ {
		records = append(records, g.day(day))
	}
	return records
}

func (g *generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *generator) chance(p float64) bool {
	return g.rng.Float64() < p
}

func (g *generator) day(day int) models.SymptomRecord {
	date := g.cfg.Start.AddDate(0, 0, day)
	weekday := date.Weekday()
	weekend := weekday == time.Saturday || weekday == time.Sunday

	// ===== Medication =====
	onMedication := g.cfg.Medication != "" && day >= g.cfg.MedicationStart
	taken := onMedication && g.chance(g.cfg.Adherence)

	// a missed dose has no effect that day
	medEffect := 0.0
	if taken {
		daysOn := float64(day - g.cfg.MedicationStart)
		medEffect = math.Min(maxMedEffect, daysOn/rampDays*maxMedEffect)
	}

	// ===== Lifestyle =====
	var baseSleep float64
	if weekend {
		baseSleep = g.uniform(7.5, 9.0)
	} else {
		baseSleep = g.uniform(6.0, 8.0)
	}
	sleep := clamp(baseSleep+medEffect*0.5+g.uniform(-0.5, 0.5), 4, 10)
	sleepQuality := int(clamp(sleep/8*5+g.uniform(-1, 1), 1, 5))

	exerciseP := 0.15
	if weekend {
		exerciseP = 0.3
	}
	if day > 0 && g.previousMood >= 3 {
		exerciseP += 0.2
	}
	exercise := 0.0
	if g.chance(exerciseP) {
		exercise = g.uniform(20, 60)
	}

	seasonal := 0.7
	if m := date.Month(); m >= time.May && m <= time.August {
		seasonal = 1.5
	}
	daylight := g.uniform(60, 180) * seasonal
	if !weekend {
		daylight *= 0.6
	}
	daylight = clamp(daylight, 15, 300)

	// ===== Substances =====
	var substances []models.SubstanceEvent
	substanceLoad := 0.0
	if g.chance(0.7) {
		mg := g.uniform(100, 400)
		substanceLoad += mg
		substances = append(substances, models.SubstanceEvent{Name: Caffeine, Amount: round1(mg), Unit: "mg"})
	}
	if weekend && g.chance(0.4) {
		ml := g.uniform(200, 600)
		substanceLoad += ml
		substances = append(substances, models.SubstanceEvent{Name: Alcohol, Amount: round1(ml), Unit: "ml"})
	}

	// ===== Symptoms =====
	weekdayPenalty := 0.0
	if weekday == time.Monday {
		weekdayPenalty = -0.3
	}
	mood := baselineMood +
		medEffect +
		(g.previousSleep-6)*0.5 +
		exercise/60*0.8 +
		daylight/120*0.4 -
		substanceLoad/500*0.3 +
		weekdayPenalty +
		float64(g.previousMood-3)*0.2 +
		g.uniform(-0.3, 0.3)
	moodLevel := level(mood, models.MinMoodLevel, models.MaxMoodLevel)

	anxiety := baselineAnxiety -
		medEffect*0.8 +
		(7-sleep)*0.3 -
		exercise/60*0.5 +
		substanceLoad/500*0.5 +
		g.uniform(-0.4, 0.4)
	anxietyLevel := level(anxiety, models.MinSymptomLevel, models.MaxSymptomLevel)

	anhedonia := baselineAnhedonia -
		medEffect*0.7 -
		exercise/60*0.4 +
		(7-sleep)*0.2 +
		g.uniform(-0.3, 0.3)
	anhedoniaLevel := level(anhedonia, models.MinSymptomLevel, models.MaxSymptomLevel)

	g.previousSleep = sleep
	g.previousMood = moodLevel

	record := models.SymptomRecord{
		ID:              g.recordID(date),
		UserID:          g.cfg.UserID,
		Timestamp:       date,
		Mood:            &moodLevel,
		Anxiety:         &anxietyLevel,
		Anhedonia:       &anhedoniaLevel,
		SleepHours:      ptr(round1(sleep)),
		SleepQuality:    &sleepQuality,
		ExerciseMinutes: ptr(round1(exercise)),
		DaylightMinutes: ptr(round1(daylight)),
		Medications:     []models.MedicationEvent{},
		Substances:      substances,
		CreatedAt:       date,
		UpdatedAt:       date,
	}
	if record.Substances == nil {
		record.Substances = []models.SubstanceEvent{}
	}
	if onMedication {
		record.Medications = append(record.Medications, models.MedicationEvent{Name: g.cfg.Medication, Taken: taken})
	}
	return record
}

// recordID builds a UUIDv7 stamped with the record's own time and random
// bits from the seeded source, so runs are reproducible
func (g *generator) recordID(ts time.Time) string {
	var id uuid.UUID
	ms := uint64(ts.UnixMilli())
	binary.BigEndian.PutUint64(id[8:], g.rng.Uint64())
	binary.BigEndian.PutUint16(id[6:], uint16(g.rng.Uint32()))
	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	id[2] = byte(ms >> 24)
	id[3] = byte(ms >> 16)
	id[4] = byte(ms >> 8)
	id[5] = byte(ms)
	id[6] = 0x70 | (id[6] & 0x0F)
	id[8] = 0x80 | (id[8] & 0x3F)
	return id.String()
}

func level(v float64, lo, hi int) int {
	return int(clamp(math.RoundToEven(v), float64(lo), float64(hi)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func ptr[T any](v T) *T {
	return &v
}
