package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// TrainingColumns is the CSV header of the model-training layout
var TrainingColumns = []string{
	"moodLevel", "anxietyLevel", "anhedoniaLevel", "sleepHours",
	"sleepQuality", "daylightMinutes", "exerciseMinutes",
	"medicationTaken", "substanceAmount", "dayOfWeek",
	"previousDaySleep", "previousDayMood",
}

// TrainingRow is one record flattened for model training. Optional levels
// stay nil so the writer can leave the cell empty.
type TrainingRow struct {
	Date             time.Time
	MoodLevel        *int
	AnxietyLevel     *int
	AnhedoniaLevel   *int
	SleepHours       *float64
	SleepQuality     *int
	DaylightMinutes  *float64
	ExerciseMinutes  *float64
	MedicationTaken  int
	SubstanceAmount  float64
	DayOfWeek        int // 1-7, Sunday=1
	PreviousDaySleep float64
	PreviousDayMood  int
}

// TrainingRows flattens records in time order. Previous-day fields come from
// the record on the preceding calendar day and are 0 when there is none.
func TrainingRows(records []models.SymptomRecord) []TrainingRow {
	sorted := sortedRecords(records)
	rows := make([]TrainingRow, 0, len(sorted))

	for i, r := range sorted {
		row := TrainingRow{
			Date:            r.Timestamp,
			MoodLevel:       r.Mood,
			AnxietyLevel:    r.Anxiety,
			AnhedoniaLevel:  r.Anhedonia,
			SleepHours:      r.SleepHours,
			SleepQuality:    r.SleepQuality,
			DaylightMinutes: r.DaylightMinutes,
			ExerciseMinutes: r.ExerciseMinutes,
			DayOfWeek:       int(r.Timestamp.Weekday()) + 1,
		}
		for _, m := range r.Medications {
			if m.Taken {
				row.MedicationTaken = 1
				break
			}
		}
		for _, s := range r.Substances {
			row.SubstanceAmount += s.Amount
		}

		if i > 0 && isPreviousDay(sorted[i-1].Timestamp, r.Timestamp) {
			prev := sorted[i-1]
			if prev.SleepHours != nil {
				row.PreviousDaySleep = *prev.SleepHours
			}
			if prev.Mood != nil {
				row.PreviousDayMood = *prev.Mood
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func isPreviousDay(prev, cur time.Time) bool {
	py, pm, pd := prev.Date()
	cy, cm, cd := cur.Date()
	p := time.Date(py, pm, pd, 0, 0, 0, 0, time.UTC)
	c := time.Date(cy, cm, cd, 0, 0, 0, 0, time.UTC)
	return c.Sub(p) == 24*time.Hour
}

func (row TrainingRow) cells() []string {
	return []string{
		optionalInt(row.MoodLevel),
		optionalInt(row.AnxietyLevel),
		optionalInt(row.AnhedoniaLevel),
		optionalFloat(row.SleepHours),
		optionalInt(row.SleepQuality),
		optionalFloat(row.DaylightMinutes),
		optionalFloat(row.ExerciseMinutes),
		strconv.Itoa(row.MedicationTaken),
		formatFloat(row.SubstanceAmount),
		strconv.Itoa(row.DayOfWeek),
		formatFloat(row.PreviousDaySleep),
		strconv.Itoa(row.PreviousDayMood),
	}
}

// values is cells() with native types; absent optional values are nil so
// spreadsheet cells stay empty
func (row TrainingRow) values() []interface{} {
	return []interface{}{
		deref(row.MoodLevel),
		deref(row.AnxietyLevel),
		deref(row.AnhedoniaLevel),
		deref(row.SleepHours),
		deref(row.SleepQuality),
		deref(row.DaylightMinutes),
		deref(row.ExerciseMinutes),
		row.MedicationTaken,
		row.SubstanceAmount,
		row.DayOfWeek,
		row.PreviousDaySleep,
		row.PreviousDayMood,
	}
}

func deref[T int | float64](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// WriteCSV writes records in the training layout
func WriteCSV(w io.Writer, records []models.SymptomRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrainingColumns); err != nil {
		return err
	}
	for _, row := range TrainingRows(records) {
		if err := cw.Write(row.cells()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
