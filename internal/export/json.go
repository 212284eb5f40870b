package export

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// WriteJSON writes the whole report as indented JSON, records oldest first
func WriteJSON(w io.Writer, report Report) error {
	report.Records = sortedRecords(report.Records)
	if report.Streaks == nil {
		report.Streaks = []models.AdherenceStreaks{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
