// Package export writes symptom records and their analysis as CSV, JSON or
// an XLSX workbook.
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// ErrUnsupportedFormat is returned for format names other than csv, json and xlsx
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export file format
type Format string

// Supported formats
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format
var Formats = []Format{FormatCSV, FormatJSON, FormatXLSX}

// ParseFormat accepts a format name case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (want csv, json or xlsx)", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type for HTTP downloads
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Filename builds a dated download name such as neuralpath-2024-06-01.csv
func (f Format) Filename(at time.Time) string {
	return fmt.Sprintf("neuralpath-%s.%s", at.UTC().Format("2006-01-02"), f)
}

// Report is everything an export can contain. Analysis is nil when there
// were too few records.
type Report struct {
	Records     []models.SymptomRecord        `json:"records"`
	Analysis    *models.ComprehensiveAnalysis `json:"analysis,omitempty"`
	Streaks     []models.AdherenceStreaks     `json:"streaks"`
	GeneratedAt time.Time                     `json:"generated_at"`
}

// Write encodes report in format. CSV carries records only.
func Write(w io.Writer, format Format, report Report) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, report.Records)
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatXLSX:
		return WriteXLSX(w, report)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}

// sortedRecords returns a copy ordered by timestamp
func sortedRecords(records []models.SymptomRecord) []models.SymptomRecord {
	sorted := make([]models.SymptomRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
