package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

// Sheet names in the exported workbook
const (
	SheetRecords  = "Records"
	SheetAnalysis = "Analysis"
	SheetStreaks  = "Streaks"
)

var factorColumns = []interface{}{"Factor", "Category", "Impact", "Confidence", "Direction", "Detail"}

var streakColumns = []interface{}{"Medication", "Current Length", "Current Since", "Longest Length", "Longest Start", "Longest End"}

// WriteXLSX writes a workbook with Records, Analysis and Streaks sheets
func WriteXLSX(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRecords); err != nil {
		return err
	}
	if err := writeRecordsSheet(f, report.Records); err != nil {
		return fmt.Errorf("records sheet: %w", err)
	}

	if _, err := f.NewSheet(SheetAnalysis); err != nil {
		return err
	}
	if err := writeAnalysisSheet(f, report.Analysis); err != nil {
		return fmt.Errorf("analysis sheet: %w", err)
	}

	if _, err := f.NewSheet(SheetStreaks); err != nil {
		return err
	}
	if err := writeStreaksSheet(f, report.Streaks); err != nil {
		return fmt.Errorf("streaks sheet: %w", err)
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeRecordsSheet(f *excelize.File, records []models.SymptomRecord) error {
	header := []interface{}{"date"}
	for _, c := range TrainingColumns {
		header = append(header, c)
	}
	header = append(header, "medications", "substances", "notes")
	if err := setRow(f, SheetRecords, 1, header); err != nil {
		return err
	}

	sorted := sortedRecords(records)
	for i, row := range TrainingRows(sorted) {
		r := sorted[i]
		values := []interface{}{row.Date.UTC().Format("2006-01-02 15:04")}
		values = append(values, row.values()...)
		values = append(values, medicationList(r), substanceList(r), notes(r))
		if err := setRow(f, SheetRecords, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeAnalysisSheet(f *excelize.File, a *models.ComprehensiveAnalysis) error {
	if a == nil {
		return setRow(f, SheetAnalysis, 1, []interface{}{"Not enough records for a factor analysis yet."})
	}

	rows := [][]interface{}{
		{"Overall score", a.OverallScore},
		{"Trend", string(a.OverallTrend.Direction)},
		{"Slope per day", a.OverallTrend.Slope},
		{"Records", a.RecordCount},
		{},
		factorColumns,
	}
	for _, fi := range a.AllFactors {
		rows = append(rows, []interface{}{fi.Name, string(fi.Category), fi.ImpactScore, fi.Confidence, string(fi.TrendDirection), fi.DetailText})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Insights"})
	for _, s := range a.Insights {
		rows = append(rows, []interface{}{s})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Recommendations"})
	for _, s := range a.Recommendations {
		rows = append(rows, []interface{}{s})
	}

	for i, values := range rows {
		if len(values) == 0 {
			continue
		}
		if err := setRow(f, SheetAnalysis, i+1, values); err != nil {
			return err
		}
	}
	return nil
}

func writeStreaksSheet(f *excelize.File, streaks []models.AdherenceStreaks) error {
	if err := setRow(f, SheetStreaks, 1, streakColumns); err != nil {
		return err
	}
	for i, s := range streaks {
		values := []interface{}{s.Medication, 0, "", s.Longest.Length, s.Longest.StartDate.Format("2006-01-02"), ""}
		if s.Current != nil {
			values[1] = s.Current.Length
			values[2] = s.Current.StartDate.Format("2006-01-02")
		}
		if s.Longest.EndDate != nil {
			values[5] = s.Longest.EndDate.Format("2006-01-02")
		}
		if err := setRow(f, SheetStreaks, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func medicationList(r models.SymptomRecord) string {
	names := make([]string, 0, len(r.Medications))
	for _, m := range r.Medications {
		if m.Taken {
			names = append(names, m.Name)
		} else {
			names = append(names, m.Name+" (skipped)")
		}
	}
	return strings.Join(names, ", ")
}

func substanceList(r models.SymptomRecord) string {
	parts := make([]string, 0, len(r.Substances))
	for _, s := range r.Substances {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("%s %g %s", s.Name, s.Amount, s.Unit)))
	}
	return strings.Join(parts, ", ")
}

func notes(r models.SymptomRecord) string {
	if r.Notes == nil {
		return ""
	}
	return *r.Notes
}
