package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/neuralpath/backend/internal/analysis"
	"github.com/JonnyWalker81/neuralpath/backend/internal/logger"
	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a JSON file of symptom records",
	Long: `Run the analyzer over a JSON array of records (as written by
"generate") and print the result as JSON.

Reports: factors (default), summary, trend, medications, streaks, weekdays,
sleep-lag.`,
	RunE: runAnalyze,
}

var analyzeOpts struct {
	input  string
	report string
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeOpts.input, "input", "i", "-", "Records file, - for stdin")
	f.StringVarP(&analyzeOpts.report, "report", "r", "factors", "Which report to print")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := logger.WithOperation(cmd.Context(), "analyze."+analyzeOpts.report)
	log := logger.Default().With(logger.String("operation", logger.OperationFromContext(ctx)))

	records, err := readRecords(analyzeOpts.input)
	if err != nil {
		return err
	}
	analyzer := analysis.New(cfg.Analysis)

	result, err := buildAnalysisReport(analyzer, analyzeOpts.report, records)
	if err != nil {
		return err
	}

	log.Info("analysis complete", logger.Int("records", len(records)))
	return writeJSON(os.Stdout, result)
}

func buildAnalysisReport(analyzer *analysis.Analyzer, report string, records []models.SymptomRecord) (interface{}, error) {
	t := analyzer.Thresholds()
	switch report {
	case "factors":
		result := analyzer.AnalyzeAllFactors(records)
		if result == nil {
			return nil, fmt.Errorf("factor analysis needs at least %d records, got %d", t.MinFactorRecords, len(records))
		}
		return result, nil
	case "summary":
		return models.Summary{
			Average:           analysis.Average(records),
			StandardDeviation: analysis.StandardDeviation(records),
			OverallScore:      analysis.OverallScore(records),
			RecordCount:       len(records),
			Medications:       analysis.MedicationNames(records),
			Substances:        analysis.SubstanceNames(records),
		}, nil
	case "trend":
		return analyzer.ComputeTrend(records), nil
	case "medications":
		names := analysis.MedicationNames(records)
		results := make([]models.MedicationEffectiveness, 0, len(names))
		for _, name := range names {
			results = append(results, analyzer.AnalyzeMedication(name, records))
		}
		return results, nil
	case "streaks":
		return analyzer.AdherenceStreaks(records), nil
	case "weekdays":
		pattern := analyzer.WeekdayPattern(records)
		if pattern == nil {
			return nil, fmt.Errorf("weekday pattern needs at least %d records, got %d", t.MinPatternRecords, len(records))
		}
		return pattern, nil
	case "sleep-lag":
		lag := analyzer.SleepLagCorrelation(records)
		if lag == nil {
			return nil, fmt.Errorf("not enough consecutive days with sleep logged")
		}
		return lag, nil
	default:
		return nil, fmt.Errorf("unknown report %q", report)
	}
}
