package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ppiankov/costspectre/internal/analyzer"
)

// CSVReporter writes the headline metrics as a two-column table.
type CSVReporter struct {
	Writer io.Writer
}

// Generate writes the header and one row per metric.
func (r *CSVReporter) Generate(result *analyzer.AnalysisResult) error {
	w := csv.NewWriter(r.Writer)
	rows := [][]string{
		{"Metric", "Value"},
		{"Monthly Savings", formatAmount(result.Summary.MonthlySavings)},
		{"Forecast 30 Days", formatAmount(result.Forecast30Days)},
		{"Severity", string(result.Severity)},
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write CSV report: %w", err)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
