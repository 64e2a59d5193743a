package report

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/costspectre/internal/analyzer"
)

//go:embed templates/report.css
var reportStyle string

const chartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4.4.0/dist/chart.umd.min.js"

// HTMLReporter writes a self-contained HTML document with summary cards,
// a daily cost chart and one table per finding category.
type HTMLReporter struct {
	Writer io.Writer
}

// Generate renders the HTML document.
func (r *HTMLReporter) Generate(result *analyzer.AnalysisResult) error {
	if err := reportPage(result).Render(context.Background(), r.Writer); err != nil {
		return fmt.Errorf("render HTML report: %w", err)
	}
	return nil
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func severityLabel(s analyzer.Severity) string {
	return strings.ToUpper(string(s))
}
