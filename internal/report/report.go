package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ppiankov/costspectre/internal/analyzer"
)

// Reporter renders an analysis result to an output format.
type Reporter interface {
	Generate(result *analyzer.AnalysisResult) error
}

// JSONReporter writes the full analysis result as indented JSON.
type JSONReporter struct {
	Writer io.Writer
}

// Generate writes the JSON document.
func (r *JSONReporter) Generate(result *analyzer.AnalysisResult) error {
	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}
	return nil
}
