package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ppiankov/costspectre/internal/analyzer"
	awstype "github.com/ppiankov/costspectre/internal/aws"
)

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"

// sarifReport is the top-level SARIF v2.1.0 structure.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	ShortDescription sarifMessage      `json:"shortDescription"`
	DefaultConfig    sarifDefaultLevel `json:"defaultConfiguration"`
}

type sarifDefaultLevel struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string         `json:"ruleId"`
	Level     string         `json:"level"`
	Message   sarifMessage   `json:"message"`
	Locations []sarifLoc     `json:"locations,omitempty"`
	Props     map[string]any `json:"properties,omitempty"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// SARIFReporter writes findings as SARIF v2.1.0 for CI code-scanning ingestion.
type SARIFReporter struct {
	Writer io.Writer
}

// Generate writes SARIF v2.1.0 output.
func (r *SARIFReporter) Generate(result *analyzer.AnalysisResult) error {
	var results []sarifResult
	for _, c := range analyzer.Categories {
		for _, f := range result.Findings(c) {
			results = append(results, sarifResult{
				RuleID:  string(f.ID),
				Level:   sarifLevel(f.ID),
				Message: sarifMessage{Text: f.Message},
				Locations: []sarifLoc{
					{
						PhysicalLocation: sarifPhysical{
							ArtifactLocation: sarifArtifact{
								URI: fmt.Sprintf("aws://%s/%s/%s", f.Region, f.ResourceType, f.ResourceID),
							},
						},
					},
				},
				Props: map[string]any{
					"resourceName": f.ResourceName,
					"monthlyCost":  f.MonthlyCost,
					"category":     string(c),
				},
			})
		}
	}
	if results == nil {
		results = []sarifResult{}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    result.Metadata.Tool,
						Version: result.Metadata.Version,
						Rules:   buildSARIFRules(),
					},
				},
				Results: results,
				Properties: map[string]any{
					"runId":          result.Metadata.RunID,
					"monthlySavings": result.Summary.MonthlySavings,
					"severity":       string(result.Severity),
				},
			},
		},
	}

	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode SARIF report: %w", err)
	}
	return nil
}

func sarifLevel(id awstype.FindingID) string {
	switch id {
	case awstype.FindingIdleEC2, awstype.FindingUnattachedEBS:
		return "warning"
	default:
		return "note"
	}
}

func buildSARIFRules() []sarifRule {
	return []sarifRule{
		{ID: string(awstype.FindingUnattachedEBS), ShortDescription: sarifMessage{Text: "Unattached EBS volume"}, DefaultConfig: sarifDefaultLevel{Level: "warning"}},
		{ID: string(awstype.FindingStaleSnapshot), ShortDescription: sarifMessage{Text: "Old EBS snapshot"}, DefaultConfig: sarifDefaultLevel{Level: "note"}},
		{ID: string(awstype.FindingIdleEC2), ShortDescription: sarifMessage{Text: "Idle EC2 instance"}, DefaultConfig: sarifDefaultLevel{Level: "warning"}},
		{ID: string(awstype.FindingUnusedEIP), ShortDescription: sarifMessage{Text: "Unused Elastic IP"}, DefaultConfig: sarifDefaultLevel{Level: "note"}},
	}
}
