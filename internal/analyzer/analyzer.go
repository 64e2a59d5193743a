package analyzer

import (
	"time"

	"github.com/google/uuid"
	awstype "github.com/ppiankov/costspectre/internal/aws"
	"github.com/samber/lo"
)

// ToolName identifies reports produced by this module.
const ToolName = "costspectre"

// Analyze partitions findings by category and computes spikes, forecast,
// savings and severity.
func Analyze(in Input, cfg Config) *AnalysisResult {
	var scan awstype.ScanResult
	if in.Scan != nil {
		scan = *in.Scan
	}
	var trend awstype.CostTrend
	if in.Trend != nil {
		trend = *in.Trend
	}

	result := &AnalysisResult{
		Metadata: Metadata{
			RunID:           uuid.NewString(),
			Tool:            ToolName,
			Version:         cfg.Version,
			Region:          cfg.Region,
			Profile:         cfg.Profile,
			GeneratedAt:     time.Now().UTC().Truncate(time.Second),
			CPUThreshold:    cfg.CPUThreshold,
			AnalysisDays:    cfg.AnalysisDays,
			SnapshotAgeDays: cfg.SnapshotAgeDays,
			TrendDays:       cfg.TrendDays,
			SpikeThreshold:  cfg.SpikeThreshold,
		},
		CostTrend:        trend,
		CostSpikes:       DetectSpikes(trend.DailyCosts, cfg.SpikeThreshold),
		ServiceBreakdown: in.Services,
		Forecast30Days:   Forecast(trend.DailyCosts),
	}

	byID := lo.GroupBy(scan.Findings, func(f awstype.Finding) awstype.FindingID {
		return f.ID
	})
	result.UnattachedVolumes = byID[awstype.FindingUnattachedEBS]
	result.StaleSnapshots = byID[awstype.FindingStaleSnapshot]
	result.IdleInstances = byID[awstype.FindingIdleEC2]
	result.UnusedAddresses = byID[awstype.FindingUnusedEIP]

	summary := Summary{
		ResourcesScanned: scan.ResourcesScanned,
		IssuesByCategory: make(map[Category]int, len(Categories)),
	}
	var counted []awstype.Finding
	for _, c := range Categories {
		findings := result.Findings(c)
		counted = append(counted, findings...)
		summary.TotalIssues += len(findings)
		summary.IssuesByCategory[c] = len(findings)
		summary.Categories = append(summary.Categories, CategorySummary{
			Category:       c,
			Label:          c.Label(),
			Count:          len(findings),
			MonthlySavings: MonthlySavings(findings),
		})
	}
	summary.MonthlySavings = MonthlySavings(counted)
	summary.YearlySavings = YearlySavings(summary.MonthlySavings)

	result.Summary = summary
	result.Severity = SeverityFor(summary.MonthlySavings)
	return result
}
