package analyzer

import (
	"time"

	awstype "github.com/ppiankov/costspectre/internal/aws"
)

// Severity classifies total estimated monthly savings.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Category groups findings of the same kind.
type Category string

const (
	CategoryUnattachedVolumes Category = "unattached_volumes"
	CategoryStaleSnapshots    Category = "old_snapshots"
	CategoryIdleInstances     Category = "idle_instances"
	CategoryUnusedAddresses   Category = "unused_elastic_ips"
)

// Categories lists every finding category in report order.
var Categories = []Category{
	CategoryUnattachedVolumes,
	CategoryStaleSnapshots,
	CategoryIdleInstances,
	CategoryUnusedAddresses,
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	switch c {
	case CategoryUnattachedVolumes:
		return "Unattached EBS Volumes"
	case CategoryStaleSnapshots:
		return "Old Snapshots"
	case CategoryIdleInstances:
		return "Idle EC2 Instances"
	case CategoryUnusedAddresses:
		return "Unused Elastic IPs"
	default:
		return string(c)
	}
}

// CostSpike is a day whose spend rose by at least the spike threshold over the previous day.
type CostSpike struct {
	Date            string  `json:"date"`
	IncreasePercent float64 `json:"increase_percent"`
	Cost            float64 `json:"cost"`
	PreviousCost    float64 `json:"previous_cost"`
}

// CategorySummary holds the issue count and savings of one category.
type CategorySummary struct {
	Category       Category `json:"category"`
	Label          string   `json:"label"`
	Count          int      `json:"count"`
	MonthlySavings float64  `json:"monthly_savings"`
}

// Summary holds aggregated totals across all categories.
type Summary struct {
	TotalIssues      int               `json:"total_issues"`
	ResourcesScanned int               `json:"resources_scanned"`
	MonthlySavings   float64           `json:"monthly_savings"`
	YearlySavings    float64           `json:"yearly_savings"`
	IssuesByCategory map[Category]int  `json:"issues_by_category"`
	Categories       []CategorySummary `json:"categories"`
}

// Metadata describes the run that produced a result.
type Metadata struct {
	RunID           string    `json:"run_id"`
	Tool            string    `json:"tool"`
	Version         string    `json:"version"`
	Region          string    `json:"region"`
	Profile         string    `json:"profile,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
	CPUThreshold    float64   `json:"cpu_threshold"`
	AnalysisDays    int       `json:"analysis_days"`
	SnapshotAgeDays int       `json:"snapshot_age_days"`
	TrendDays       int       `json:"trend_days"`
	SpikeThreshold  float64   `json:"spike_threshold"`
}

// AnalysisResult is everything one run produces, consumed by reporters and the notifier.
type AnalysisResult struct {
	Metadata          Metadata              `json:"metadata"`
	UnattachedVolumes []awstype.Finding     `json:"unattached_volumes"`
	StaleSnapshots    []awstype.Finding     `json:"old_snapshots"`
	IdleInstances     []awstype.Finding     `json:"idle_instances"`
	UnusedAddresses   []awstype.Finding     `json:"unused_elastic_ips"`
	CostTrend         awstype.CostTrend     `json:"cost_trend"`
	CostSpikes        []CostSpike           `json:"cost_spikes"`
	ServiceBreakdown  []awstype.ServiceCost `json:"service_breakdown"`
	Forecast30Days    float64               `json:"forecast_30_days"`
	Severity          Severity              `json:"severity"`
	Summary           Summary               `json:"summary"`
}

// Findings returns the findings of one category.
func (r *AnalysisResult) Findings(c Category) []awstype.Finding {
	switch c {
	case CategoryUnattachedVolumes:
		return r.UnattachedVolumes
	case CategoryStaleSnapshots:
		return r.StaleSnapshots
	case CategoryIdleInstances:
		return r.IdleInstances
	case CategoryUnusedAddresses:
		return r.UnusedAddresses
	default:
		return nil
	}
}

// Config controls analysis behavior and the metadata recorded with the result.
type Config struct {
	SpikeThreshold  float64
	Region          string
	Profile         string
	CPUThreshold    float64
	AnalysisDays    int
	SnapshotAgeDays int
	TrendDays       int
	Version         string
}

// Input gathers the raw data fetched from AWS for one run.
type Input struct {
	Scan     *awstype.ScanResult
	Trend    *awstype.CostTrend
	Services []awstype.ServiceCost
}
