package aws

// ResourceType identifies the AWS resource being audited.
type ResourceType string

const (
	ResourceEC2      ResourceType = "ec2"
	ResourceEBS      ResourceType = "ebs"
	ResourceEIP      ResourceType = "eip"
	ResourceSnapshot ResourceType = "snapshot"
)

// FindingID identifies the type of waste detected.
type FindingID string

const (
	FindingUnattachedEBS FindingID = "UNATTACHED_EBS"
	FindingStaleSnapshot FindingID = "STALE_SNAPSHOT"
	FindingIdleEC2       FindingID = "IDLE_EC2"
	FindingUnusedEIP     FindingID = "UNUSED_EIP"
)

// Finding is a single flagged resource. Fields that do not apply to the
// finding's resource type are left zero.
type Finding struct {
	ID            FindingID    `json:"id"`
	ResourceType  ResourceType `json:"resource_type"`
	ResourceID    string       `json:"resource_id"`
	ResourceName  string       `json:"resource_name,omitempty"`
	Region        string       `json:"region"`
	Message       string       `json:"message"`
	MonthlyCost   float64      `json:"monthly_cost"`
	SizeGiB       int          `json:"size_gib,omitempty"`
	VolumeType    string       `json:"volume_type,omitempty"`
	InstanceType  string       `json:"instance_type,omitempty"`
	AgeDays       int          `json:"age_days,omitempty"`
	AvgCPUPercent float64      `json:"avg_cpu_percent,omitempty"`
	PublicIP      string       `json:"public_ip,omitempty"`
	CreatedOn     string       `json:"created_on,omitempty"`
}

// ScanResult holds all findings from scanning a set of resources.
type ScanResult struct {
	Findings         []Finding `json:"findings"`
	ResourcesScanned int       `json:"resources_scanned"`
}

// ScanConfig holds parameters that control scanning behavior. Thresholds are
// used as given, so a zero threshold is a real setting.
type ScanConfig struct {
	SnapshotAgeDays  int
	IdleDays         int
	IdleCPUThreshold float64
	Exclude          ExcludeConfig
}

// DefaultScanConfig returns the standard thresholds with no exclusions.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		SnapshotAgeDays:  DefaultSnapshotAgeDays,
		IdleDays:         DefaultIdleDays,
		IdleCPUThreshold: DefaultIdleCPUThreshold,
	}
}

// ExcludeConfig holds resource exclusion rules.
type ExcludeConfig struct {
	ResourceIDs map[string]bool
	Tags        map[string]string
}

// ShouldExclude reports whether a resource matches an exclusion rule.
// A tag rule with an empty value matches any value of that key.
func (e ExcludeConfig) ShouldExclude(id string, tags map[string]string) bool {
	if e.ResourceIDs[id] {
		return true
	}
	for k, want := range e.Tags {
		got, ok := tags[k]
		if !ok {
			continue
		}
		if want == "" || want == got {
			return true
		}
	}
	return false
}

// CostTrendPoint is one day's total spend. Date is an ISO 8601 calendar date.
type CostTrendPoint struct {
	Date string  `json:"date"`
	Cost float64 `json:"cost"`
}

// CostTrend is the daily spend over a trailing window, ordered by date.
type CostTrend struct {
	TotalCost  float64          `json:"total_cost"`
	DailyCosts []CostTrendPoint `json:"daily_costs"`
}

// ServiceCost is the spend attributed to one service over the billing window.
type ServiceCost struct {
	Service string  `json:"service"`
	Cost    float64 `json:"cost"`
}
