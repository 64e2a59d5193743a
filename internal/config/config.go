package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/costspectre/internal/pricing"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "config/config.yaml"

// Defaults applied to omitted settings.
const (
	DefaultSnapshotAgeDays      = 90
	DefaultCPUThreshold         = 5.0
	DefaultAnalysisDays         = 7
	DefaultTrendDays            = 30
	DefaultSpikeThreshold       = 30.0
	DefaultAlertSpikeThreshold  = 30.0
	DefaultHighSavingsThreshold = 500.0
	DefaultOutputDir            = "outputs"
)

// Config holds costspectre configuration loaded from YAML.
type Config struct {
	AWS      AWS      `yaml:"aws"`
	Analysis Analysis `yaml:"analysis"`
	Pricing  Pricing  `yaml:"pricing"`
	Exclude  Exclude  `yaml:"exclude"`
	Slack    Slack    `yaml:"slack"`
	Output   Output   `yaml:"output"`
}

// AWS selects the account and region to analyze.
type AWS struct {
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
}

// Analysis holds per-scanner thresholds.
type Analysis struct {
	EBS       EBSAnalysis       `yaml:"ebs"`
	EC2       EC2Analysis       `yaml:"ec2"`
	ElasticIP ElasticIPAnalysis `yaml:"elastic_ip"`
	Cost      CostAnalysis      `yaml:"cost"`
}

type EBSAnalysis struct {
	SnapshotAgeDays int `yaml:"snapshot_age_days"`
}

type EC2Analysis struct {
	CPUThreshold float64 `yaml:"cpu_threshold"`
	AnalysisDays int     `yaml:"analysis_days"`
}

type ElasticIPAnalysis struct {
	CheckUnused bool `yaml:"check_unused"`
}

type CostAnalysis struct {
	TrendDays      int     `yaml:"trend_days"`
	SpikeThreshold float64 `yaml:"spike_threshold"`
}

// Pricing overrides the built-in price assumptions. Zero values keep the defaults.
type Pricing struct {
	EBSGBMonth             float64            `yaml:"ebs_gb_month"`
	SnapshotGBMonth        float64            `yaml:"snapshot_gb_month"`
	ElasticIPUnused        float64            `yaml:"elastic_ip_unused"`
	DefaultInstanceMonthly float64            `yaml:"default_instance_monthly"`
	InstanceMonthly        map[string]float64 `yaml:"instance_monthly"`
}

// Exclude defines resources to skip during scanning.
type Exclude struct {
	ResourceIDs []string `yaml:"resource_ids"`
	Tags        []string `yaml:"tags"`
}

// Slack configures webhook notifications.
type Slack struct {
	Enabled     bool          `yaml:"enabled"`
	WebhookURL  string        `yaml:"webhook_url"`
	SendSummary bool          `yaml:"send_summary"`
	Channel     string        `yaml:"channel"`
	Username    string        `yaml:"username"`
	Triggers    SlackTriggers `yaml:"triggers"`
}

// SlackTriggers sets the thresholds for conditional alerts.
type SlackTriggers struct {
	CostSpikeThreshold   float64 `yaml:"cost_spike_threshold"`
	HighSavingsThreshold float64 `yaml:"high_savings_threshold"`
}

// Output controls where report artifacts are written.
type Output struct {
	Dir   string `yaml:"dir"`
	SARIF bool   `yaml:"sarif"`
}

// Load reads and parses the YAML file at path, applies defaults and validates
// the result. A missing file is an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file %s not found (run 'costspectre init' to create one)", path)
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	// Keys present in the file overwrite the defaults, including explicit zeros.
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used for every setting the file omits.
func Default() Config {
	return Config{
		Analysis: Analysis{
			EBS:       EBSAnalysis{SnapshotAgeDays: DefaultSnapshotAgeDays},
			EC2:       EC2Analysis{CPUThreshold: DefaultCPUThreshold, AnalysisDays: DefaultAnalysisDays},
			ElasticIP: ElasticIPAnalysis{CheckUnused: true},
			Cost:      CostAnalysis{TrendDays: DefaultTrendDays, SpikeThreshold: DefaultSpikeThreshold},
		},
		Slack: Slack{
			Triggers: SlackTriggers{
				CostSpikeThreshold:   DefaultAlertSpikeThreshold,
				HighSavingsThreshold: DefaultHighSavingsThreshold,
			},
		},
		Output: Output{Dir: DefaultOutputDir},
	}
}

// Validate rejects out-of-range thresholds and prices.
func (c Config) Validate() error {
	var errs []error
	if c.Analysis.EBS.SnapshotAgeDays < 0 {
		errs = append(errs, fmt.Errorf("analysis.ebs.snapshot_age_days must not be negative, got %d", c.Analysis.EBS.SnapshotAgeDays))
	}
	if t := c.Analysis.EC2.CPUThreshold; t < 0 || t > 100 {
		errs = append(errs, fmt.Errorf("analysis.ec2.cpu_threshold must be between 0 and 100, got %g", t))
	}
	if c.Analysis.EC2.AnalysisDays < 1 {
		errs = append(errs, fmt.Errorf("analysis.ec2.analysis_days must be at least 1, got %d", c.Analysis.EC2.AnalysisDays))
	}
	if c.Analysis.Cost.TrendDays < 1 {
		errs = append(errs, fmt.Errorf("analysis.cost.trend_days must be at least 1, got %d", c.Analysis.Cost.TrendDays))
	}
	if c.Analysis.Cost.SpikeThreshold < 0 {
		errs = append(errs, fmt.Errorf("analysis.cost.spike_threshold must not be negative, got %g", c.Analysis.Cost.SpikeThreshold))
	}
	for name, v := range map[string]float64{
		"slack.triggers.cost_spike_threshold":   c.Slack.Triggers.CostSpikeThreshold,
		"slack.triggers.high_savings_threshold": c.Slack.Triggers.HighSavingsThreshold,
		"pricing.ebs_gb_month":             c.Pricing.EBSGBMonth,
		"pricing.snapshot_gb_month":        c.Pricing.SnapshotGBMonth,
		"pricing.elastic_ip_unused":        c.Pricing.ElasticIPUnused,
		"pricing.default_instance_monthly": c.Pricing.DefaultInstanceMonthly,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %g", name, v))
		}
	}
	for instanceType, v := range c.Pricing.InstanceMonthly {
		if v < 0 {
			errs = append(errs, fmt.Errorf("pricing.instance_monthly[%s] must not be negative, got %g", instanceType, v))
		}
	}
	return errors.Join(errs...)
}

// CheckUnusedAddresses reports whether the Elastic IP scan is enabled.
func (c Config) CheckUnusedAddresses() bool {
	return c.Analysis.ElasticIP.CheckUnused
}

// NotificationsReady reports whether Slack is enabled and has a webhook to post to.
func (c Config) NotificationsReady() bool {
	return c.Slack.Enabled && c.Slack.WebhookURL != ""
}

// Rates converts the pricing block for the price table.
func (p Pricing) Rates() pricing.Rates {
	return pricing.Rates{
		EBSPerGBMonth:          p.EBSGBMonth,
		SnapshotPerGBMonth:     p.SnapshotGBMonth,
		ElasticIPMonthly:       p.ElasticIPUnused,
		DefaultInstanceMonthly: p.DefaultInstanceMonthly,
		InstanceMonthly:        p.InstanceMonthly,
	}
}

// ResourceIDSet returns the excluded IDs as a lookup set.
func (e Exclude) ResourceIDSet() map[string]bool {
	if len(e.ResourceIDs) == 0 {
		return nil
	}
	m := make(map[string]bool, len(e.ResourceIDs))
	for _, id := range e.ResourceIDs {
		m[id] = true
	}
	return m
}

// ParseTags converts tag strings ("Key=Value" or "Key") into a map.
// Key-only entries have an empty string value, meaning "match any value".
func (e Exclude) ParseTags() map[string]string {
	if len(e.Tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(e.Tags))
	for _, s := range e.Tags {
		if k, v, ok := strings.Cut(s, "="); ok {
			m[k] = v
		} else {
			m[s] = ""
		}
	}
	return m
}
