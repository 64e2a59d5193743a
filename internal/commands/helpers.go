package commands

import (
	"fmt"
	"strings"

	"github.com/ppiankov/costspectre/internal/analyzer"
	"github.com/ppiankov/costspectre/internal/aws"
	"github.com/ppiankov/costspectre/internal/config"
	"github.com/ppiankov/costspectre/internal/notify"
)

// enhanceError wraps an error with context and suggestions for common AWS issues.
func enhanceError(action string, err error) error {
	msg := err.Error()

	var hint string
	switch {
	case strings.Contains(msg, "NoCredentialProviders") || strings.Contains(msg, "failed to retrieve credentials"):
		hint = "Configure AWS credentials: set AWS_PROFILE, AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY, or run 'aws configure'"
	case strings.Contains(msg, "ExpiredToken"):
		hint = "AWS session token expired. Refresh credentials or run 'aws sso login'"
	case strings.Contains(msg, "DataUnavailable"):
		hint = "Cost Explorer has no data yet. Enable it in the Billing console; data appears within 24 hours"
	case strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "UnauthorizedOperation") || strings.Contains(msg, "UnauthorizedAccess"):
		hint = "Insufficient permissions. Apply the IAM policy from 'costspectre init' to your role/user (ce:GetCostAndUsage is required for billing data)"
	case strings.Contains(msg, "RequestExpired"):
		hint = "Request expired. Check system clock synchronization"
	case strings.Contains(msg, "Throttling"):
		hint = "AWS API rate limit hit. Wait and run the analysis again"
	}

	if hint != "" {
		return fmt.Errorf("%s: %w\n  hint: %s", action, err, hint)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func scanConfig(cfg config.Config) aws.ScanConfig {
	return aws.ScanConfig{
		SnapshotAgeDays:  cfg.Analysis.EBS.SnapshotAgeDays,
		IdleDays:         cfg.Analysis.EC2.AnalysisDays,
		IdleCPUThreshold: cfg.Analysis.EC2.CPUThreshold,
		Exclude: aws.ExcludeConfig{
			ResourceIDs: cfg.Exclude.ResourceIDSet(),
			Tags:        cfg.Exclude.ParseTags(),
		},
	}
}

func analyzerConfig(cfg config.Config, region string) analyzer.Config {
	return analyzer.Config{
		SpikeThreshold:  cfg.Analysis.Cost.SpikeThreshold,
		Region:          region,
		Profile:         cfg.AWS.Profile,
		CPUThreshold:    cfg.Analysis.EC2.CPUThreshold,
		AnalysisDays:    cfg.Analysis.EC2.AnalysisDays,
		SnapshotAgeDays: cfg.Analysis.EBS.SnapshotAgeDays,
		TrendDays:       cfg.Analysis.Cost.TrendDays,
		Version:         version,
	}
}

func notifyConfig(cfg config.Config) notify.Config {
	return notify.Config{
		WebhookURL:           cfg.Slack.WebhookURL,
		Channel:              cfg.Slack.Channel,
		Username:             cfg.Slack.Username,
		SendSummary:          cfg.Slack.SendSummary,
		CostSpikeThreshold:   cfg.Slack.Triggers.CostSpikeThreshold,
		HighSavingsThreshold: cfg.Slack.Triggers.HighSavingsThreshold,
	}
}
