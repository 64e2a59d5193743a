package commands

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/costspectre/internal/config"
)

func TestEnhanceError_NoCredentials(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("NoCredentialProviders: no valid providers"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for NoCredentialProviders")
	}
	if !strings.Contains(err.Error(), "AWS_PROFILE") {
		t.Fatal("expected hint to mention AWS_PROFILE")
	}
}

func TestEnhanceError_ExpiredToken(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("ExpiredToken: token has expired"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for ExpiredToken")
	}
}

func TestEnhanceError_AccessDenied(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("AccessDenied: not authorized"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for AccessDenied")
	}
}

func TestEnhanceError_Throttling(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("Throttling: rate exceeded"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for Throttling")
	}
}

func TestEnhanceError_GenericError(t *testing.T) {
	err := enhanceError("do something", fmt.Errorf("random error"))
	if strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected no hint for generic error")
	}
	if !strings.Contains(err.Error(), "do something") {
		t.Fatal("expected action in error message")
	}
}

func TestEnhanceError_CostExplorerUnavailable(t *testing.T) {
	err := enhanceError("fetch cost trend", fmt.Errorf("DataUnavailableException: Data is not available"))
	if !strings.Contains(err.Error(), "Cost Explorer") {
		t.Fatalf("expected Cost Explorer hint, got %v", err)
	}
}

func TestEnhanceError_Unwraps(t *testing.T) {
	base := fmt.Errorf("AccessDenied")
	err := enhanceError("scan resources", base)
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped error to match")
	}
	if !strings.Contains(err.Error(), "ce:GetCostAndUsage") {
		t.Fatalf("expected permission hint to mention Cost Explorer, got %v", err)
	}
}

func TestScanConfig(t *testing.T) {
	cfg := config.Config{
		Analysis: config.Analysis{
			EBS: config.EBSAnalysis{SnapshotAgeDays: 60},
			EC2: config.EC2Analysis{CPUThreshold: 10, AnalysisDays: 14},
		},
		Exclude: config.Exclude{
			ResourceIDs: []string{"vol-1"},
			Tags:        []string{"Environment=production"},
		},
	}

	sc := scanConfig(cfg)
	if sc.SnapshotAgeDays != 60 || sc.IdleDays != 14 || sc.IdleCPUThreshold != 10 {
		t.Fatalf("unexpected thresholds: %+v", sc)
	}
	if !sc.Exclude.ShouldExclude("vol-1", nil) {
		t.Fatal("expected vol-1 excluded")
	}
	if !sc.Exclude.ShouldExclude("vol-2", map[string]string{"Environment": "production"}) {
		t.Fatal("expected tag exclusion")
	}
}

func TestNotifyConfig(t *testing.T) {
	cfg := config.Config{Slack: config.Slack{
		WebhookURL:  "https://hooks.slack.com/services/T/B/X",
		Channel:     "#finops",
		SendSummary: true,
		Triggers:    config.SlackTriggers{CostSpikeThreshold: 40, HighSavingsThreshold: 800},
	}}

	nc := notifyConfig(cfg)
	if nc.WebhookURL != cfg.Slack.WebhookURL || nc.Channel != "#finops" || !nc.SendSummary {
		t.Fatalf("unexpected notify config: %+v", nc)
	}
	if nc.CostSpikeThreshold != 40 || nc.HighSavingsThreshold != 800 {
		t.Fatalf("unexpected thresholds: %+v", nc)
	}
}

func TestAnalyzerConfig(t *testing.T) {
	version = "1.0.0"
	t.Cleanup(func() { version = "" })

	cfg := config.Default()
	cfg.AWS.Profile = "prod"

	ac := analyzerConfig(cfg, "eu-central-1")
	if ac.Region != "eu-central-1" || ac.Profile != "prod" || ac.Version != "1.0.0" {
		t.Fatalf("unexpected analyzer config: %+v", ac)
	}
	if ac.SpikeThreshold != 30 || ac.TrendDays != 30 || ac.SnapshotAgeDays != 90 {
		t.Fatalf("expected defaults carried through: %+v", ac)
	}
}
