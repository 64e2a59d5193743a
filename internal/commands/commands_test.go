package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/costspectre/internal/config"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configPath = config.DefaultPath
		initFlags.force = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	version, commit, date = "1.2.3", "abc123", "2026-03-01"
	t.Cleanup(func() { version, commit, date = "", "", "" })

	out, err := runRoot(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "costspectre 1.2.3 (commit: abc123, built: 2026-03-01)") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestInitCommand_WritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config", "config.yaml")
	chdir(t, dir)

	out, err := runRoot(t, "init", "--config", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Created "+path) {
		t.Fatalf("unexpected output: %q", out)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if cfg.AWS.Region != "us-east-1" || cfg.Slack.Enabled {
		t.Fatalf("unexpected sample config: %+v", cfg)
	}

	policy, err := os.ReadFile(filepath.Join(dir, policyPath))
	if err != nil {
		t.Fatalf("read policy: %v", err)
	}
	for _, action := range []string{"ec2:DescribeVolumes", "cloudwatch:GetMetricData", "ce:GetCostAndUsage"} {
		if !strings.Contains(string(policy), action) {
			t.Fatalf("expected policy to grant %s", action)
		}
	}
}

func TestInitCommand_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	chdir(t, dir)
	if err := os.WriteFile(path, []byte("aws:\n  region: eu-west-1\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out, err := runRoot(t, "init", "--config", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Skipping "+path) {
		t.Fatalf("expected skip message, got %q", out)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "eu-west-1") {
		t.Fatal("expected existing config untouched")
	}
}

func TestTestWebhookCommand(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "slack:\n  enabled: true\n  webhook_url: " + srv.URL + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out, err := runRoot(t, "test-webhook", "--config", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected 1 webhook call, got %d", hits)
	}
	if !strings.Contains(out, "Slack connection successful") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestTestWebhookCommand_NotConfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("slack:\n  enabled: false\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := runRoot(t, "test-webhook", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "webhook_url not configured") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestAnalyzeCommand_MissingConfig(t *testing.T) {
	_, err := runRoot(t, "analyze", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
