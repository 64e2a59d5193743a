package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate sample config and IAM policy",
	Long:  `Creates a sample config/config.yaml file and an IAM policy JSON file for read-only access.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
}

const policyPath = "costspectre-policy.json"

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	wrote := 0
	for _, f := range []struct{ path, content string }{
		{configPath, sampleConfig},
		{policyPath, sampleIAMPolicy},
	} {
		created, err := writeIfNotExists(out, f.path, f.content, initFlags.force)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(out, "Created %s\n", f.path)
			wrote++
		}
	}

	if wrote > 0 {
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintf(out, "  1. Edit %s to set region, thresholds and Slack settings\n", configPath)
		fmt.Fprintf(out, "  2. Apply %s to your AWS IAM role/user\n", policyPath)
		fmt.Fprintln(out, "  3. Run: costspectre analyze")
	}
	return nil
}

func writeIfNotExists(out io.Writer, path, content string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "Skipping %s (already exists, use --force to overwrite)\n", path)
			return false, nil
		}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

const sampleConfig = `# costspectre configuration

aws:
  region: us-east-1
  # profile: default

analysis:
  ebs:
    # Snapshots older than this many days are reported
    snapshot_age_days: 90
  ec2:
    # Average CPU % below which a running instance is idle
    cpu_threshold: 5
    # Lookback window for CPU metrics (days)
    analysis_days: 7
  elastic_ip:
    check_unused: true
  cost:
    trend_days: 30
    # Day-over-day increase (%) reported as a spike
    spike_threshold: 30

# Price assumptions in USD; omitted values use the built-in defaults
pricing:
  ebs_gb_month: 0.10
  snapshot_gb_month: 0.05
  elastic_ip_unused: 3.60
  default_instance_monthly: 50
  # instance_monthly:
  #   m6i.large: 70.08

# Resources to exclude from scanning
# exclude:
#   resource_ids:
#     - i-0abc123
#   tags:
#     - "Environment=production"
#     - "costspectre:ignore"

slack:
  enabled: false
  webhook_url: ""
  send_summary: true
  # channel: "#finops"
  # username: costspectre
  triggers:
    cost_spike_threshold: 30
    high_savings_threshold: 500

output:
  dir: outputs
  sarif: false
`

const sampleIAMPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Sid": "CostSpectreReadOnly",
      "Effect": "Allow",
      "Action": [
        "ec2:DescribeInstances",
        "ec2:DescribeVolumes",
        "ec2:DescribeSnapshots",
        "ec2:DescribeAddresses",
        "cloudwatch:GetMetricData",
        "ce:GetCostAndUsage"
      ],
      "Resource": "*"
    }
  ]
}
`
