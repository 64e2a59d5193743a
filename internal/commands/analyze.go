package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ppiankov/costspectre/internal/analyzer"
	"github.com/ppiankov/costspectre/internal/aws"
	"github.com/ppiankov/costspectre/internal/config"
	"github.com/ppiankov/costspectre/internal/notify"
	"github.com/ppiankov/costspectre/internal/pricing"
	"github.com/ppiankov/costspectre/internal/report"
	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	region     string
	profile    string
	outputFile string
	noProgress bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze AWS resources and spend",
	Long: `Scan one region for unattached EBS volumes, old snapshots, idle EC2 instances
and unused Elastic IPs, fetch the cost trend and service breakdown from Cost
Explorer, send configured Slack alerts and write HTML, JSON and CSV reports.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlags.region, "region", "", "AWS region to analyze (overrides aws.region)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.profile, "profile", "", "AWS profile name (overrides aws.profile)")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.outputFile, "output", "o", "", "HTML report path (default: <output.dir>/"+report.HTMLFileName+")")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.noProgress, "no-progress", false, "Disable progress output")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(&cfg)

	client, err := aws.NewClient(ctx, cfg.AWS.Profile, cfg.AWS.Region)
	if err != nil {
		return enhanceError("initialize AWS client", err)
	}
	region := client.Region()
	slog.Info("Analyzing account", "region", region, "profile", cfg.AWS.Profile)

	prices := pricing.NewTable(cfg.Pricing.Rates())
	scanner := aws.NewScanner(client, prices, scanConfig(cfg), aws.ScannerOptions{
		CheckUnusedAddresses: cfg.CheckUnusedAddresses(),
	})
	if !analyzeFlags.noProgress {
		scanner.SetProgressFn(func(p aws.ScanProgress) {
			fmt.Fprintf(os.Stderr, "Scanned %s in %s: %d findings\n", p.Scanner, p.Region, p.Findings)
		})
	}

	scanResult, err := scanner.ScanAll(ctx)
	if err != nil {
		return enhanceError("scan resources", err)
	}

	costs := aws.NewCostFetcher(client.CostExplorer())
	trend, err := costs.FetchTrend(ctx, cfg.Analysis.Cost.TrendDays)
	if err != nil {
		return enhanceError("fetch cost trend", err)
	}
	services, err := costs.FetchServiceBreakdown(ctx)
	if err != nil {
		return enhanceError("fetch service breakdown", err)
	}

	result := analyzer.Analyze(analyzer.Input{
		Scan:     scanResult,
		Trend:    trend,
		Services: services,
	}, analyzerConfig(cfg, region))

	if cfg.Slack.Enabled {
		if cfg.NotificationsReady() {
			notify.New(notifyConfig(cfg)).Dispatch(ctx, result)
		} else {
			slog.Warn("Slack notifications enabled but slack.webhook_url is not configured")
		}
	}

	written, err := report.WriteAll(result, report.Outputs{
		Dir:      cfg.Output.Dir,
		HTMLPath: analyzeFlags.outputFile,
		SARIF:    cfg.Output.SARIF,
	})
	if err != nil {
		return fmt.Errorf("write reports: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Issues found: %d | Monthly savings: $%.2f | Yearly savings: $%.2f | Severity: %s\n",
		result.Summary.TotalIssues, result.Summary.MonthlySavings, result.Summary.YearlySavings, result.Severity)
	for _, path := range written {
		fmt.Fprintf(out, "  %s\n", path)
	}
	fmt.Fprintf(out, "Analysis complete. Reports generated in %s\n", cfg.Output.Dir)
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if analyzeFlags.region != "" {
		cfg.AWS.Region = analyzeFlags.region
	}
	if analyzeFlags.profile != "" {
		cfg.AWS.Profile = analyzeFlags.profile
	}
}
