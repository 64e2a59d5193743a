package commands

import (
	"github.com/ppiankov/costspectre/internal/config"
	"github.com/ppiankov/costspectre/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	version    string
	commit     string
	date       string
)

var rootCmd = &cobra.Command{
	Use:   "costspectre",
	Short: "costspectre: AWS cost analyzer",
	Long: `costspectre finds AWS resources that cost money for nothing and summarizes
recent spend. It scans unattached EBS volumes, old snapshots, idle EC2 instances
and unused Elastic IPs, pulls the daily cost trend and per-service breakdown from
Cost Explorer, and writes HTML, JSON and CSV reports.

Each finding includes an estimated monthly cost in USD.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the configuration file")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(testWebhookCmd)
	rootCmd.AddCommand(versionCmd)
}
