package commands

import (
	"errors"
	"fmt"

	"github.com/ppiankov/costspectre/internal/config"
	"github.com/ppiankov/costspectre/internal/notify"
	"github.com/spf13/cobra"
)

var testWebhookCmd = &cobra.Command{
	Use:   "test-webhook",
	Short: "Send a test message to the configured Slack webhook",
	RunE:  runTestWebhook,
}

func runTestWebhook(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Slack.WebhookURL == "" {
		return fmt.Errorf("slack.webhook_url not configured in %s", configPath)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Testing Slack connection...")
	result := notify.New(notifyConfig(cfg)).TestConnection(cmd.Context())
	if !result.Success {
		return errors.New(result.Error)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Slack connection successful. Check your Slack channel.")
	return nil
}
