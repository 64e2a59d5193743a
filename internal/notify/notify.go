package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppiankov/costspectre/internal/analyzer"
	"github.com/shopspring/decimal"
	"github.com/slack-go/slack"
)

// Attachment colors.
const (
	colorDanger  = "danger"
	colorWarning = "warning"
	colorGood    = "good"
)

const defaultUsername = "costspectre"

// Kind identifies the notification that was sent.
type Kind string

const (
	KindCostSpike   Kind = "cost_spike"
	KindHighSavings Kind = "high_savings"
	KindSummary     Kind = "summary"
	KindTest        Kind = "test"
)

// Result reports the outcome of one send.
type Result struct {
	Kind    Kind   `json:"kind"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Config configures the webhook target and alert triggers.
type Config struct {
	WebhookURL           string
	Channel              string
	Username             string
	SendSummary          bool
	CostSpikeThreshold   float64
	HighSavingsThreshold float64
}

type postFunc func(ctx context.Context, url string, msg *slack.WebhookMessage) error

// Notifier posts cost alerts to a Slack incoming webhook.
type Notifier struct {
	cfg  Config
	post postFunc
}

// New creates a notifier for the configured webhook.
func New(cfg Config) *Notifier {
	if cfg.Username == "" {
		cfg.Username = defaultUsername
	}
	return &Notifier{cfg: cfg, post: slack.PostWebhookContext}
}

// Dispatch sends every alert whose trigger matches the result. Failures are
// logged and returned; they never stop the remaining sends.
func (n *Notifier) Dispatch(ctx context.Context, result *analyzer.AnalysisResult) []Result {
	var results []Result

	points := result.CostTrend.DailyCosts
	change, ok := analyzer.LatestChange(points)
	if ok && change.GreaterThan(decimal.NewFromFloat(n.cfg.CostSpikeThreshold)) {
		latest, previous := points[len(points)-1], points[len(points)-2]
		results = append(results, n.SendCostSpikeAlert(ctx, CostSpike{
			Date:            latest.Date,
			IncreasePercent: change.Round(2).InexactFloat64(),
			CurrentCost:     latest.Cost,
			PreviousCost:    previous.Cost,
		}))
	}

	if result.Summary.MonthlySavings > n.cfg.HighSavingsThreshold {
		results = append(results, n.SendHighSavingsAlert(ctx, result.Summary))
	}

	if n.cfg.SendSummary {
		results = append(results, n.SendSummary(ctx, result.Summary))
	}

	for _, r := range results {
		if r.Success {
			slog.Info("Slack notification sent", "kind", r.Kind)
		} else {
			slog.Warn("Slack notification failed", "kind", r.Kind, "error", r.Error)
		}
	}
	return results
}

// CostSpike describes the latest day-over-day increase.
type CostSpike struct {
	Date            string
	IncreasePercent float64
	CurrentCost     float64
	PreviousCost    float64
}

// SendCostSpikeAlert reports a jump in daily spend.
func (n *Notifier) SendCostSpikeAlert(ctx context.Context, spike CostSpike) Result {
	msg := n.message(":rotating_light: *AWS cost spike detected*", slack.Attachment{
		Color:    colorDanger,
		Fallback: fmt.Sprintf("Cost spike of %.1f%% on %s", spike.IncreasePercent, spike.Date),
		Fields: []slack.AttachmentField{
			{Title: "Date", Value: spike.Date, Short: true},
			{Title: "Increase", Value: fmt.Sprintf("%.1f%%", spike.IncreasePercent), Short: true},
			{Title: "Current Cost", Value: formatCost(spike.CurrentCost), Short: true},
			{Title: "Previous Cost", Value: formatCost(spike.PreviousCost), Short: true},
		},
	})
	return n.send(ctx, KindCostSpike, msg)
}

// SendHighSavingsAlert reports large potential savings with the contributing
// categories ranked by savings.
func (n *Notifier) SendHighSavingsAlert(ctx context.Context, summary analyzer.Summary) Result {
	var lines []string
	for i, c := range analyzer.RankCategories(summary.Categories) {
		lines = append(lines, fmt.Sprintf("%d. %s: %s/month (%d)", i+1, c.Label, formatCost(c.MonthlySavings), c.Count))
	}

	msg := n.message(":moneybag: *High savings opportunity*", slack.Attachment{
		Color:    colorWarning,
		Fallback: fmt.Sprintf("Potential savings of %s/month", formatCost(summary.MonthlySavings)),
		Fields: []slack.AttachmentField{
			{Title: "Monthly Savings", Value: formatCost(summary.MonthlySavings), Short: true},
			{Title: "Yearly Savings", Value: formatCost(summary.YearlySavings), Short: true},
			{Title: "Total Issues", Value: fmt.Sprintf("%d", summary.TotalIssues), Short: true},
			{Title: "Top Issues", Value: strings.Join(lines, "\n")},
		},
	})
	return n.send(ctx, KindHighSavings, msg)
}

// SendSummary reports totals and the issue count of every non-empty category.
func (n *Notifier) SendSummary(ctx context.Context, summary analyzer.Summary) Result {
	fields := []slack.AttachmentField{
		{Title: "Total Issues", Value: fmt.Sprintf("%d", summary.TotalIssues), Short: true},
		{Title: "Monthly Savings", Value: formatCost(summary.MonthlySavings), Short: true},
		{Title: "Yearly Savings", Value: formatCost(summary.YearlySavings), Short: true},
	}
	for _, c := range summary.Categories {
		if c.Count == 0 {
			continue
		}
		fields = append(fields, slack.AttachmentField{Title: c.Label, Value: fmt.Sprintf("%d", c.Count), Short: true})
	}

	msg := n.message(":bar_chart: *AWS cost analysis summary*", slack.Attachment{
		Color:    colorGood,
		Fallback: fmt.Sprintf("%d issues, %s/month potential savings", summary.TotalIssues, formatCost(summary.MonthlySavings)),
		Fields:   fields,
	})
	return n.send(ctx, KindSummary, msg)
}

// TestConnection posts a short message to verify the webhook.
func (n *Notifier) TestConnection(ctx context.Context) Result {
	msg := n.message(":white_check_mark: costspectre connected to Slack successfully")
	return n.send(ctx, KindTest, msg)
}

func (n *Notifier) message(text string, attachments ...slack.Attachment) *slack.WebhookMessage {
	return &slack.WebhookMessage{
		Channel:     n.cfg.Channel,
		Username:    n.cfg.Username,
		Text:        text,
		Attachments: attachments,
	}
}

func (n *Notifier) send(ctx context.Context, kind Kind, msg *slack.WebhookMessage) Result {
	if n.cfg.WebhookURL == "" {
		return Result{Kind: kind, Error: "slack webhook URL not configured"}
	}
	if err := n.post(ctx, n.cfg.WebhookURL, msg); err != nil {
		return Result{Kind: kind, Error: fmt.Sprintf("post %s notification: %v", kind, err)}
	}
	return Result{Kind: kind, Success: true}
}

func formatCost(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
