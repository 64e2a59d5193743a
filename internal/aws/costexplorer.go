package aws

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/ppiankov/costspectre/internal/pricing"
	"github.com/shopspring/decimal"
)

const (
	// CostExplorerRegion is the only region serving the Cost Explorer API.
	CostExplorerRegion = "us-east-1"
	// DefaultTrendDays is the trailing window for the daily cost trend.
	DefaultTrendDays = 30
	// serviceBreakdownDays is the trailing window for the per-service breakdown.
	serviceBreakdownDays = 30

	costMetric = "UnblendedCost"
)

// CostExplorerAPI is the minimal interface for billing queries.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, input *costexplorer.GetCostAndUsageInput, opts ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// CostFetcher queries daily and per-service spend from Cost Explorer.
type CostFetcher struct {
	client CostExplorerAPI
	now    func() time.Time
}

// NewCostFetcher creates a fetcher using the given Cost Explorer client.
func NewCostFetcher(client CostExplorerAPI) *CostFetcher {
	return &CostFetcher{client: client, now: time.Now}
}

// FetchTrend returns total daily spend for the trailing window, ordered by date,
// together with the window total.
func (f *CostFetcher) FetchTrend(ctx context.Context, days int) (*CostTrend, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}

	results, err := f.query(ctx, days, cetypes.GranularityDaily, nil)
	if err != nil {
		return nil, fmt.Errorf("get daily cost and usage: %w", err)
	}

	trend := &CostTrend{DailyCosts: make([]CostTrendPoint, 0, len(results))}
	total := decimal.Zero
	for _, r := range results {
		amount, err := metricAmount(r.Total)
		if err != nil {
			return nil, err
		}
		total = total.Add(amount)
		trend.DailyCosts = append(trend.DailyCosts, CostTrendPoint{
			Date: periodStart(r.TimePeriod),
			Cost: pricing.RoundDecimal(amount),
		})
	}

	sort.SliceStable(trend.DailyCosts, func(i, j int) bool {
		return trend.DailyCosts[i].Date < trend.DailyCosts[j].Date
	})
	trend.TotalCost = pricing.RoundDecimal(total)

	slog.Debug("Fetched cost trend", "days", days, "points", len(trend.DailyCosts), "total", trend.TotalCost)
	return trend, nil
}

// FetchServiceBreakdown returns spend grouped by service for the trailing 30 days.
// Monthly buckets spanning the window are summed per service.
func (f *CostFetcher) FetchServiceBreakdown(ctx context.Context) ([]ServiceCost, error) {
	groupBy := []cetypes.GroupDefinition{
		{Type: cetypes.GroupDefinitionTypeDimension, Key: awssdk.String("SERVICE")},
	}
	results, err := f.query(ctx, serviceBreakdownDays, cetypes.GranularityMonthly, groupBy)
	if err != nil {
		return nil, fmt.Errorf("get service cost breakdown: %w", err)
	}

	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, r := range results {
		for _, g := range r.Groups {
			if len(g.Keys) == 0 {
				continue
			}
			amount, err := metricAmount(g.Metrics)
			if err != nil {
				return nil, err
			}
			name := g.Keys[0]
			if _, seen := totals[name]; !seen {
				order = append(order, name)
			}
			totals[name] = totals[name].Add(amount)
		}
	}

	services := make([]ServiceCost, 0, len(order))
	for _, name := range order {
		services = append(services, ServiceCost{Service: name, Cost: pricing.RoundDecimal(totals[name])})
	}
	sort.SliceStable(services, func(i, j int) bool {
		return services[i].Cost > services[j].Cost
	})
	return services, nil
}

func (f *CostFetcher) query(ctx context.Context, days int, granularity cetypes.Granularity, groupBy []cetypes.GroupDefinition) ([]cetypes.ResultByTime, error) {
	end := f.now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -days)

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: awssdk.String(start.Format(time.DateOnly)),
			End:   awssdk.String(end.Format(time.DateOnly)),
		},
		Granularity: granularity,
		Metrics:     []string{costMetric},
		GroupBy:     groupBy,
	}

	var results []cetypes.ResultByTime
	for {
		out, err := f.client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, err
		}
		results = append(results, out.ResultsByTime...)
		if out.NextPageToken == nil || *out.NextPageToken == "" {
			break
		}
		input.NextPageToken = out.NextPageToken
	}
	return results, nil
}

func metricAmount(metrics map[string]cetypes.MetricValue) (decimal.Decimal, error) {
	mv, ok := metrics[costMetric]
	if !ok {
		return decimal.Zero, nil
	}
	return pricing.ParseAmount(deref(mv.Amount))
}

func periodStart(p *cetypes.DateInterval) string {
	if p == nil {
		return ""
	}
	return deref(p.Start)
}
