package aws

import (
	"context"
	"fmt"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
)

type mockCostExplorerClient struct {
	pages  []*costexplorer.GetCostAndUsageOutput
	inputs []costexplorer.GetCostAndUsageInput
	err    error
}

func (m *mockCostExplorerClient) GetCostAndUsage(_ context.Context, input *costexplorer.GetCostAndUsageInput, _ ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	m.inputs = append(m.inputs, *input)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.pages) == 0 {
		return &costexplorer.GetCostAndUsageOutput{}, nil
	}
	out := m.pages[0]
	m.pages = m.pages[1:]
	return out, nil
}

func dailyResult(date, amount string) cetypes.ResultByTime {
	return cetypes.ResultByTime{
		TimePeriod: &cetypes.DateInterval{Start: awssdk.String(date)},
		Total:      map[string]cetypes.MetricValue{"UnblendedCost": {Amount: awssdk.String(amount), Unit: awssdk.String("USD")}},
	}
}

func serviceGroup(service, amount string) cetypes.Group {
	return cetypes.Group{
		Keys:    []string{service},
		Metrics: map[string]cetypes.MetricValue{"UnblendedCost": {Amount: awssdk.String(amount), Unit: awssdk.String("USD")}},
	}
}

func newTestCostFetcher(client CostExplorerAPI) *CostFetcher {
	f := NewCostFetcher(client)
	f.now = func() time.Time { return fixedNow }
	return f
}

func TestFetchTrend(t *testing.T) {
	mock := &mockCostExplorerClient{pages: []*costexplorer.GetCostAndUsageOutput{
		{ResultsByTime: []cetypes.ResultByTime{
			dailyResult("2026-02-03", "140.004"),
			dailyResult("2026-02-01", "100.0049"),
			dailyResult("2026-02-02", "99.996"),
		}},
	}}

	trend, err := newTestCostFetcher(mock).FetchTrend(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(trend.DailyCosts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(trend.DailyCosts))
	}
	wantDates := []string{"2026-02-01", "2026-02-02", "2026-02-03"}
	wantCosts := []float64{100.0, 100.0, 140.0}
	for i, p := range trend.DailyCosts {
		if p.Date != wantDates[i] {
			t.Fatalf("point %d: expected date %s, got %s", i, wantDates[i], p.Date)
		}
		if p.Cost != wantCosts[i] {
			t.Fatalf("point %d: expected cost %.2f, got %f", i, wantCosts[i], p.Cost)
		}
	}
	// 100.0049 + 99.996 + 140.004 = 340.0049
	if trend.TotalCost != 340.0 {
		t.Fatalf("expected total 340.00, got %f", trend.TotalCost)
	}

	in := mock.inputs[0]
	if in.Granularity != cetypes.GranularityDaily {
		t.Fatalf("expected DAILY granularity, got %s", in.Granularity)
	}
	if *in.TimePeriod.Start != "2026-01-30" || *in.TimePeriod.End != "2026-03-01" {
		t.Fatalf("unexpected window %s..%s", *in.TimePeriod.Start, *in.TimePeriod.End)
	}
	if len(in.Metrics) != 1 || in.Metrics[0] != "UnblendedCost" {
		t.Fatalf("expected UnblendedCost metric, got %v", in.Metrics)
	}
}

func TestFetchTrend_Pagination(t *testing.T) {
	mock := &mockCostExplorerClient{pages: []*costexplorer.GetCostAndUsageOutput{
		{
			ResultsByTime: []cetypes.ResultByTime{dailyResult("2026-02-01", "10")},
			NextPageToken: awssdk.String("next"),
		},
		{ResultsByTime: []cetypes.ResultByTime{dailyResult("2026-02-02", "20")}},
	}}

	trend, err := newTestCostFetcher(mock).FetchTrend(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.inputs) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(mock.inputs))
	}
	if mock.inputs[1].NextPageToken == nil || *mock.inputs[1].NextPageToken != "next" {
		t.Fatal("expected second call to carry the page token")
	}
	if len(trend.DailyCosts) != 2 || trend.TotalCost != 30 {
		t.Fatalf("unexpected trend: %+v", trend)
	}
}

func TestFetchTrend_Empty(t *testing.T) {
	trend, err := newTestCostFetcher(&mockCostExplorerClient{}).FetchTrend(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trend.DailyCosts) != 0 || trend.TotalCost != 0 {
		t.Fatalf("expected empty trend, got %+v", trend)
	}
}

func TestFetchTrend_BadAmount(t *testing.T) {
	mock := &mockCostExplorerClient{pages: []*costexplorer.GetCostAndUsageOutput{
		{ResultsByTime: []cetypes.ResultByTime{dailyResult("2026-02-01", "n/a")}},
	}}

	if _, err := newTestCostFetcher(mock).FetchTrend(context.Background(), 30); err == nil {
		t.Fatal("expected error for unparseable amount")
	}
}

func TestFetchTrend_APIError(t *testing.T) {
	mock := &mockCostExplorerClient{err: fmt.Errorf("DataUnavailableException")}

	if _, err := newTestCostFetcher(mock).FetchTrend(context.Background(), 30); err == nil {
		t.Fatal("expected error")
	}
}

func TestFetchServiceBreakdown(t *testing.T) {
	mock := &mockCostExplorerClient{pages: []*costexplorer.GetCostAndUsageOutput{
		{ResultsByTime: []cetypes.ResultByTime{
			{Groups: []cetypes.Group{
				serviceGroup("Amazon Simple Storage Service", "12.50"),
				serviceGroup("Amazon Elastic Compute Cloud - Compute", "300.10"),
			}},
			{Groups: []cetypes.Group{
				serviceGroup("Amazon Simple Storage Service", "7.50"),
				serviceGroup("AWS Lambda", "0.004"),
			}},
		}},
	}}

	services, err := newTestCostFetcher(mock).FetchServiceBreakdown(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ServiceCost{
		{Service: "Amazon Elastic Compute Cloud - Compute", Cost: 300.10},
		{Service: "Amazon Simple Storage Service", Cost: 20.0},
		{Service: "AWS Lambda", Cost: 0},
	}
	if len(services) != len(want) {
		t.Fatalf("expected %d services, got %d", len(want), len(services))
	}
	for i := range want {
		if services[i] != want[i] {
			t.Fatalf("service %d: expected %+v, got %+v", i, want[i], services[i])
		}
	}

	in := mock.inputs[0]
	if in.Granularity != cetypes.GranularityMonthly {
		t.Fatalf("expected MONTHLY granularity, got %s", in.Granularity)
	}
	if len(in.GroupBy) != 1 || *in.GroupBy[0].Key != "SERVICE" {
		t.Fatalf("expected SERVICE group-by, got %+v", in.GroupBy)
	}
}

func TestFetchServiceBreakdown_APIError(t *testing.T) {
	mock := &mockCostExplorerClient{err: fmt.Errorf("AccessDeniedException")}

	if _, err := newTestCostFetcher(mock).FetchServiceBreakdown(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
