package analyzer

import (
	"fmt"
	"testing"

	awstype "github.com/ppiankov/costspectre/internal/aws"
	"github.com/shopspring/decimal"
)

func points(costs ...float64) []awstype.CostTrendPoint {
	out := make([]awstype.CostTrendPoint, len(costs))
	for i, c := range costs {
		out[i] = awstype.CostTrendPoint{Date: fmt.Sprintf("2026-02-%02d", i+1), Cost: c}
	}
	return out
}

func TestDetectSpikes(t *testing.T) {
	tests := []struct {
		name      string
		costs     []float64
		threshold float64
		wantIdx   []int
		wantPct   []float64
	}{
		{"third day spike", []float64{100, 100, 140}, 30, []int{2}, []float64{40}},
		{"exactly at threshold", []float64{100, 130}, 30, []int{1}, []float64{30}},
		{"just below threshold", []float64{100, 129.99}, 30, nil, nil},
		{"after zero day", []float64{0, 50, 50}, 30, nil, nil},
		{"decrease", []float64{200, 100}, 30, nil, nil},
		{"multiple in order", []float64{10, 20, 20, 40}, 50, []int{1, 3}, []float64{100, 100}},
		{"rounded percent", []float64{30, 40}, 30, []int{1}, []float64{33.33}},
		{"single point", []float64{100}, 30, nil, nil},
		{"empty", nil, 30, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := points(tt.costs...)
			spikes := DetectSpikes(pts, tt.threshold)
			if len(spikes) != len(tt.wantIdx) {
				t.Fatalf("expected %d spikes, got %d: %+v", len(tt.wantIdx), len(spikes), spikes)
			}
			for i, idx := range tt.wantIdx {
				if spikes[i].Date != pts[idx].Date {
					t.Fatalf("spike %d: expected date %s, got %s", i, pts[idx].Date, spikes[i].Date)
				}
				if spikes[i].IncreasePercent != tt.wantPct[i] {
					t.Fatalf("spike %d: expected %.2f%%, got %f", i, tt.wantPct[i], spikes[i].IncreasePercent)
				}
				if spikes[i].Cost != pts[idx].Cost || spikes[i].PreviousCost != pts[idx-1].Cost {
					t.Fatalf("spike %d: unexpected costs %+v", i, spikes[i])
				}
			}
		})
	}
}

func TestLatestChange(t *testing.T) {
	tests := []struct {
		name   string
		costs  []float64
		want   string
		wantOK bool
	}{
		{"increase", []float64{50, 100, 150}, "50", true},
		{"decrease", []float64{100, 80}, "-20", true},
		{"not rounded", []float64{100, 130.004}, "30.004", true},
		{"zero previous", []float64{100, 0, 10}, "0", false},
		{"single point", []float64{10}, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LatestChange(points(tt.costs...))
			want := decimal.RequireFromString(tt.want)
			if ok != tt.wantOK || !got.Equal(want) {
				t.Fatalf("LatestChange = (%s, %v), want (%s, %v)", got, ok, want, tt.wantOK)
			}
		})
	}
}

func TestForecast(t *testing.T) {
	tests := []struct {
		name  string
		costs []float64
		want  float64
	}{
		{"mean times thirty", []float64{10, 20, 30}, 600},
		{"empty", nil, 0},
		{"rounded", []float64{0.01, 0.02}, 0.45},
		{"uneven mean", []float64{1, 2}, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Forecast(points(tt.costs...)); got != tt.want {
				t.Fatalf("Forecast = %f, want %f", got, tt.want)
			}
		})
	}
}
