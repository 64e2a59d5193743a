package analyzer

import (
	awstype "github.com/ppiankov/costspectre/internal/aws"
	"github.com/ppiankov/costspectre/internal/pricing"
	"github.com/shopspring/decimal"
)


const forecastDays = 30

var hundred = decimal.NewFromInt(100)

// percentChange returns the increase from prev to cur in percent.
// ok is false when prev is not positive.
func percentChange(prev, cur float64) (decimal.Decimal, bool) {
	if prev <= 0 {
		return decimal.Zero, false
	}
	p := decimal.NewFromFloat(prev)
	c := decimal.NewFromFloat(cur)
	return c.Sub(p).Div(p).Mul(hundred), true
}

// DetectSpikes flags every consecutive pair whose percent change is at least
// threshold. Pairs following a zero-cost day are skipped.
func DetectSpikes(points []awstype.CostTrendPoint, threshold float64) []CostSpike {
	limit := decimal.NewFromFloat(threshold)
	var spikes []CostSpike
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		change, ok := percentChange(prev.Cost, cur.Cost)
		if !ok || change.LessThan(limit) {
			continue
		}
		spikes = append(spikes, CostSpike{
			Date:            cur.Date,
			IncreasePercent: change.Round(2).InexactFloat64(),
			Cost:            cur.Cost,
			PreviousCost:    prev.Cost,
		})
	}
	return spikes
}

// LatestChange returns the exact percent change between the last two points.
// Callers compare the unrounded value and round only for display.
func LatestChange(points []awstype.CostTrendPoint) (decimal.Decimal, bool) {
	if len(points) < 2 {
		return decimal.Zero, false
	}
	return percentChange(points[len(points)-2].Cost, points[len(points)-1].Cost)
}

// Forecast projects 30 days of spend from the mean daily cost.
func Forecast(points []awstype.CostTrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	total := decimal.Zero
	for _, p := range points {
		total = total.Add(decimal.NewFromFloat(p.Cost))
	}
	avg := total.Div(decimal.NewFromInt(int64(len(points))))
	return pricing.RoundDecimal(avg.Mul(decimal.NewFromInt(forecastDays)))
}
