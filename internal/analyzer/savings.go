package analyzer

import (
	"cmp"
	"slices"

	awstype "github.com/ppiankov/costspectre/internal/aws"
	"github.com/ppiankov/costspectre/internal/pricing"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Severity thresholds on total monthly savings.
const (
	highSeverityMonthly   = 500.0
	mediumSeverityMonthly = 100.0
)

const monthsPerYear = 12

// MonthlySavings sums the monthly cost of every finding.
func MonthlySavings(findings []awstype.Finding) float64 {
	total := lo.Reduce(findings, func(acc decimal.Decimal, f awstype.Finding, _ int) decimal.Decimal {
		return acc.Add(decimal.NewFromFloat(f.MonthlyCost))
	}, decimal.Zero)
	return pricing.RoundDecimal(total)
}

// YearlySavings projects monthly savings over a year.
func YearlySavings(monthly float64) float64 {
	return pricing.RoundDecimal(decimal.NewFromFloat(monthly).Mul(decimal.NewFromInt(monthsPerYear)))
}

// SeverityFor classifies monthly savings.
func SeverityFor(monthly float64) Severity {
	switch {
	case monthly >= highSeverityMonthly:
		return SeverityHigh
	case monthly >= mediumSeverityMonthly:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// RankCategories returns the categories with findings, highest savings first.
func RankCategories(categories []CategorySummary) []CategorySummary {
	ranked := lo.Filter(categories, func(c CategorySummary, _ int) bool {
		return c.Count > 0
	})
	slices.SortStableFunc(ranked, func(a, b CategorySummary) int {
		return cmp.Compare(b.MonthlySavings, a.MonthlySavings)
	})
	return ranked
}
