package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Round rounds a currency amount to cents. Negative amounts clamp to zero.
func Round(v float64) float64 {
	return RoundDecimal(decimal.NewFromFloat(v))
}

// RoundDecimal rounds d to cents and converts it to float64, clamping negatives to zero.
func RoundDecimal(d decimal.Decimal) float64 {
	if d.IsNegative() {
		return 0
	}
	return d.Round(2).InexactFloat64()
}

// ParseAmount parses a billing amount string such as "12.3456789".
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
