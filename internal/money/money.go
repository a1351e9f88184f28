// Package money converts decimal currency amounts to integer minor
// units so aggregation never accumulates floating-point drift. All
// summation happens in cents; decimals reappear only at presentation
// boundaries.
package money

import "github.com/shopspring/decimal"

// ToCents converts a decimal amount to minor units, rounding half away
// from zero to the nearest cent.
func ToCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromCents converts minor units back to a decimal amount.
func FromCents(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Float64()
	return f
}

// SumCents sums minor-unit values exactly.
func SumCents(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

// RoundAmount rounds a decimal amount to two fractional digits.
func RoundAmount(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}
