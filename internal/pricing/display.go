package pricing

import "github.com/shopspring/decimal"

// Display rounds a monetary value to whole currency units, half away from zero.
// Only presentation code should call it.
func Display(v float64) int64 {
	return decimal.NewFromFloat(v).Round(0).IntPart()
}
