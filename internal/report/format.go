package report

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money displays v as US dollars rounded to cents.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	cents := decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// Percent displays a ratio as a percentage with places decimals.
func Percent(ratio float64, places int32) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(ratio).Shift(2).StringFixed(places) + "%"
}

// Fixed rounds v to places decimals.
func Fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
