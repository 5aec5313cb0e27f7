package gear

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var kilogram = decimal.NewFromInt(1000)

// FormatWeight renders grams for display: one kilogram and up switches to
// kilograms with two decimals, anything lighter stays in whole grams.
func FormatWeight(grams decimal.Decimal) string {
	if grams.GreaterThanOrEqual(kilogram) {
		return fmt.Sprintf("%s kg", grams.DivRound(kilogram, 2).StringFixed(2))
	}
	return fmt.Sprintf("%s g", grams.Round(0).String())
}

// categoryWeight totals weight times quantity across the category's items.
func categoryWeight(items []GearItemDTO) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Weight.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
