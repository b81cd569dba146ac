package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places money is kept at.
const Places = 2

// MinShare is the smallest amount handed to a non-final recipient.
var MinShare = decimal.New(10, -Places)

// Truncate drops everything past the cent, toward zero.
func Truncate(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(Places)
}

var halfCent = decimal.New(5, -(Places + 1))

// Round rounds to the cent, halves up toward positive infinity,
// so -0.005 becomes 0.00 and 1.235 becomes 1.24.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Add(halfCent).RoundFloor(Places)
}

// Parse reads a decimal amount such as "100" or "12.34".
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// Format renders an amount with exactly two decimals.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Sum adds up amounts.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
