package money

import (
	"github.com/shopspring/decimal"
)

// This package is the exclusive boundary between user-facing decimal amounts
// and the integer minor-unit amounts stored everywhere else. No other package
// performs decimal or float arithmetic on money.

// minorDigits is the number of decimal places of the minor unit.
const minorDigits = 2

// ToMinorUnits converts a display amount in major units to integer minor
// units, rounding to the nearest minor unit (half up).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(minorDigits).Round(0).IntPart()
}

// ToDecimal converts stored minor units back to a display amount.
func ToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -minorDigits)
}

// Format renders minor units as a fixed two-decimal string, with a leading
// minus sign for negative amounts (e.g. -30000 -> "-300.00").
func Format(minor int64) string {
	return ToDecimal(minor).StringFixed(minorDigits)
}
