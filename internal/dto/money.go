package dto

import "github.com/shopspring/decimal"

// Money renders integer minor units as a fixed two-decimal string, e.g. 2500 -> "25.00".
func Money(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseMoney turns "25", "25.5" or "25.00" into minor units. More than two
// decimal places is rejected.
func ParseMoney(s string) (int64, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0, false
	}
	shifted := d.Shift(2)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, false
	}
	return shifted.IntPart(), true
}
