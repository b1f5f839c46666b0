package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SafeDiv divides num by den and yields zero when den is zero.
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Percent is SafeDiv scaled to 0..100.
func Percent(num, den decimal.Decimal) decimal.Decimal {
	return SafeDiv(num, den).Mul(hundred)
}
