package sqldb

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of decimal places every stored amount keeps.
const moneyScale = 2

// money converts an amount to its column representation: integer cents on
// dialects without a fixed-point type, a fixed-point string otherwise. Both
// round to cents, so reading back never yields more precision than was summed.
func (d Dialect) money(v decimal.Decimal) any {
	if d.centsMoney {
		return v.Shift(moneyScale).Round(0).IntPart()
	}
	return v.StringFixed(moneyScale)
}

// scanMoney is the Scan destination matching money.
func (d Dialect) scanMoney(dst *decimal.Decimal) sql.Scanner {
	return moneyDest{dst: dst, cents: d.centsMoney}
}

type moneyDest struct {
	dst   *decimal.Decimal
	cents bool
}

func (m moneyDest) Scan(src any) error {
	var v decimal.Decimal
	if err := v.Scan(src); err != nil {
		return err
	}
	if m.cents {
		v = v.Shift(-moneyScale)
	}
	*m.dst = v
	return nil
}
