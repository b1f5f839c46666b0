package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rental_ledger/internal/domain"
)

/********** flexible cell parsers **********/

// dateLayouts are tried in order; day-first slashes match how the workbooks
// are filled in.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"2006/01/02",
}

// parseDateFlexible accepts the date spellings found in spreadsheet cells.
func parseDateFlexible(s string) (domain.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.DateOf(t), nil
		}
	}
	return domain.Date{}, fmt.Errorf("unrecognised date %q", s)
}

// parsePriceFlexible accepts "1234.5", "1234,5" and "$1,234.50". A comma is a
// decimal separator only when it is the sole separator and is followed by one
// or two digits.
func parsePriceFlexible(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(s, "USD"), "US"))
	if s == "" {
		return decimal.Zero, nil
	}
	if i := strings.LastIndexByte(s, ','); i >= 0 && !strings.Contains(s, ".") && len(s)-i-1 <= 2 {
		s = s[:i] + "." + s[i+1:]
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unrecognised price %q", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %q", raw)
	}
	return d, nil
}
