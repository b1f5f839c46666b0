package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day or location.
type Date struct {
	y int
	m time.Month
	d int
}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y: y, m: m, d: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Time() time.Time    { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }
func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }
func (d Date) After(o Date) bool  { return d.Time().After(o.Time()) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

// Value stores dates as YYYY-MM-DD text, which both MySQL DATE columns and
// SQLite text comparison understand.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v.UTC())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	p, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	p, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// Range is an inclusive span of dates.
type Range struct{ From, To Date }

// YearRange covers January 1st to December 31st of year.
func YearRange(year int) Range {
	return Range{From: NewDate(year, time.January, 1), To: NewDate(year, time.December, 31)}
}

// MonthRange covers every day of the given month.
func MonthRange(year int, month time.Month) Range {
	first := NewDate(year, month, 1)
	return Range{From: first, To: DateOf(first.Time().AddDate(0, 1, -1))}
}

func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Days is the number of calendar days in the range, 0 when To precedes From.
func (r Range) Days() int {
	if r.To.Before(r.From) {
		return 0
	}
	return int(r.To.Time().Sub(r.From.Time()).Hours()/24) + 1
}

// Dates lists every date of the range in ascending order.
func (r Range) Dates() []Date {
	n := r.Days()
	out := make([]Date, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.From.AddDays(i))
	}
	return out
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
