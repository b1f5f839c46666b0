// Package xlsx reads and writes the ledger's spreadsheets with excelize.
package xlsx

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"rental_ledger/internal/domain"
)

const (
	IncomeSheet   = "Income"
	ExpensesSheet = "Expenses"
	SummarySheet  = "Summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type styles struct {
	header int
	money  int
	total  int
}

func newStyles(f *excelize.File) (styles, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	var s styles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1E3A5F"}},
		Border: thin,
	}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil {
		return s, err
	}
	s.total, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})
	return s, err
}

// Export writes the Income, Expenses and Summary sheets for d.
func Export(w io.Writer, d domain.ExportData) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("styles: %w", err)
	}
	if err := f.SetSheetName("Sheet1", IncomeSheet); err != nil {
		return err
	}
	for _, name := range []string{ExpensesSheet, SummarySheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	if err := writeIncome(f, st, d); err != nil {
		return fmt.Errorf("income sheet: %w", err)
	}
	if err := writeExpenses(f, st, d); err != nil {
		return fmt.Errorf("expenses sheet: %w", err)
	}
	if err := writeSummary(f, st, d); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

// Filename is the attachment name for an export over f.
func Filename(f domain.Filter) string {
	return fmt.Sprintf("Rentals_Report_%s_to_%s.xlsx", f.Range.From, f.Range.To)
}

func writeIncome(f *excelize.File, st styles, d domain.ExportData) error {
	sh := IncomeSheet
	if err := header(f, st, sh, 1, "Date", "Property", "Price USD", "Origin", "Guest"); err != nil {
		return err
	}
	row := 2
	for _, in := range d.Income {
		if err := setRow(f, sh, row, in.Date.String(), in.Property, money(in.Price), in.Origin.String(), in.Note); err != nil {
			return err
		}
		row++
	}
	if err := totalRow(f, st, sh, row+1, "TOTAL", "", money(d.IncomeTotal), "", ""); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh, "C2", cell("C", row), st.money); err != nil {
		return err
	}
	return widths(f, sh, 12, 15, 12, 12, 25)
}

func writeExpenses(f *excelize.File, st styles, d domain.ExportData) error {
	sh := ExpensesSheet
	if err := header(f, st, sh, 1, "Date", "Property", "Category", "Amount USD", "Description"); err != nil {
		return err
	}
	row := 2
	for _, e := range d.Expenses {
		if err := setRow(f, sh, row, e.Date.String(), e.Property, e.Category, money(e.Amount), e.Description); err != nil {
			return err
		}
		row++
	}
	if err := totalRow(f, st, sh, row+1, "TOTAL", "", "", money(d.ExpenseTotal), ""); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh, "D2", cell("D", row), st.money); err != nil {
		return err
	}
	return widths(f, sh, 12, 15, 15, 12, 30)
}

func writeSummary(f *excelize.File, st styles, d domain.ExportData) error {
	sh := SummarySheet
	property := d.Filter.Property
	if property == "" {
		property = "All"
	}
	if err := setRow(f, sh, 1, fmt.Sprintf("Period: %s to %s", d.Filter.Range.From, d.Filter.Range.To)); err != nil {
		return err
	}
	if err := setRow(f, sh, 2, "Property: "+property); err != nil {
		return err
	}
	if err := header(f, st, sh, 4,
		"Property", "Nightly income", "Rent income", "Income", "Nights", "Avg ticket",
		"Expenses", "Profit", "Margin %", "Occupancy %"); err != nil {
		return err
	}
	row := 5
	for _, m := range d.Metrics {
		if err := setRow(f, sh, row, metricCells(m)...); err != nil {
			return err
		}
		row++
	}
	t := metricCells(d.MetricsTotals)
	t[0] = "TOTAL"
	if err := totalRow(f, st, sh, row+1, t...); err != nil {
		return err
	}
	return widths(f, sh, 14, 14, 14, 14, 14, 14, 14, 14, 14, 14)
}

func metricCells(m domain.PropertyMetrics) []any {
	return []any{
		m.Property,
		money(m.NightlyIncome),
		money(m.RentIncome),
		money(m.Income),
		m.Nights,
		money(m.AvgNightlyRate),
		money(m.Expense),
		money(m.Profit),
		pct(m.ProfitMargin),
		pct(m.OccupancyRate),
	}
}

/********** cell helpers **********/

func cell(col string, row int) string { return fmt.Sprintf("%s%d", col, row) }

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	return f.SetSheetRow(sheet, cell("A", row), &values)
}

func header(f *excelize.File, st styles, sheet string, row int, names ...string) error {
	vals := make([]any, len(names))
	for i, n := range names {
		vals[i] = n
	}
	if err := f.SetSheetRow(sheet, cell("A", row), &vals); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(names), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell("A", row), last, st.header)
}

func totalRow(f *excelize.File, st styles, sheet string, row int, values ...any) error {
	if err := setRow(f, sheet, row, values...); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell("A", row), last, st.total)
}

func widths(f *excelize.File, sheet string, ws ...float64) error {
	for i, w := range ws {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func money(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

func pct(d decimal.Decimal) float64 { return d.Shift(2).Round(1).InexactFloat64() }
