package xlsx_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rental_ledger/internal/adapters/xlsx"
	"rental_ledger/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestExport_SheetsAndTotals(t *testing.T) {
	data := domain.ExportData{
		Filter: domain.Filter{Range: domain.YearRange(2024), Property: "TIDES 14 B"},
		Income: []domain.IncomeDetail{
			{Date: domain.NewDate(2024, 1, 10), Property: "TIDES 14 B", Price: dec("120"), Origin: "Owner", Note: "Ann"},
			{Date: domain.NewDate(2024, 1, 11), Property: "TIDES 14 B", Price: dec("130"), Origin: "Alicia"},
		},
		Expenses: []domain.ExpenseDetail{
			{Date: domain.NewDate(2024, 6, 30), Property: domain.GeneralLabel, Category: "accounting", Amount: dec("500")},
		},
		Metrics: []domain.PropertyMetrics{
			{Property: "TIDES 14 B", NightlyIncome: dec("250"), Income: dec("250"), Nights: 2, Profit: dec("250"), ProfitMargin: dec("1")},
		},
		IncomeTotal:   dec("250"),
		ExpenseTotal:  dec("500"),
		MetricsTotals: domain.PropertyMetrics{Property: "TOTAL", Income: dec("250"), Nights: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, xlsx.Export(&buf, data))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{xlsx.IncomeSheet, xlsx.ExpensesSheet, xlsx.SummarySheet}, f.GetSheetList())

	income, err := f.GetRows(xlsx.IncomeSheet)
	require.NoError(t, err)
	require.Len(t, income, 5, "header, two rows, blank, total")
	assert.Equal(t, "Date", income[0][0])
	assert.Equal(t, "2024-01-10", income[1][0])
	assert.Equal(t, "TOTAL", income[4][0])
	total, err := f.GetCellValue(xlsx.IncomeSheet, "C5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "250", total)

	expenses, err := f.GetRows(xlsx.ExpensesSheet)
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", expenses[len(expenses)-1][0])

	summary, err := f.GetRows(xlsx.SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, "Period: 2024-01-01 to 2024-12-31", summary[0][0])
	assert.Equal(t, "Property: TIDES 14 B", summary[1][0])
	assert.Equal(t, "Property", summary[3][0])
	assert.Equal(t, "TIDES 14 B", summary[4][0])
	assert.Equal(t, "TOTAL", summary[len(summary)-1][0])

	width, err := f.GetColWidth(xlsx.ExpensesSheet, "E")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)
}

func TestReader_RowsFromRowFive(t *testing.T) {
	f := excelize.NewFile()
	sh := "Sheet1"
	require.NoError(t, f.SetCellValue(sh, "A1", "title"))
	require.NoError(t, f.SetSheetRow(sh, "A4", &[]any{"Property", "Date", "Price", "Guest"}))
	require.NoError(t, f.SetSheetRow(sh, "A5", &[]any{"TIDES 14 B", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), 150, "Ann"}))
	require.NoError(t, f.SetSheetRow(sh, "A6", &[]any{"TIDES 5 L", "10/03/2024", "99,5"}))
	require.NoError(t, f.SetSheetRow(sh, "A8", &[]any{"Brickell", "2024-03-11"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	r, err := xlsx.Open(&buf)
	require.NoError(t, err)
	defer r.Close()
	rows, err := r.Rows()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, domain.ImportRow{Row: 5, Property: "TIDES 14 B", Date: "2024-03-09", Price: "150", Guest: "Ann"}, rows[0])
	assert.Equal(t, domain.ImportRow{Row: 6, Property: "TIDES 5 L", Date: "10/03/2024", Price: "99,5"}, rows[1])
	assert.Equal(t, domain.ImportRow{Row: 7}, rows[2])
	assert.Equal(t, "Brickell", rows[3].Property)
}

func TestTemplate_HeaderAtRowFour(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, xlsx.Template(&buf, []string{"TIDES 14 B", "Brickell"}))

	r, err := xlsx.Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer r.Close()
	rows, err := r.Rows()
	require.NoError(t, err)
	assert.Empty(t, rows, "template carries no data rows")

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Occupancy", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Property", v)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Rentals_Report_2024-01-01_to_2024-12-31.xlsx", xlsx.Filename(domain.Filter{Range: domain.YearRange(2024)}))
}
