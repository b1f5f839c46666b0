package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ExportData feeds the spreadsheet exporter; every total is precomputed.
type ExportData struct {
	Filter        Filter            `json:"filter"`
	Income        []IncomeDetail    `json:"income"`
	Expenses      []ExpenseDetail   `json:"expenses"`
	Metrics       []PropertyMetrics `json:"metrics"`
	IncomeTotal   decimal.Decimal   `json:"income_total"`
	ExpenseTotal  decimal.Decimal   `json:"expense_total"`
	MetricsTotals PropertyMetrics   `json:"metrics_totals"`
}

// OriginRow is one property's nightly income split by origin, aligned with
// YearReport.Origins.
type OriginRow struct {
	Property string            `json:"property"`
	Color    string            `json:"color"`
	Amounts  []decimal.Decimal `json:"amounts"`
	Total    decimal.Decimal   `json:"total"`
}

type ReportTotals struct {
	NightlyIncome    decimal.Decimal `json:"nightly_income"`
	RentIncome       decimal.Decimal `json:"rent_income"`
	Income           decimal.Decimal `json:"income"`
	Nights           int             `json:"nights"`
	PropertyExpense  decimal.Decimal `json:"property_expense"`
	GeneralExpense   decimal.Decimal `json:"general_expense"`
	Expense          decimal.Decimal `json:"expense"`
	Profit           decimal.Decimal `json:"profit"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"`
	OwnerIncome      decimal.Decimal `json:"owner_income"`
	ThirdPartyIncome decimal.Decimal `json:"third_party_income"`
	OwnerShare       decimal.Decimal `json:"owner_share"`
	ThirdPartyShare  decimal.Decimal `json:"third_party_share"`
	AvgOccupancy     decimal.Decimal `json:"avg_occupancy"`
	AvgTicket        decimal.Decimal `json:"avg_ticket"`
}

// YearReport feeds the presentation renderer.
type YearReport struct {
	Year         int               `json:"year"`
	Properties   []PropertyMetrics `json:"properties"`
	Origins      []Origin          `json:"origins"`
	ByOrigin     []OriginRow       `json:"by_origin"`
	OriginTotals []decimal.Decimal `json:"origin_totals"`
	Totals       ReportTotals      `json:"totals"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// ImportRow is one data row read from a spreadsheet; cells are raw text.
type ImportRow struct {
	Row      int
	Property string
	Date     string
	Price    string
	Guest    string
}

// RowError reports why one import row was rejected.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string { return "row " + strconv.Itoa(e.Row) + ": " + e.Message }

type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}
