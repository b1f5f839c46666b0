package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OriginIncome is nightly income of one property from one origin.
type OriginIncome struct {
	PropertyID   int64           `json:"property_id"`
	PropertyName string          `json:"property_name"`
	Category     Category        `json:"category"`
	Origin       Origin          `json:"origin"`
	Nights       int             `json:"nights"`
	Total        decimal.Decimal `json:"total"`
}

// RentIncome is monthly-rent income of one property.
type RentIncome struct {
	PropertyID   int64           `json:"property_id"`
	PropertyName string          `json:"property_name"`
	Category     Category        `json:"category"`
	Months       int             `json:"months"`
	Total        decimal.Decimal `json:"total"`
}

// ExpenseGroup totals expenses by property and category; PropertyID is nil
// for general expenses.
type ExpenseGroup struct {
	PropertyID   *int64          `json:"property_id"`
	PropertyName string          `json:"property_name"`
	Category     string          `json:"category"`
	Total        decimal.Decimal `json:"total"`
}

type YearlySummary struct {
	Year            int             `json:"year"`
	Income          []OriginIncome  `json:"income"`
	RentIncome      []RentIncome    `json:"rent_income"`
	Expenses        []ExpenseGroup  `json:"expenses"`
	GeneralExpenses decimal.Decimal `json:"general_expenses"`
	OccupancyTotal  decimal.Decimal `json:"occupancy_total"`
	RentTotal       decimal.Decimal `json:"rent_total"`
	ExpenseTotal    decimal.Decimal `json:"expense_total"`
}

// PropertyExpenses returns the expense groups attributed to a property.
func (s YearlySummary) PropertyExpenses() []ExpenseGroup {
	out := make([]ExpenseGroup, 0, len(s.Expenses))
	for _, e := range s.Expenses {
		if e.PropertyID != nil {
			out = append(out, e)
		}
	}
	return out
}

type IncomeDetail struct {
	Date     Date            `json:"date"`
	Month    time.Month      `json:"month"`
	Property string          `json:"property"`
	Price    decimal.Decimal `json:"price"`
	Origin   Origin          `json:"origin"`
	Note     string          `json:"note"`
}

type ExpenseDetail struct {
	ID          int64           `json:"id"`
	Date        Date            `json:"date"`
	Month       time.Month      `json:"month"`
	Property    string          `json:"property"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// PropertyTotals are the raw sums a store reports per property for a range.
type PropertyTotals struct {
	Property      Property
	NightlyIncome decimal.Decimal
	Nights        int
	RentIncome    decimal.Decimal
	Expense       decimal.Decimal
}

type PropertyMetrics struct {
	Property       string          `json:"property"`
	Category       Category        `json:"category"`
	Color          string          `json:"color"`
	NightlyIncome  decimal.Decimal `json:"nightly_income"`
	RentIncome     decimal.Decimal `json:"rent_income"`
	Income         decimal.Decimal `json:"income"`
	Nights         int             `json:"nights"`
	AvgNightlyRate decimal.Decimal `json:"avg_nightly_rate"`
	Expense        decimal.Decimal `json:"expense"`
	Profit         decimal.Decimal `json:"profit"`
	ProfitMargin   decimal.Decimal `json:"profit_margin"`
	OccupancyRate  decimal.Decimal `json:"occupancy_rate"`
}

// Filter narrows detail listings and metrics to a range and optionally one property.
type Filter struct {
	Range    Range
	Property string
}

// Order of detail listings.
type Order int

const (
	Newest Order = iota
	Oldest
)
