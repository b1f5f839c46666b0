package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OccupancyRecord is one booked night of a property. (PropertyID, Date) is unique.
type OccupancyRecord struct {
	ID         int64           `json:"id"`
	PropertyID int64           `json:"property_id"`
	Date       Date            `json:"date"`
	Price      decimal.Decimal `json:"price"`
	Origin     Origin          `json:"origin"`
	Note       string          `json:"note"`
}

// OccupancyView is an occupancy record joined with its property name.
type OccupancyView struct {
	OccupancyRecord
	PropertyName string `json:"property_name"`
}

// Submission is a date range booked through the external intake form.
type Submission struct {
	Property string          `json:"property"`
	Start    Date            `json:"start"`
	End      Date            `json:"end"`
	Price    decimal.Decimal `json:"price"`
	Origin   Origin          `json:"origin"`
	Guest    string          `json:"guest"`
}

type MonthlyRentRecord struct {
	ID         int64           `json:"id"`
	PropertyID int64           `json:"property_id"`
	Year       int             `json:"year"`
	Month      time.Month      `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
}

type MonthlyRentView struct {
	MonthlyRentRecord
	PropertyName string `json:"property_name"`
}

// ExpenseRecord has a nil PropertyID for general expenses.
type ExpenseRecord struct {
	ID          int64           `json:"id"`
	PropertyID  *int64          `json:"property_id"`
	Date        Date            `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

type ExpenseView struct {
	ExpenseRecord
	PropertyName string `json:"property_name"`
}
