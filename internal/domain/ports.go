package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PropertyRepository interface {
	SeedProperties(ctx context.Context, ps []Property) (int, error)
	ListProperties(ctx context.Context, activeOnly bool) ([]Property, error)
	PropertyByName(ctx context.Context, name string) (Property, error)
	PropertyByID(ctx context.Context, id int64) (Property, error)
	SetPropertyActive(ctx context.Context, id int64, active bool) error
}

type LedgerRepository interface {
	// Occupancy
	UpsertOccupancy(ctx context.Context, r OccupancyRecord) error
	DeleteOccupancy(ctx context.Context, propertyID int64, d Date) (bool, error)
	ListOccupancy(ctx context.Context, r Range) ([]OccupancyView, error)
	ListByOrigin(ctx context.Context, o Origin, limit int) ([]OccupancyView, error)

	// Monthly rent
	UpsertMonthlyRent(ctx context.Context, r MonthlyRentRecord) error
	DeleteMonthlyRent(ctx context.Context, propertyID int64, year int, month time.Month) (bool, error)
	ListMonthlyRent(ctx context.Context, year int) ([]MonthlyRentView, error)

	// Expenses
	AddExpense(ctx context.Context, e ExpenseRecord) (int64, error)
	DeleteExpense(ctx context.Context, id int64) (bool, error)

	// InTx runs fn in one store transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx holds the operations that must be atomic with respect to
// concurrent submissions.
type LedgerTx interface {
	InsertOccupancyIfAbsent(ctx context.Context, r OccupancyRecord) (bool, error)
	// OccupancyOrigin returns the stored origin of a record, locking it where the
	// store supports row locks. ok is false when the record does not exist.
	OccupancyOrigin(ctx context.Context, id int64) (o Origin, ok bool, err error)
	DeleteOccupancyByID(ctx context.Context, id int64) error
	UpdateOccupancyPriceNote(ctx context.Context, id int64, price decimal.Decimal, note string) error
}

type ReportRepository interface {
	IncomeByOrigin(ctx context.Context, r Range) ([]OriginIncome, error)
	RentIncomeByProperty(ctx context.Context, year int) ([]RentIncome, error)
	ExpensesByCategory(ctx context.Context, r Range) ([]ExpenseGroup, error)
	GeneralExpenseTotal(ctx context.Context, r Range) (decimal.Decimal, error)
	IncomeDetails(ctx context.Context, f Filter, o Order) ([]IncomeDetail, error)
	ExpenseDetails(ctx context.Context, f Filter, o Order) ([]ExpenseDetail, error)
	PropertyTotals(ctx context.Context, f Filter) ([]PropertyTotals, error)
}

// Limiter throttles callers identified by key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	// RetryAfter is how long a denied caller should wait before trying again.
	RetryAfter() time.Duration
}

// RowSource yields spreadsheet rows for import.
type RowSource interface {
	Rows() ([]ImportRow, error)
}
