package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"rental_ledger/internal/domain"
)

type OccupancyInput struct {
	PropertyRef
	Date   domain.Date     `json:"date"`
	Price  decimal.Decimal `json:"price"`
	Origin domain.Origin   `json:"origin"`
	Note   string          `json:"note"`
}

type RentInput struct {
	PropertyRef
	Year   int             `json:"year"`
	Month  time.Month      `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// ExpenseInput leaves Property zero for a general expense.
type ExpenseInput struct {
	Property    PropertyRef     `json:"property"`
	Date        domain.Date     `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// LedgerService is the direct-write API used for owner data entry. Writes
// replace whatever is stored for the same key.
type LedgerService struct {
	registry *RegistryService
	ledger   domain.LedgerRepository
	reports  domain.ReportRepository
}

func NewLedgerService(reg *RegistryService, l domain.LedgerRepository, r domain.ReportRepository) *LedgerService {
	return &LedgerService{registry: reg, ledger: l, reports: r}
}

// resolveForWrite reports an unresolvable property as both a validation
// failure and an unknown property.
func (s *LedgerService) resolveForWrite(ctx context.Context, ref PropertyRef) (domain.Property, error) {
	if ref.IsZero() {
		return domain.Property{}, domain.Invalid("property", "required")
	}
	p, err := s.registry.Resolve(ctx, ref)
	if errors.Is(err, domain.ErrUnknownProperty) {
		return domain.Property{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return p, err
}

func (s *LedgerService) UpsertOccupancy(ctx context.Context, in OccupancyInput) error {
	if err := validateOccupancy(in.Date, in.Price, in.Origin); err != nil {
		return err
	}
	p, err := s.resolveForWrite(ctx, in.PropertyRef)
	if err != nil {
		return err
	}
	if p.Category == domain.Monthly {
		log.Debug().Str("property", p.Name).Msg("nightly occupancy recorded on a monthly unit")
	}
	rec := domain.OccupancyRecord{
		PropertyID: p.ID,
		Date:       in.Date,
		Price:      in.Price,
		Origin:     in.Origin.Canonical(),
		Note:       strings.TrimSpace(in.Note),
	}
	if err := s.ledger.UpsertOccupancy(ctx, rec); err != nil {
		return fmt.Errorf("upsert occupancy: %w", err)
	}
	return nil
}

func (s *LedgerService) DeleteOccupancy(ctx context.Context, ref PropertyRef, d domain.Date) (bool, error) {
	if d.IsZero() {
		return false, domain.Invalid("date", "required")
	}
	p, err := s.resolveForWrite(ctx, ref)
	if err != nil {
		return false, err
	}
	return s.ledger.DeleteOccupancy(ctx, p.ID, d)
}

func (s *LedgerService) OccupancyForMonth(ctx context.Context, year int, month time.Month) ([]domain.OccupancyView, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	return s.ledger.ListOccupancy(ctx, domain.MonthRange(year, month))
}

func (s *LedgerService) UpsertMonthlyRent(ctx context.Context, in RentInput) error {
	if err := validatePeriod(in.Year, in.Month); err != nil {
		return err
	}
	if in.Amount.IsNegative() {
		return domain.Invalid("amount", "must not be negative")
	}
	p, err := s.resolveForWrite(ctx, in.PropertyRef)
	if err != nil {
		return err
	}
	rec := domain.MonthlyRentRecord{
		PropertyID: p.ID,
		Year:       in.Year,
		Month:      in.Month,
		Amount:     in.Amount,
		Note:       strings.TrimSpace(in.Note),
	}
	if err := s.ledger.UpsertMonthlyRent(ctx, rec); err != nil {
		return fmt.Errorf("upsert monthly rent: %w", err)
	}
	return nil
}

func (s *LedgerService) DeleteMonthlyRent(ctx context.Context, ref PropertyRef, year int, month time.Month) (bool, error) {
	if err := validatePeriod(year, month); err != nil {
		return false, err
	}
	p, err := s.resolveForWrite(ctx, ref)
	if err != nil {
		return false, err
	}
	return s.ledger.DeleteMonthlyRent(ctx, p.ID, year, month)
}

func (s *LedgerService) MonthlyRentForYear(ctx context.Context, year int) ([]domain.MonthlyRentView, error) {
	if err := validatePeriod(year, time.January); err != nil {
		return nil, err
	}
	return s.ledger.ListMonthlyRent(ctx, year)
}

func (s *LedgerService) AddExpense(ctx context.Context, in ExpenseInput) (int64, error) {
	if in.Date.IsZero() {
		return 0, domain.Invalid("date", "required")
	}
	if in.Amount.IsNegative() {
		return 0, domain.Invalid("amount", "must not be negative")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return 0, domain.Invalid("category", "required")
	}
	rec := domain.ExpenseRecord{
		Date:        in.Date,
		Amount:      in.Amount,
		Category:    category,
		Description: strings.TrimSpace(in.Description),
	}
	if !in.Property.IsZero() {
		p, err := s.resolveForWrite(ctx, in.Property)
		if err != nil {
			return 0, err
		}
		rec.PropertyID = &p.ID
	}
	id, err := s.ledger.AddExpense(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}
	return id, nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, domain.Invalid("id", "must be positive")
	}
	return s.ledger.DeleteExpense(ctx, id)
}

// ExpensesForYear lists a year's expenses, newest first.
func (s *LedgerService) ExpensesForYear(ctx context.Context, year int) ([]domain.ExpenseDetail, error) {
	if err := validatePeriod(year, time.January); err != nil {
		return nil, err
	}
	return s.reports.ExpenseDetails(ctx, domain.Filter{Range: domain.YearRange(year)}, domain.Newest)
}

func validateOccupancy(d domain.Date, price decimal.Decimal, origin domain.Origin) error {
	if d.IsZero() {
		return domain.Invalid("date", "required")
	}
	if price.IsNegative() {
		return domain.Invalid("price", "must not be negative")
	}
	if origin.Canonical() == "" {
		return domain.Invalid("origin", "required")
	}
	return nil
}

func validatePeriod(year int, month time.Month) error {
	if year < 1 || year > 9999 {
		return domain.Invalid("year", "out of range")
	}
	if month < time.January || month > time.December {
		return domain.Invalid("month", "must be between 1 and 12")
	}
	return nil
}
