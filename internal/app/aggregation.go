package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rental_ledger/internal/domain"
)

// AggregationService computes every sum and ratio the reports show; the
// renderers only format what it returns.
type AggregationService struct {
	registry *RegistryService
	reports  domain.ReportRepository
	now      func() time.Time
}

func NewAggregationService(reg *RegistryService, r domain.ReportRepository) *AggregationService {
	return &AggregationService{registry: reg, reports: r, now: time.Now}
}

func (s *AggregationService) YearlySummary(ctx context.Context, year int) (domain.YearlySummary, error) {
	if err := validatePeriod(year, time.January); err != nil {
		return domain.YearlySummary{}, err
	}
	rg := domain.YearRange(year)
	out := domain.YearlySummary{Year: year}

	var err error
	if out.Income, err = s.reports.IncomeByOrigin(ctx, rg); err != nil {
		return domain.YearlySummary{}, fmt.Errorf("income by origin: %w", err)
	}
	if out.RentIncome, err = s.reports.RentIncomeByProperty(ctx, year); err != nil {
		return domain.YearlySummary{}, fmt.Errorf("rent income: %w", err)
	}
	if out.Expenses, err = s.reports.ExpensesByCategory(ctx, rg); err != nil {
		return domain.YearlySummary{}, fmt.Errorf("expenses by category: %w", err)
	}
	if out.GeneralExpenses, err = s.reports.GeneralExpenseTotal(ctx, rg); err != nil {
		return domain.YearlySummary{}, fmt.Errorf("general expenses: %w", err)
	}

	for _, i := range out.Income {
		out.OccupancyTotal = out.OccupancyTotal.Add(i.Total)
	}
	for _, r := range out.RentIncome {
		out.RentTotal = out.RentTotal.Add(r.Total)
	}
	for _, e := range out.Expenses {
		out.ExpenseTotal = out.ExpenseTotal.Add(e.Total)
	}
	return out, nil
}

func (s *AggregationService) DetailIncome(ctx context.Context, year int) ([]domain.IncomeDetail, error) {
	if err := validatePeriod(year, time.January); err != nil {
		return nil, err
	}
	return s.reports.IncomeDetails(ctx, domain.Filter{Range: domain.YearRange(year)}, domain.Newest)
}

func (s *AggregationService) DetailExpenses(ctx context.Context, year int) ([]domain.ExpenseDetail, error) {
	if err := validatePeriod(year, time.January); err != nil {
		return nil, err
	}
	return s.reports.ExpenseDetails(ctx, domain.Filter{Range: domain.YearRange(year)}, domain.Newest)
}

// PropertyMetrics returns one row per property for the filter's range, or only
// the named property when the filter has one.
func (s *AggregationService) PropertyMetrics(ctx context.Context, f domain.Filter) ([]domain.PropertyMetrics, error) {
	if err := s.validateFilter(ctx, f); err != nil {
		return nil, err
	}
	totals, err := s.reports.PropertyTotals(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("property totals: %w", err)
	}
	days := f.Range.Days()
	out := make([]domain.PropertyMetrics, 0, len(totals))
	for _, t := range totals {
		out = append(out, Metrics(t, days))
	}
	return out, nil
}

// ExportData gathers what the spreadsheet exporter writes, oldest first.
func (s *AggregationService) ExportData(ctx context.Context, f domain.Filter) (domain.ExportData, error) {
	metrics, err := s.PropertyMetrics(ctx, f)
	if err != nil {
		return domain.ExportData{}, err
	}
	out := domain.ExportData{Filter: f, Metrics: metrics}
	if out.Income, err = s.reports.IncomeDetails(ctx, f, domain.Oldest); err != nil {
		return domain.ExportData{}, fmt.Errorf("income details: %w", err)
	}
	if out.Expenses, err = s.reports.ExpenseDetails(ctx, f, domain.Oldest); err != nil {
		return domain.ExportData{}, fmt.Errorf("expense details: %w", err)
	}
	for _, i := range out.Income {
		out.IncomeTotal = out.IncomeTotal.Add(i.Price)
	}
	for _, e := range out.Expenses {
		out.ExpenseTotal = out.ExpenseTotal.Add(e.Amount)
	}
	out.MetricsTotals = sumMetrics(metrics, f.Range.Days())
	return out, nil
}

// YearReport builds the presentation model for the active properties.
func (s *AggregationService) YearReport(ctx context.Context, year int) (domain.YearReport, error) {
	summary, err := s.YearlySummary(ctx, year)
	if err != nil {
		return domain.YearReport{}, err
	}
	active, err := s.registry.ListActive(ctx)
	if err != nil {
		return domain.YearReport{}, fmt.Errorf("list properties: %w", err)
	}
	return BuildYearReport(summary, active, s.now()), nil
}

func (s *AggregationService) validateFilter(ctx context.Context, f domain.Filter) error {
	if f.Range.From.IsZero() || f.Range.To.IsZero() {
		return domain.Invalid("range", "from and to are required")
	}
	if f.Range.To.Before(f.Range.From) {
		return domain.Invalid("range", "to must not precede from")
	}
	if f.Property != "" {
		if _, err := s.registry.ResolveByName(ctx, f.Property); err != nil {
			return err
		}
	}
	return nil
}

// Metrics derives the ratios for one property over a range of days.
func Metrics(t domain.PropertyTotals, days int) domain.PropertyMetrics {
	income := t.NightlyIncome.Add(t.RentIncome)
	profit := income.Sub(t.Expense)
	nights := decimal.NewFromInt(int64(t.Nights))
	return domain.PropertyMetrics{
		Property:       t.Property.Name,
		Category:       t.Property.Category,
		Color:          t.Property.Color,
		NightlyIncome:  t.NightlyIncome,
		RentIncome:     t.RentIncome,
		Income:         income,
		Nights:         t.Nights,
		AvgNightlyRate: domain.SafeDiv(t.NightlyIncome, nights),
		Expense:        t.Expense,
		Profit:         profit,
		ProfitMargin:   domain.SafeDiv(profit, income),
		OccupancyRate:  domain.SafeDiv(nights, decimal.NewFromInt(int64(days))),
	}
}

func sumMetrics(ms []domain.PropertyMetrics, days int) domain.PropertyMetrics {
	var t domain.PropertyTotals
	t.Property.Name = "TOTAL"
	for _, m := range ms {
		t.NightlyIncome = t.NightlyIncome.Add(m.NightlyIncome)
		t.RentIncome = t.RentIncome.Add(m.RentIncome)
		t.Expense = t.Expense.Add(m.Expense)
		t.Nights += m.Nights
	}
	return Metrics(t, days*max(len(ms), 1))
}
