package app

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"rental_ledger/internal/domain"
)

// BuildYearReport lays a yearly summary out for the presentation: one metrics
// row per property, nightly income split by origin with the owner first, and
// portfolio totals. General expenses count toward the totals only.
func BuildYearReport(s domain.YearlySummary, props []domain.Property, now time.Time) domain.YearReport {
	days := domain.YearRange(s.Year).Days()
	origins := reportOrigins(s.Income)
	col := make(map[domain.Origin]int, len(origins))
	for i, o := range origins {
		col[o] = i
	}

	rep := domain.YearReport{
		Year:         s.Year,
		Origins:      origins,
		OriginTotals: zeros(len(origins)),
		GeneratedAt:  now,
	}

	for _, p := range props {
		t := domain.PropertyTotals{Property: p}
		row := domain.OriginRow{Property: p.Name, Color: p.Color, Amounts: zeros(len(origins))}
		for _, in := range s.Income {
			if in.PropertyID != p.ID {
				continue
			}
			t.NightlyIncome = t.NightlyIncome.Add(in.Total)
			t.Nights += in.Nights
			i := col[in.Origin.Canonical()]
			row.Amounts[i] = row.Amounts[i].Add(in.Total)
			rep.OriginTotals[i] = rep.OriginTotals[i].Add(in.Total)
			if in.Origin.Matches(domain.OwnerOrigin) {
				rep.Totals.OwnerIncome = rep.Totals.OwnerIncome.Add(in.Total)
			}
		}
		for _, r := range s.RentIncome {
			if r.PropertyID == p.ID {
				t.RentIncome = t.RentIncome.Add(r.Total)
			}
		}
		for _, e := range s.PropertyExpenses() {
			if *e.PropertyID == p.ID {
				t.Expense = t.Expense.Add(e.Total)
			}
		}
		row.Total = t.NightlyIncome
		rep.ByOrigin = append(rep.ByOrigin, row)

		m := Metrics(t, days)
		rep.Properties = append(rep.Properties, m)
		rep.Totals.NightlyIncome = rep.Totals.NightlyIncome.Add(m.NightlyIncome)
		rep.Totals.RentIncome = rep.Totals.RentIncome.Add(m.RentIncome)
		rep.Totals.PropertyExpense = rep.Totals.PropertyExpense.Add(m.Expense)
		rep.Totals.Nights += m.Nights
	}

	tt := &rep.Totals
	tt.GeneralExpense = s.GeneralExpenses
	tt.Income = tt.NightlyIncome.Add(tt.RentIncome)
	tt.Expense = tt.PropertyExpense.Add(tt.GeneralExpense)
	tt.Profit = tt.Income.Sub(tt.Expense)
	tt.ProfitMargin = domain.SafeDiv(tt.Profit, tt.Income)
	tt.ThirdPartyIncome = tt.NightlyIncome.Sub(tt.OwnerIncome)
	tt.OwnerShare = domain.SafeDiv(tt.OwnerIncome, tt.NightlyIncome)
	tt.ThirdPartyShare = domain.SafeDiv(tt.ThirdPartyIncome, tt.NightlyIncome)
	nights := decimal.NewFromInt(int64(tt.Nights))
	tt.AvgOccupancy = domain.SafeDiv(nights, decimal.NewFromInt(int64(days*len(props))))
	tt.AvgTicket = domain.SafeDiv(tt.NightlyIncome, nights)
	return rep
}

// reportOrigins lists the distinct origins found in the income rows, owner
// first and the rest alphabetically.
func reportOrigins(income []domain.OriginIncome) []domain.Origin {
	seen := map[domain.Origin]bool{domain.OwnerOrigin: true}
	out := []domain.Origin{domain.OwnerOrigin}
	var rest []domain.Origin
	for _, in := range income {
		o := in.Origin.Canonical()
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		rest = append(rest, o)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}
