package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"rental_ledger/internal/domain"
)

func (r *Repo) IncomeByOrigin(ctx context.Context, rg domain.Range) (out []domain.OriginIncome, err error) {
	defer observe("income_by_origin", time.Now(), &err)
	rows, err := r.db.QueryContext(ctx, incomeByOriginSQL, rg.From, rg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.OriginIncome
		var category, origin string
		if err := rows.Scan(&v.PropertyID, &v.PropertyName, &category, &origin, &v.Nights, r.d.scanMoney(&v.Total)); err != nil {
			return nil, err
		}
		v.Category, v.Origin = domain.Category(category), domain.Origin(origin)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) RentIncomeByProperty(ctx context.Context, year int) (out []domain.RentIncome, err error) {
	defer observe("rent_income", time.Now(), &err)
	rows, err := r.db.QueryContext(ctx, rentIncomeSQL, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.RentIncome
		var category string
		if err := rows.Scan(&v.PropertyID, &v.PropertyName, &category, &v.Months, r.d.scanMoney(&v.Total)); err != nil {
			return nil, err
		}
		v.Category = domain.Category(category)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) ExpensesByCategory(ctx context.Context, rg domain.Range) (out []domain.ExpenseGroup, err error) {
	defer observe("expenses_by_category", time.Now(), &err)
	rows, err := r.db.QueryContext(ctx, expensesByCategorySQL, rg.From, rg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.ExpenseGroup
		var pid sql.NullInt64
		var name sql.NullString
		if err := rows.Scan(&pid, &name, &v.Category, r.d.scanMoney(&v.Total)); err != nil {
			return nil, err
		}
		if pid.Valid {
			id := pid.Int64
			v.PropertyID = &id
		}
		v.PropertyName = nameOrGeneral(name)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) GeneralExpenseTotal(ctx context.Context, rg domain.Range) (total decimal.Decimal, err error) {
	defer observe("general_expense_total", time.Now(), &err)
	err = r.db.QueryRowContext(ctx, generalExpenseTotalSQL, rg.From, rg.To).Scan(r.d.scanMoney(&total))
	return total, err
}

func (r *Repo) IncomeDetails(ctx context.Context, f domain.Filter, o domain.Order) (out []domain.IncomeDetail, err error) {
	defer observe("income_details", time.Now(), &err)
	q, args := incomeDetailSQL, []any{f.Range.From, f.Range.To}
	if f.Property != "" {
		q += " AND p.name = ?"
		args = append(args, f.Property)
	}
	if o == domain.Oldest {
		q += " ORDER BY o.stay_date, p.name"
	} else {
		q += " ORDER BY o.stay_date DESC, p.name"
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.IncomeDetail
		var origin string
		if err := rows.Scan(&v.Date, &v.Property, r.d.scanMoney(&v.Price), &origin, &v.Note); err != nil {
			return nil, err
		}
		v.Origin, v.Month = domain.Origin(origin), v.Date.Month()
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) ExpenseDetails(ctx context.Context, f domain.Filter, o domain.Order) (out []domain.ExpenseDetail, err error) {
	defer observe("expense_details", time.Now(), &err)
	q, args := expenseDetailSQL, []any{f.Range.From, f.Range.To}
	if f.Property != "" {
		q += " AND (p.name = ? OR e.property_id IS NULL)"
		args = append(args, f.Property)
	}
	if o == domain.Oldest {
		q += " ORDER BY e.expense_date, e.id"
	} else {
		q += " ORDER BY e.expense_date DESC, e.id DESC"
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.ExpenseDetail
		var name sql.NullString
		if err := rows.Scan(&v.ID, &v.Date, &name, &v.Category, r.d.scanMoney(&v.Amount), &v.Description); err != nil {
			return nil, err
		}
		v.Property, v.Month = nameOrGeneral(name), v.Date.Month()
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) PropertyTotals(ctx context.Context, f domain.Filter) (out []domain.PropertyTotals, err error) {
	defer observe("property_totals", time.Now(), &err)
	loYM, hiYM := rentPeriodKeys(f.Range)
	q := propertyTotalsSQL
	args := []any{
		f.Range.From, f.Range.To,
		f.Range.From, f.Range.To,
		loYM, hiYM,
		f.Range.From, f.Range.To,
	}
	if f.Property != "" {
		q += " WHERE p.name = ?"
		args = append(args, f.Property)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY p.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.PropertyTotals
		var category string
		if err := rows.Scan(
			&v.Property.ID, &v.Property.Name, &category, &v.Property.Active, &v.Property.Color,
			r.d.scanMoney(&v.NightlyIncome), &v.Nights, r.d.scanMoney(&v.RentIncome), r.d.scanMoney(&v.Expense),
		); err != nil {
			return nil, err
		}
		v.Property.Category = domain.Category(category)
		out = append(out, v)
	}
	return out, rows.Err()
}

// rentPeriodKeys returns year*100+month bounds of the months whose first day
// falls inside rg.
func rentPeriodKeys(rg domain.Range) (int, int) {
	from := rg.From
	if from.Day() != 1 {
		from = domain.DateOf(from.Time().AddDate(0, 1, 1-from.Day()))
	}
	return from.Year()*100 + int(from.Month()), rg.To.Year()*100 + int(rg.To.Month())
}

func nameOrGeneral(n sql.NullString) string {
	if n.Valid && n.String != "" {
		return n.String
	}
	return domain.GeneralLabel
}
