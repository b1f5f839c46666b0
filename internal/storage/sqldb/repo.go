package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rental_ledger/internal/adapters/observability"
	"rental_ledger/internal/domain"
)

func valID(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct {
	db *sql.DB
	d  Dialect
}

func New(db *sql.DB, d Dialect) *Repo { return &Repo{db: db, d: d} }

func observe(op string, start time.Time, err *error) {
	observability.ObserveQuery(op, time.Since(start), *err)
}

// ---- properties ----

func (r *Repo) SeedProperties(ctx context.Context, ps []domain.Property) (n int, err error) {
	defer observe("seed_properties", time.Now(), &err)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	for _, p := range ps {
		res, err := tx.ExecContext(ctx, r.d.seedPropertySQL, p.Name, string(p.Category), p.Active, p.Color)
		if err != nil {
			return 0, fmt.Errorf("seed %q: %w", p.Name, err)
		}
		if aff, _ := res.RowsAffected(); aff > 0 {
			n++
		}
	}
	return n, tx.Commit()
}

func (r *Repo) ListProperties(ctx context.Context, activeOnly bool) (out []domain.Property, err error) {
	defer observe("list_properties", time.Now(), &err)
	q := selectPropertySQL
	if activeOnly {
		q += " WHERE active = 1"
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) PropertyByName(ctx context.Context, name string) (p domain.Property, err error) {
	defer observe("property_by_name", time.Now(), &err)
	p, err = scanProperty(r.db.QueryRowContext(ctx, selectPropertySQL+" WHERE name = ?", name))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, err
}

func (r *Repo) PropertyByID(ctx context.Context, id int64) (p domain.Property, err error) {
	defer observe("property_by_id", time.Now(), &err)
	p, err = scanProperty(r.db.QueryRowContext(ctx, selectPropertySQL+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, err
}

func (r *Repo) SetPropertyActive(ctx context.Context, id int64, active bool) (err error) {
	defer observe("set_property_active", time.Now(), &err)
	res, err := r.db.ExecContext(ctx, setPropertyActiveSQL, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 when the value is unchanged, so confirm existence.
		if _, err := r.PropertyByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanProperty(s rowScanner) (domain.Property, error) {
	var p domain.Property
	var category string
	if err := s.Scan(&p.ID, &p.Name, &category, &p.Active, &p.Color); err != nil {
		return domain.Property{}, err
	}
	p.Category = domain.Category(category)
	return p, nil
}

// ---- occupancy ----

func (r *Repo) UpsertOccupancy(ctx context.Context, o domain.OccupancyRecord) (err error) {
	defer observe("upsert_occupancy", time.Now(), &err)
	_, err = r.db.ExecContext(ctx, r.d.upsertOccupancySQL, o.PropertyID, o.Date, r.d.money(o.Price), string(o.Origin), o.Note)
	return err
}

func (r *Repo) DeleteOccupancy(ctx context.Context, propertyID int64, d domain.Date) (ok bool, err error) {
	defer observe("delete_occupancy", time.Now(), &err)
	return affected(r.db.ExecContext(ctx, deleteOccupancySQL, propertyID, d))
}

func (r *Repo) ListOccupancy(ctx context.Context, rg domain.Range) (out []domain.OccupancyView, err error) {
	defer observe("list_occupancy", time.Now(), &err)
	return r.listOccupancy(ctx, listOccupancySQL, rg.From, rg.To)
}

func (r *Repo) ListByOrigin(ctx context.Context, o domain.Origin, limit int) (out []domain.OccupancyView, err error) {
	defer observe("list_by_origin", time.Now(), &err)
	return r.listOccupancy(ctx, listByOriginSQL, string(o), limit)
}

func (r *Repo) listOccupancy(ctx context.Context, q string, args ...any) ([]domain.OccupancyView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OccupancyView
	for rows.Next() {
		var v domain.OccupancyView
		var origin string
		if err := rows.Scan(&v.ID, &v.PropertyID, &v.Date, r.d.scanMoney(&v.Price), &origin, &v.Note, &v.PropertyName); err != nil {
			return nil, err
		}
		v.Origin = domain.Origin(origin)
		out = append(out, v)
	}
	return out, rows.Err()
}

// ---- monthly rent ----

func (r *Repo) UpsertMonthlyRent(ctx context.Context, m domain.MonthlyRentRecord) (err error) {
	defer observe("upsert_monthly_rent", time.Now(), &err)
	_, err = r.db.ExecContext(ctx, r.d.upsertMonthlyRentSQL, m.PropertyID, m.Year, int(m.Month), r.d.money(m.Amount), m.Note)
	return err
}

func (r *Repo) DeleteMonthlyRent(ctx context.Context, propertyID int64, year int, month time.Month) (ok bool, err error) {
	defer observe("delete_monthly_rent", time.Now(), &err)
	return affected(r.db.ExecContext(ctx, deleteMonthlyRentSQL, propertyID, year, int(month)))
}

func (r *Repo) ListMonthlyRent(ctx context.Context, year int) (out []domain.MonthlyRentView, err error) {
	defer observe("list_monthly_rent", time.Now(), &err)
	rows, err := r.db.QueryContext(ctx, listMonthlyRentSQL, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.MonthlyRentView
		var month int
		if err := rows.Scan(&v.ID, &v.PropertyID, &v.Year, &month, r.d.scanMoney(&v.Amount), &v.Note, &v.PropertyName); err != nil {
			return nil, err
		}
		v.Month = time.Month(month)
		out = append(out, v)
	}
	return out, rows.Err()
}

// ---- expenses ----

func (r *Repo) AddExpense(ctx context.Context, e domain.ExpenseRecord) (id int64, err error) {
	defer observe("add_expense", time.Now(), &err)
	res, err := r.db.ExecContext(ctx, insertExpenseSQL, valID(e.PropertyID), e.Date, r.d.money(e.Amount), e.Category, e.Description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) DeleteExpense(ctx context.Context, id int64) (ok bool, err error) {
	defer observe("delete_expense", time.Now(), &err)
	return affected(r.db.ExecContext(ctx, deleteExpenseSQL, id))
}

func affected(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
