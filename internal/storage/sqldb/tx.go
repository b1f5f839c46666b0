package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rental_ledger/internal/domain"
)

type txRepo struct {
	tx *sql.Tx
	d  Dialect
}

// InTx commits when fn returns nil and rolls back otherwise.
func (r *Repo) InTx(ctx context.Context, fn func(tx domain.LedgerTx) error) (err error) {
	defer observe("tx", time.Now(), &err)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&txRepo{tx: tx, d: r.d}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (t *txRepo) InsertOccupancyIfAbsent(ctx context.Context, o domain.OccupancyRecord) (bool, error) {
	return affected(t.tx.ExecContext(ctx, t.d.insertOccupancyIfAbsentSQL,
		o.PropertyID, o.Date, t.d.money(o.Price), string(o.Origin), o.Note))
}

func (t *txRepo) OccupancyOrigin(ctx context.Context, id int64) (domain.Origin, bool, error) {
	var origin string
	err := t.tx.QueryRowContext(ctx, selectOccupancyOriginSQL+t.d.lockSuffix, id).Scan(&origin)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.Origin(origin), true, nil
}

func (t *txRepo) DeleteOccupancyByID(ctx context.Context, id int64) error {
	_, err := t.tx.ExecContext(ctx, deleteOccupancyByIDSQL, id)
	return err
}

func (t *txRepo) UpdateOccupancyPriceNote(ctx context.Context, id int64, price decimal.Decimal, note string) error {
	_, err := t.tx.ExecContext(ctx, updateOccupancyPriceNoteSQL, t.d.money(price), note, id)
	return err
}
