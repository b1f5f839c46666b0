package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"rental_ledger/internal/adapters/observability"
	"rental_ledger/internal/domain"
)

// ImportService loads occupancy rows from a spreadsheet. Rows are written with
// direct-write semantics: a row for an existing night replaces it.
type ImportService struct {
	registry *RegistryService
	ledger   domain.LedgerRepository
}

func NewImportService(reg *RegistryService, l domain.LedgerRepository) *ImportService {
	return &ImportService{registry: reg, ledger: l}
}

// Import reads every row of src. Only a failure to read the source is fatal;
// bad rows are collected in the result and the import continues.
func (s *ImportService) Import(ctx context.Context, src domain.RowSource, origin domain.Origin) (domain.ImportResult, error) {
	o := origin.Canonical()
	if o == "" {
		o = domain.OwnerOrigin
	}
	rows, err := src.Rows()
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("read rows: %w", err)
	}

	res := domain.ImportResult{Errors: []domain.RowError{}}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name, date := strings.TrimSpace(row.Property), strings.TrimSpace(row.Date)
		if name == "" || date == "" {
			res.Skipped++
			continue
		}
		if msg := s.importRow(ctx, row, o); msg != "" {
			res.Errors = append(res.Errors, domain.RowError{Row: row.Row, Message: msg})
			continue
		}
		res.Imported++
	}

	observability.ObserveImport(res.Imported, res.Skipped, len(res.Errors))
	log.Info().
		Str("origin", o.String()).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Int("errors", len(res.Errors)).
		Msg("import finished")
	return res, nil
}

// importRow returns an empty string on success and the row's error message
// otherwise.
func (s *ImportService) importRow(ctx context.Context, row domain.ImportRow, o domain.Origin) string {
	p, err := s.registry.ResolveByName(ctx, row.Property)
	if errors.Is(err, domain.ErrUnknownProperty) {
		return fmt.Sprintf("property %q does not exist", strings.TrimSpace(row.Property))
	}
	if err != nil {
		return err.Error()
	}
	d, err := parseDateFlexible(row.Date)
	if err != nil {
		return err.Error()
	}
	price, err := parsePriceFlexible(row.Price)
	if err != nil {
		return err.Error()
	}
	rec := domain.OccupancyRecord{
		PropertyID: p.ID,
		Date:       d,
		Price:      price,
		Origin:     o,
		Note:       strings.TrimSpace(row.Guest),
	}
	if err := s.ledger.UpsertOccupancy(ctx, rec); err != nil {
		return err.Error()
	}
	return ""
}
