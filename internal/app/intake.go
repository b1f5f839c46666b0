package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"rental_ledger/internal/adapters/observability"
	"rental_ledger/internal/domain"
)

const (
	// MaxSubmissionNights bounds one external submission to a year of nights.
	MaxSubmissionNights = 366
	// SubmissionListLimit is how many records a collaborator sees.
	SubmissionListLimit = 50
)

// IntakeService reconciles bookings submitted by outside collaborators with
// the occupancy ledger. It never overwrites a stored night, and collaborators
// may only change records carrying their own origin.
type IntakeService struct {
	registry      *RegistryService
	ledger        domain.LedgerRepository
	collaborators map[string]struct{}
}

func NewIntakeService(reg *RegistryService, l domain.LedgerRepository, collaborators []string) *IntakeService {
	set := make(map[string]struct{}, len(collaborators))
	for _, c := range collaborators {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			set[c] = struct{}{}
		}
	}
	return &IntakeService{registry: reg, ledger: l, collaborators: set}
}

// Collaborator reports whether name may open the intake form, and returns its
// canonical origin label.
func (s *IntakeService) Collaborator(name string) (domain.Origin, bool) {
	_, ok := s.collaborators[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return domain.Origin(name).Canonical(), true
}

// Submit records one night per date of [Start, End]. Nights that already have
// a record, whoever entered it, are skipped. It returns how many were inserted.
func (s *IntakeService) Submit(ctx context.Context, sub domain.Submission) (int, error) {
	if sub.Start.IsZero() {
		return 0, domain.Invalid("start", "required")
	}
	if sub.End.IsZero() {
		return 0, domain.Invalid("end", "required")
	}
	rg := domain.Range{From: sub.Start, To: sub.End}
	switch n := rg.Days(); {
	case n == 0:
		return 0, domain.Invalid("end", "must not precede start")
	case n > MaxSubmissionNights:
		return 0, domain.Invalid("end", fmt.Sprintf("range exceeds %d nights", MaxSubmissionNights))
	}
	if err := validateOccupancy(sub.Start, sub.Price, sub.Origin); err != nil {
		return 0, err
	}

	p, err := s.registry.ResolveByName(ctx, sub.Property)
	if err != nil {
		return 0, err
	}

	origin := sub.Origin.Canonical()
	note := strings.TrimSpace(sub.Guest)
	inserted := 0
	err = s.ledger.InTx(ctx, func(tx domain.LedgerTx) error {
		inserted = 0
		for _, d := range rg.Dates() {
			ok, err := tx.InsertOccupancyIfAbsent(ctx, domain.OccupancyRecord{
				PropertyID: p.ID,
				Date:       d,
				Price:      sub.Price,
				Origin:     origin,
				Note:       note,
			})
			if err != nil {
				return fmt.Errorf("insert %s: %w", d, err)
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("submit intake: %w", err)
	}

	skipped := rg.Days() - inserted
	observability.ObserveIntake(origin.String(), inserted, skipped)
	log.Info().
		Str("property", p.Name).
		Str("origin", origin.String()).
		Str("range", rg.String()).
		Int("inserted", inserted).
		Int("skipped", skipped).
		Msg("intake submitted")
	return inserted, nil
}

// ListSubmissions returns the newest records carrying origin.
func (s *IntakeService) ListSubmissions(ctx context.Context, origin domain.Origin) ([]domain.OccupancyView, error) {
	o := origin.Canonical()
	if o == "" {
		return nil, domain.Invalid("origin", "required")
	}
	return s.ledger.ListByOrigin(ctx, o, SubmissionListLimit)
}

func (s *IntakeService) DeleteSubmission(ctx context.Context, id int64, origin domain.Origin) error {
	return s.ledger.InTx(ctx, func(tx domain.LedgerTx) error {
		if err := authorize(ctx, tx, id, origin); err != nil {
			return err
		}
		return tx.DeleteOccupancyByID(ctx, id)
	})
}

// UpdateSubmission changes price and note only; date, property and origin stay.
func (s *IntakeService) UpdateSubmission(ctx context.Context, id int64, origin domain.Origin, price decimal.Decimal, note string) error {
	if price.IsNegative() {
		return domain.Invalid("price", "must not be negative")
	}
	return s.ledger.InTx(ctx, func(tx domain.LedgerTx) error {
		if err := authorize(ctx, tx, id, origin); err != nil {
			return err
		}
		return tx.UpdateOccupancyPriceNote(ctx, id, price, strings.TrimSpace(note))
	})
}

// authorize fails unless record id exists and carries origin. A missing
// record is reported the same way as a foreign one.
func authorize(ctx context.Context, tx domain.LedgerTx, id int64, origin domain.Origin) error {
	stored, ok, err := tx.OccupancyOrigin(ctx, id)
	if err != nil {
		return err
	}
	if !ok || !stored.Matches(origin) {
		log.Warn().Int64("id", id).Str("origin", origin.String()).Msg("submission change refused")
		return fmt.Errorf("%w: record %d does not belong to %q", domain.ErrUnauthorized, id, origin)
	}
	return nil
}
