package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"rental_ledger/internal/domain"
)

// PropertyRef points at a property by id or, when ID is zero, by name.
type PropertyRef struct {
	ID   int64  `json:"property_id,omitempty"`
	Name string `json:"property,omitempty"`
}

func (r PropertyRef) IsZero() bool { return r.ID == 0 && strings.TrimSpace(r.Name) == "" }

type RegistryService struct {
	repo domain.PropertyRepository
}

func NewRegistryService(r domain.PropertyRepository) *RegistryService {
	return &RegistryService{repo: r}
}

// Seed inserts the fixed catalog; properties already present by name are left
// untouched, so running it again changes nothing.
func (s *RegistryService) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.SeedProperties(ctx, domain.Catalog)
	if err != nil {
		return 0, fmt.Errorf("seed properties: %w", err)
	}
	log.Info().Int("inserted", n).Int("catalog", len(domain.Catalog)).Msg("property catalog seeded")
	return n, nil
}

func (s *RegistryService) ListActive(ctx context.Context) ([]domain.Property, error) {
	return s.repo.ListProperties(ctx, true)
}

func (s *RegistryService) ListAll(ctx context.Context) ([]domain.Property, error) {
	return s.repo.ListProperties(ctx, false)
}

func (s *RegistryService) ResolveByName(ctx context.Context, name string) (domain.Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Property{}, domain.Invalid("property", "required")
	}
	p, err := s.repo.PropertyByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Property{}, fmt.Errorf("%w: %q", domain.ErrUnknownProperty, name)
	}
	return p, err
}

func (s *RegistryService) Resolve(ctx context.Context, ref PropertyRef) (domain.Property, error) {
	if ref.ID == 0 {
		return s.ResolveByName(ctx, ref.Name)
	}
	p, err := s.repo.PropertyByID(ctx, ref.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Property{}, fmt.Errorf("%w: id %d", domain.ErrUnknownProperty, ref.ID)
	}
	return p, err
}

// SetActive toggles the only mutable attribute of a property.
func (s *RegistryService) SetActive(ctx context.Context, id int64, active bool) error {
	err := s.repo.SetPropertyActive(ctx, id, active)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: id %d", domain.ErrUnknownProperty, id)
	}
	return err
}
