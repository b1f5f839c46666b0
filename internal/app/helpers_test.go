package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"rental_ledger/internal/app"
	"rental_ledger/internal/domain"
	"rental_ledger/internal/storage/sqldb"
)

type fixture struct {
	repo     *sqldb.Repo
	registry *app.RegistryService
	ledger   *app.LedgerService
	intake   *app.IntakeService
	reports  *app.AggregationService
	importer *app.ImportService
}

// newFixture wires every service over a fresh SQLite file seeded with the
// catalog plus a short-term unit named "A".
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, sqldb.Migrate("sqlite", dsn))
	db, err := sqldb.Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqldb.New(db, sqldb.SQLite)
	reg := app.NewRegistryService(repo)
	_, err = reg.Seed(ctx)
	require.NoError(t, err)
	_, err = repo.SeedProperties(ctx, []domain.Property{{Name: "A", Category: domain.ShortTerm, Active: true, Color: "#000000"}})
	require.NoError(t, err)

	return &fixture{
		repo:     repo,
		registry: reg,
		ledger:   app.NewLedgerService(reg, repo, repo),
		intake:   app.NewIntakeService(reg, repo, []string{"alicia", "Estanislao"}),
		reports:  app.NewAggregationService(reg, repo),
		importer: app.NewImportService(reg, repo),
	}
}

func day(s string) domain.Date {
	v, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func byName(name string) app.PropertyRef { return app.PropertyRef{Name: name} }
