package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rental_ledger/internal/domain"
	"rental_ledger/internal/shared"
	"rental_ledger/internal/storage/sqldb"
)

func writeWorkbook(t *testing.T, path string, rows ...[]any) {
	t.Helper()
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, 5+i)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, wb.SaveAs(path))
}

func TestRun_CountsFailedFilesAndReleasesDB(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := shared.Config{
		DBDriver:      "sqlite",
		DBDSN:         "file:" + filepath.Join(dir, "db", "ledger.db"),
		ImportWorkers: 2,
	}
	good := filepath.Join(dir, "good.xlsx")
	writeWorkbook(t, good, []any{"TIDES 5 L", "2024-05-01", "100"}, []any{"TIDES 5 L", "2024-05-02", "110"})

	failed, err := run(ctx, cfg, domain.OwnerOrigin, []string{good, filepath.Join(dir, "missing.xlsx")})
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	require.NoError(t, err)
	defer db.Close()
	got, err := sqldb.New(db, sqldb.SQLite).ListOccupancy(ctx, domain.YearRange(2024))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
