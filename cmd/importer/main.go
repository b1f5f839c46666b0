// Command importer loads occupancy workbooks into the ledger:
//
//	importer [-origin Owner] file1.xlsx [file2.xlsx ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"rental_ledger/internal/adapters/observability"
	"rental_ledger/internal/adapters/xlsx"
	"rental_ledger/internal/app"
	"rental_ledger/internal/domain"
	"rental_ledger/internal/shared"
	"rental_ledger/internal/storage/sqldb"
)

func main() {
	cfg := shared.Load()

	origin := flag.String("origin", cfg.ImportOrigin, "origin recorded on imported rows")
	flag.Parse()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	files := flag.Args()
	if len(files) == 0 {
		log.Fatal().Msg("usage: importer [-origin NAME] FILE.xlsx...")
	}

	failed, err := run(context.Background(), cfg, domain.Origin(*origin), files)
	if err != nil {
		log.Error().Err(err).Msg("importer failed")
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// run imports files and returns how many could not be imported. Deferred
// cleanup happens here so main can exit with a status afterwards.
func run(ctx context.Context, cfg shared.Config, origin domain.Origin, files []string) (int, error) {
	log.Info().
		Int("files", len(files)).
		Int("workers", cfg.ImportWorkers).
		Str("origin", origin.String()).
		Msg("importer starting")

	if err := sqldb.Migrate(cfg.DBDriver, cfg.DBDSN); err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return 0, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	dialect, err := sqldb.DialectFor(cfg.DBDriver)
	if err != nil {
		return 0, err
	}
	repo := sqldb.New(db, dialect)

	registry := app.NewRegistryService(repo)
	if _, err := registry.Seed(ctx); err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	imp := app.NewImportService(registry, repo)

	sem := semaphore.NewWeighted(int64(cfg.ImportWorkers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, path := range files {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return int(failed.Load()), fmt.Errorf("semaphore acquire: %w", err)
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := importFile(ctx, imp, path, origin)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("file", path).Err(err).Msg("import failed")
				return
			}
			for _, re := range res.Errors {
				log.Warn().Str("file", path).Int("row", re.Row).Msg(re.Message)
			}
			log.Info().Str("file", path).Int("imported", res.Imported).Int("errors", len(res.Errors)).Msg("import ok")
		}(path)
	}

	wg.Wait()
	log.Info().Int32("failed_files", failed.Load()).Msg("import completed")
	return int(failed.Load()), nil
}

func importFile(ctx context.Context, imp *app.ImportService, path string, origin domain.Origin) (domain.ImportResult, error) {
	src, err := xlsx.OpenFile(path)
	if err != nil {
		return domain.ImportResult{}, err
	}
	defer src.Close()
	return imp.Import(ctx, src, origin)
}
