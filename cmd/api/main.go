package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "rental_ledger/internal/adapters/http_server"
	"rental_ledger/internal/adapters/observability"
	"rental_ledger/internal/adapters/presentation"
	"rental_ledger/internal/adapters/ratelimit"
	redisad "rental_ledger/internal/adapters/redis"
	"rental_ledger/internal/app"
	"rental_ledger/internal/domain"
	"rental_ledger/internal/shared"
	"rental_ledger/internal/storage/sqldb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	if err := sqldb.Migrate(cfg.DBDriver, cfg.DBDSN); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
	db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open database failed")
	}
	defer db.Close()
	log.Info().Str("driver", cfg.DBDriver).Msg("database connection ok")

	dialect, err := sqldb.DialectFor(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("unsupported driver")
	}
	repo := sqldb.New(db, dialect)

	// deps
	registry := app.NewRegistryService(repo)
	if _, err := registry.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	deck, err := presentation.New(cfg.Currency)
	if err != nil {
		log.Fatal().Err(err).Msg("presentation templates failed")
	}

	h := &server.Handlers{
		Registry:     registry,
		Ledger:       app.NewLedgerService(registry, repo, repo),
		Intake:       app.NewIntakeService(registry, repo, cfg.IntakeCollaborators),
		Reports:      app.NewAggregationService(registry, repo),
		Import:       app.NewImportService(registry, repo),
		Deck:         deck,
		ImportOrigin: domain.Origin(cfg.ImportOrigin),
	}

	// http
	srv := server.New(newLimiter(ctx, cfg))
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

// newLimiter prefers redis so several API instances share one quota, and
// falls back to an in-process limiter.
func newLimiter(ctx context.Context, cfg shared.Config) domain.Limiter {
	if cfg.RedisAddr != "" {
		l := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.IntakeBurst, cfg.IntakeWindow)
		err := l.Ping(ctx)
		if err == nil {
			log.Info().Str("addr", cfg.RedisAddr).Msg("intake limiter: redis")
			return l
		}
		log.Warn().Err(err).Msg("redis unreachable; using in-process limiter")
		_ = l.Close()
	}
	return ratelimit.New(cfg.IntakeRPS, cfg.IntakeBurst)
}
