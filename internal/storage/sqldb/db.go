package sqldb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

// DialectFor maps a database/sql driver name to its statement dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return MySQL, nil
	case "sqlite":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// Open connects and pings the database. SQLite is limited to one connection
// so writers serialize on the engine's own lock.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver == "sqlite" {
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set busy timeout: %w", err)
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// Migrate applies the embedded schema migrations for driver. It uses its own
// connection, which the migrate library closes when done.
func Migrate(driver, dsn string) error {
	if driver == "mysql" {
		cfg, err := gomysql.ParseDSN(dsn)
		if err != nil {
			return fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.MultiStatements = true
		dsn = cfg.FormatDSN()
	}
	if driver == "sqlite" {
		if err := ensureSQLiteDir(dsn); err != nil {
			return err
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s for migrations: %w", driver, err)
	}

	src, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("load migrations: %w", err)
	}

	var m *migrate.Migrate
	switch driver {
	case "mysql":
		drv, derr := migratemysql.WithInstance(db, &migratemysql.Config{})
		if derr != nil {
			db.Close()
			return fmt.Errorf("mysql migrate driver: %w", derr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "mysql", drv)
	case "sqlite":
		drv, derr := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if derr != nil {
			db.Close()
			return fmt.Errorf("sqlite migrate driver: %w", derr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", drv)
	default:
		db.Close()
		return fmt.Errorf("unsupported db driver %q", driver)
	}
	if err != nil {
		db.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}
	log.Info().Str("driver", driver).Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}

// ensureSQLiteDir creates the directory holding the database file named by
// dsn; SQLite creates the file but not its parents.
func ensureSQLiteDir(dsn string) error {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || path == ":memory:" || strings.HasPrefix(path, ":") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite dir %s: %w", dir, err)
	}
	return nil
}
