package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/compliance-sentinel/internal/config"

	_ "github.com/mattn/go-sqlite3" // SQLite driver (cgo)
	_ "modernc.org/sqlite"          // SQLite driver (pure Go)
)

// Option configures a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used to stamp new rows.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// database locates one SQLite file. Every store operation opens its own
// connection through open and closes it before returning.
type database struct {
	path   string
	driver string
}

func newDatabase(path, driver string) (database, error) {
	if err := validateString(path, "path"); err != nil {
		return database{}, err
	}
	if driver == "" {
		driver = config.DriverCGO
	}
	if driver != config.DriverCGO && driver != config.DriverPureGo {
		return database{}, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
	return database{path: path, driver: driver}, nil
}

// dsn builds the driver-specific connection string.
func (d database) dsn() string {
	if d.driver == config.DriverPureGo {
		return d.path + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	}
	return d.path + "?_journal_mode=WAL&_busy_timeout=5000"
}

// open connects to the database, creating its directory if needed.
func (d database) open(ctx context.Context) (*sql.DB, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open(d.driver, d.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", d.path, err)
	}

	return db, nil
}

// withDB opens the database, runs fn, and closes the connection.
func (d database) withDB(ctx context.Context, fn func(*sql.DB) error) error {
	db, err := d.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Warn("failed to close database", "path", d.path, "error", closeErr)
		}
	}()
	return fn(db)
}

// withTx runs fn inside a transaction on a fresh connection.
func (d database) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return d.withDB(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// isUniqueViolation reports whether err is a primary key or unique index
// violation. Both drivers include the SQLite message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
