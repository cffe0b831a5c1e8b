package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/compliance-sentinel/internal/config"
)

var testDrivers = []string{config.DriverCGO, config.DriverPureGo}

var fixedNow = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// createTestStores returns initialized stores on fresh files under t.TempDir().
func createTestStores(t *testing.T, driver string) (*TransactionStore, *RuleStore) {
	t.Helper()
	dir := t.TempDir()

	txns, err := NewTransactionStore(filepath.Join(dir, config.TransactionDBFile), driver, WithClock(fixedClock))
	require.NoError(t, err)
	rules, err := NewRuleStore(filepath.Join(dir, config.RuleDBFile), driver, WithClock(fixedClock))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, txns.Initialize(ctx))
	require.NoError(t, rules.Initialize(ctx))
	return txns, rules
}

// forEachDriver runs fn once per registered SQLite driver.
func forEachDriver(t *testing.T, fn func(t *testing.T, driver string)) {
	t.Helper()
	for _, driver := range testDrivers {
		t.Run(driver, func(t *testing.T) {
			fn(t, driver)
		})
	}
}

func TestNewDatabase(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		driver     string
		wantDriver string
		wantErr    error
	}{
		{name: "default driver", path: "/tmp/a.db", wantDriver: config.DriverCGO},
		{name: "pure go driver", path: "/tmp/a.db", driver: config.DriverPureGo, wantDriver: config.DriverPureGo},
		{name: "unknown driver", path: "/tmp/a.db", driver: "postgres", wantErr: ErrUnknownDriver},
		{name: "empty path", path: " ", wantErr: ErrEmptyString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := newDatabase(tt.path, tt.driver)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, db.driver)
		})
	}
}

func TestDSN(t *testing.T) {
	cgo := database{path: "/data/c.db", driver: config.DriverCGO}
	assert.Equal(t, "/data/c.db?_journal_mode=WAL&_busy_timeout=5000", cgo.dsn())

	pure := database{path: "/data/c.db", driver: config.DriverPureGo}
	assert.Equal(t, "/data/c.db?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", pure.dsn())
}

func TestOpenCreatesDirectory(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		path := filepath.Join(t.TempDir(), "nested", "deeper", "x.db")
		db, err := newDatabase(path, driver)
		require.NoError(t, err)

		conn, err := db.open(context.Background())
		require.NoError(t, err)
		require.NoError(t, conn.Close())
		assert.FileExists(t, path)
	})
}

func TestOpenNilContext(t *testing.T) {
	db, err := newDatabase(filepath.Join(t.TempDir(), "x.db"), "")
	require.NoError(t, err)

	//nolint:staticcheck // testing nil context handling
	_, err = db.open(nil)
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestMigrationsReachExpectedVersion(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		txns, rules := createTestStores(t, driver)
		ctx := context.Background()

		for _, tc := range []struct {
			db      database
			version int
		}{
			{txns.db, TransactionSchemaVersion},
			{rules.db, RuleSchemaVersion},
		} {
			conn, err := tc.db.open(ctx)
			require.NoError(t, err)

			var version int
			require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
			assert.Equal(t, tc.version, version)
			require.NoError(t, conn.Close())
		}
	})
}

func TestRuleMigrationCollapsesDuplicateCategories(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), config.RuleDBFile)
		db, err := newDatabase(path, driver)
		require.NoError(t, err)

		// Build a v1 database with duplicate categories, as older files may have.
		conn, err := db.open(ctx)
		require.NoError(t, err)
		require.NoError(t, migrate(ctx, conn, ruleMigrations[:1], 1))
		for _, text := range []string{"old", "newer", "newest"} {
			_, err = conn.ExecContext(ctx,
				`INSERT INTO rules (category, rule_text, last_updated) VALUES ('AML Threshold', ?, '2024-01-01')`, text)
			require.NoError(t, err)
		}
		require.NoError(t, conn.Close())

		store, err := NewRuleStore(path, driver, WithClock(fixedClock))
		require.NoError(t, err)
		require.NoError(t, store.Initialize(ctx))

		rules, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, "newest", rules[0].Text)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: transactions.id")))
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: rules.category (2067)")))
}
