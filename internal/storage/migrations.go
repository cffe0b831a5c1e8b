package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

// TransactionSchemaVersion is the schema version the transaction store expects.
const TransactionSchemaVersion = 2

// RuleSchemaVersion is the schema version the rule store expects.
const RuleSchemaVersion = 2

var transactionMigrations = []Migration{
	{
		Version:     1,
		Description: "Create transactions table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					user TEXT,
					amount REAL,
					type TEXT,
					timestamp TEXT,
					location TEXT,
					flag TEXT,
					reason TEXT
				)
			`)
			return err
		},
	},
	{
		Version:     2,
		Description: "Index transactions by flag",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_transactions_flag ON transactions(flag)`)
			return err
		},
	},
}

var ruleMigrations = []Migration{
	{
		Version:     1,
		Description: "Create rules table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS rules (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					category TEXT,
					rule_text TEXT,
					last_updated TEXT
				)
			`)
			return err
		},
	},
	{
		Version:     2,
		Description: "Enforce one rule per category",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				// Keep the newest row of any duplicated category
				`DELETE FROM rules WHERE id NOT IN (SELECT MAX(id) FROM rules GROUP BY category)`,
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_rules_category ON rules(category)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// migrate applies all pending migrations to db and verifies the final version.
func migrate(ctx context.Context, db *sql.DB, migrations []Migration, expected int) error {
	var currentVersion int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != expected {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", expected, finalVersion)
	}

	return nil
}
