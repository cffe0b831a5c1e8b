package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/compliance-sentinel/internal/common"
	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/service"
)

// Compile-time interface check.
var _ service.RuleStore = (*RuleStore)(nil)

// SeedRules are inserted into an empty rule store.
var SeedRules = []model.Rule{
	{Category: model.CategoryAMLThreshold, Text: "Report all cash transactions exceeding $10,000 within 24 hours.", LastUpdated: "2024-01-01"},
	{Category: model.CategoryKYCRequirement, Text: "Mandatory ID verification for all withdrawals > $500.", LastUpdated: "2024-01-01"},
	{Category: model.CategoryCryptoAssets, Text: "Travel Rule applies to crypto transfers > $3,000.", LastUpdated: "2024-01-15"},
	{Category: model.CategorySanctions, Text: "Auto-block transactions from: North Korea, Iran, Syria.", LastUpdated: "2023-12-01"},
}

const ruleColumns = `id, COALESCE(category, ''), COALESCE(rule_text, ''), COALESCE(last_updated, '')`

// RuleStore is the SQLite-backed regulation table.
type RuleStore struct {
	now func() time.Time
	db  database
}

// NewRuleStore creates a store for the database at path using driver.
func NewRuleStore(path, driver string, opts ...Option) (*RuleStore, error) {
	db, err := newDatabase(path, driver)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &RuleStore{db: db, now: o.now}, nil
}

// Path returns the database file location.
func (s *RuleStore) Path() string {
	return s.db.path
}

// Initialize applies migrations and seeds the default rules if the table is empty.
func (s *RuleStore) Initialize(ctx context.Context) error {
	return s.db.withDB(ctx, func(db *sql.DB) error {
		if err := migrate(ctx, db, ruleMigrations, RuleSchemaVersion); err != nil {
			return fmt.Errorf("failed to migrate rule store: %w", err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM rules`).Scan(&count); err != nil {
			return fmt.Errorf("failed to count rules: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, rule := range SeedRules {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO rules (category, rule_text, last_updated) VALUES (?, ?, ?)`,
				rule.Category, rule.Text, rule.LastUpdated)
			if err != nil {
				return fmt.Errorf("failed to seed rule %q: %w", rule.Category, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit seed rules: %w", err)
		}

		slog.Info("Seeded rule store", "path", s.db.path, "count", len(SeedRules))
		return nil
	})
}

// ListAll returns every rule in id order.
func (s *RuleStore) ListAll(ctx context.Context) ([]model.Rule, error) {
	var rules []model.Rule
	err := s.db.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT `+ruleColumns+` FROM rules ORDER BY id`)
		if err != nil {
			return fmt.Errorf("failed to query rules: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var rule model.Rule
			if err := rows.Scan(&rule.ID, &rule.Category, &rule.Text, &rule.LastUpdated); err != nil {
				return fmt.Errorf("failed to scan rule: %w", err)
			}
			rules = append(rules, rule)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// Upsert replaces the text of category, or creates it. The read of the
// previous text and the write happen in one SQL transaction.
func (s *RuleStore) Upsert(ctx context.Context, category, text string) (service.UpsertResult, error) {
	if err := validateRule(category, text); err != nil {
		return service.UpsertResult{}, err
	}

	var result service.UpsertResult
	today := model.FormatRuleDate(s.now())

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		var previous string
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(rule_text, '') FROM rules WHERE category = ?`, category).Scan(&previous)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			result.Created = true
		case err != nil:
			return fmt.Errorf("failed to read rule %q: %w", category, err)
		default:
			result.Previous = previous
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO rules (category, rule_text, last_updated) VALUES (?, ?, ?)
			ON CONFLICT(category) DO UPDATE SET
				rule_text = excluded.rule_text,
				last_updated = excluded.last_updated`,
			category, text, today)
		if err != nil {
			return fmt.Errorf("failed to upsert rule %q: %w", category, err)
		}

		err = tx.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM rules WHERE category = ?`, category).
			Scan(&result.Rule.ID, &result.Rule.Category, &result.Rule.Text, &result.Rule.LastUpdated)
		if err != nil {
			return fmt.Errorf("failed to reload rule %q: %w", category, err)
		}
		return nil
	})
	if err != nil {
		return service.UpsertResult{}, err
	}

	slog.Info("Upserted rule",
		"category", category,
		"created", result.Created,
		"last_updated", today)
	return result, nil
}

// GetByCategory returns the rule for category.
func (s *RuleStore) GetByCategory(ctx context.Context, category string) (*model.Rule, error) {
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	var rule model.Rule
	err := s.db.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM rules WHERE category = ?`, category).
			Scan(&rule.ID, &rule.Category, &rule.Text, &rule.LastUpdated)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rule %q: %w", category, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule %q: %w", category, err)
	}
	return &rule, nil
}
