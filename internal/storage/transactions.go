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
var _ service.TransactionStore = (*TransactionStore)(nil)

// SeedTransactions are inserted into an empty transaction store.
var SeedTransactions = []model.Transaction{
	{ID: "TXN_101", User: "USER_001", Amount: 200, Type: model.TypeDeposit, Timestamp: "2024-02-07 09:00", Location: "UK", Flag: model.FlagClean, Reason: model.NoReason},
	{ID: "TXN_102", User: "USER_002", Amount: 9900, Type: model.TypeDeposit, Timestamp: "2024-02-07 10:15", Location: "Malta", Flag: model.FlagSuspicious, Reason: "Potential Structuring (<$10k)"},
	{ID: "TXN_103", User: "USER_001", Amount: 5000, Type: model.TypeWithdrawal, Timestamp: "2024-02-07 11:00", Location: "North Korea", Flag: model.FlagSuspicious, Reason: "High Risk Jurisdiction"},
	{ID: "TXN_104", User: "USER_003", Amount: 50000, Type: model.TypeDeposit, Timestamp: "2024-02-07 12:30", Location: "Indonesia", Flag: model.FlagSuspicious, Reason: "Exceeds 500% Monthly Income"},
}

const transactionColumns = `id, COALESCE(user, ''), COALESCE(amount, 0), COALESCE(type, ''),
	COALESCE(timestamp, ''), COALESCE(location, ''), COALESCE(flag, ''), COALESCE(reason, '')`

// TransactionStore is the SQLite-backed transaction log.
type TransactionStore struct {
	now func() time.Time
	db  database
}

// NewTransactionStore creates a store for the database at path using driver.
func NewTransactionStore(path, driver string, opts ...Option) (*TransactionStore, error) {
	db, err := newDatabase(path, driver)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &TransactionStore{db: db, now: o.now}, nil
}

// Path returns the database file location.
func (s *TransactionStore) Path() string {
	return s.db.path
}

// Initialize applies migrations and seeds the demo transactions if the table is empty.
func (s *TransactionStore) Initialize(ctx context.Context) error {
	return s.db.withDB(ctx, func(db *sql.DB) error {
		if err := migrate(ctx, db, transactionMigrations, TransactionSchemaVersion); err != nil {
			return fmt.Errorf("failed to migrate transaction store: %w", err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
			return fmt.Errorf("failed to count transactions: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, txn := range SeedTransactions {
			if err := insertTransaction(ctx, tx, txn); err != nil {
				return fmt.Errorf("failed to seed transaction %s: %w", txn.ID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit seed transactions: %w", err)
		}

		slog.Info("Seeded transaction store", "path", s.db.path, "count", len(SeedTransactions))
		return nil
	})
}

// ListAll returns every transaction in insertion order.
func (s *TransactionStore) ListAll(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := s.db.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY rowid`)
		if err != nil {
			return fmt.Errorf("failed to query transactions: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			txn, scanErr := scanTransaction(rows)
			if scanErr != nil {
				return scanErr
			}
			txns = append(txns, txn)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// Append stamps txn with the current time and inserts it.
// A duplicate id returns an error wrapping common.ErrDuplicateEntry.
func (s *TransactionStore) Append(ctx context.Context, txn model.Transaction) (model.Transaction, error) {
	txn.Timestamp = model.FormatTimestamp(s.now())
	if err := validateTransaction(txn); err != nil {
		return model.Transaction{}, err
	}

	err := s.db.withDB(ctx, func(db *sql.DB) error {
		return insertTransaction(ctx, db, txn)
	})
	if err != nil {
		return model.Transaction{}, err
	}

	slog.Debug("Appended transaction",
		"id", txn.ID,
		"user", txn.User,
		"amount", txn.Amount,
		"flag", txn.Flag)
	return txn, nil
}

// Get returns a single transaction by id.
func (s *TransactionStore) Get(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var txn model.Transaction
	err := s.db.withDB(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
		var scanErr error
		txn, scanErr = scanTransaction(row)
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func insertTransaction(ctx context.Context, ex execer, txn model.Transaction) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO transactions (id, user, amount, type, timestamp, location, flag, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.User, txn.Amount, string(txn.Type), txn.Timestamp,
		txn.Location, string(txn.Flag), txn.Reason,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: transaction %s", common.ErrDuplicateEntry, txn.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}
	return nil
}

func scanTransaction(s scanner) (model.Transaction, error) {
	var (
		txn     model.Transaction
		txnType string
		flag    string
	)
	if err := s.Scan(&txn.ID, &txn.User, &txn.Amount, &txnType, &txn.Timestamp,
		&txn.Location, &flag, &txn.Reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return txn, err
		}
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}
	txn.Type = model.TransactionType(txnType)
	txn.Flag = model.Flag(flag)
	return txn, nil
}
