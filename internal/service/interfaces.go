// Package service defines the contracts between the stores and their consumers.
package service

import (
	"context"

	"github.com/Veraticus/compliance-sentinel/internal/model"
)

// TransactionStore persists monitored transactions.
type TransactionStore interface {
	// Initialize creates the schema and seeds the demo rows when empty.
	Initialize(ctx context.Context) error
	// ListAll returns every transaction in insertion order.
	ListAll(ctx context.Context) ([]model.Transaction, error)
	// Append stamps and stores a new transaction, returning the stored row.
	Append(ctx context.Context, txn model.Transaction) (model.Transaction, error)
	Get(ctx context.Context, id string) (*model.Transaction, error)
	Count(ctx context.Context) (int, error)
}

// RuleStore persists internal regulations, one per category.
type RuleStore interface {
	Initialize(ctx context.Context) error
	ListAll(ctx context.Context) ([]model.Rule, error)
	// Upsert replaces the text of category, creating it if missing.
	Upsert(ctx context.Context, category, text string) (UpsertResult, error)
	GetByCategory(ctx context.Context, category string) (*model.Rule, error)
}

// UpsertResult describes the outcome of a rule upsert.
type UpsertResult struct {
	Previous string
	Rule     model.Rule
	Created  bool
}
