// Package storage provides the two SQLite-backed stores: transactions and rules.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/compliance-sentinel/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidRule        = errors.New("invalid rule")
	ErrUnknownDriver      = errors.New("unknown database driver")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction validates a transaction before insertion.
func validateTransaction(txn model.Transaction) error {
	if strings.TrimSpace(txn.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.User) == "" {
		return fmt.Errorf("%w: missing user", ErrInvalidTransaction)
	}
	if txn.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidTransaction, txn.Amount)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, txn.Type)
	}

	switch txn.Flag {
	case model.FlagClean, model.FlagSuspicious:
	default:
		return fmt.Errorf("%w: unknown flag %q", ErrInvalidTransaction, txn.Flag)
	}

	if txn.Reason == "" {
		return fmt.Errorf("%w: missing reason", ErrInvalidTransaction)
	}
	return nil
}

// validateRule validates an upsert request.
func validateRule(category, text string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidRule)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: missing rule text", ErrInvalidRule)
	}
	return nil
}
