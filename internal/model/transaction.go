package model

import (
	"fmt"
	"time"
)

// TransactionType is the kind of money movement.
type TransactionType string

// Transaction types.
const (
	TypeDeposit    TransactionType = "Deposit"
	TypeWithdrawal TransactionType = "Withdrawal"
	TypeTransfer   TransactionType = "Transfer"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer:
		return true
	}
	return false
}

// TimestampLayout is the stored timestamp format. It sorts lexically.
const TimestampLayout = "2006-01-02 15:04"

// TransactionIDPrefix prefixes every generated transaction id.
const TransactionIDPrefix = "TXN_"

// Transaction is a single monitored money movement. Rows are append-only.
type Transaction struct {
	ID        string          `json:"id" yaml:"id"`
	User      string          `json:"user" yaml:"user"`
	Type      TransactionType `json:"type" yaml:"type"`
	Timestamp string          `json:"timestamp" yaml:"timestamp"`
	Location  string          `json:"location" yaml:"location"`
	Flag      Flag            `json:"flag" yaml:"flag"`
	Reason    string          `json:"reason" yaml:"reason"`
	Amount    float64         `json:"amount" yaml:"amount"`
}

// IsSuspicious reports whether the transaction was flagged.
func (t Transaction) IsSuspicious() bool {
	return t.Flag == FlagSuspicious
}

// FormatTimestamp renders a time in the stored timestamp layout.
func FormatTimestamp(ts time.Time) string {
	return ts.Format(TimestampLayout)
}

// FormatTransactionID builds an id from its numeric token.
func FormatTransactionID(n int) string {
	return fmt.Sprintf("%s%d", TransactionIDPrefix, n)
}
