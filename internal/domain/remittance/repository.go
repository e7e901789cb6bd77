package remittance

import (
	"context"
	"time"
)

// LogRepository persists audit log entries. Entries are never updated or deleted.
type LogRepository interface {
	// Create appends a log entry
	Create(ctx context.Context, entry *TransactionLog) error

	// List returns entries matching the filter, newest first
	List(ctx context.Context, filter LogFilter) ([]*TransactionLog, error)
}

// PendingRepository persists failed transaction attempts.
type PendingRepository interface {
	// Create appends a pending row
	Create(ctx context.Context, p *PendingTransaction) error

	// Upsert overwrites the newest row for the same transaction id, or inserts one
	Upsert(ctx context.Context, p *PendingTransaction) error

	// DeleteByTransactionID removes every row for the transaction id
	DeleteByTransactionID(ctx context.Context, transactionID string) (int64, error)

	// List returns rows matching the filter, newest first
	List(ctx context.Context, filter TransactionFilter) ([]*PendingTransaction, error)
}

// SuccessfulRepository persists completed transactions.
type SuccessfulRepository interface {
	// Create inserts a completed transaction
	Create(ctx context.Context, t *SuccessfulTransaction) error

	// GetByTransactionID returns the most recent row for the transaction id
	GetByTransactionID(ctx context.Context, transactionID string) (*SuccessfulTransaction, error)

	// List returns rows matching the filter, newest first
	List(ctx context.Context, filter TransactionFilter) ([]*SuccessfulTransaction, error)
}

// LogFilter defines filters for listing audit log entries. From and To are
// compared against the calendar date of creation and are both inclusive.
type LogFilter struct {
	Type *LogType
	From *time.Time
	To   *time.Time
}

// TransactionFilter defines filters for listing pending and successful transactions.
type TransactionFilter struct {
	TransactionID *string
	PartnerID     *string
	From          *time.Time
	To            *time.Time
}

// InDateRange reports whether t falls on or between the calendar dates of from and to.
func InDateRange(t time.Time, from, to *time.Time) bool {
	day := truncateDay(t)
	if from != nil && day.Before(truncateDay(*from)) {
		return false
	}
	if to != nil && day.After(truncateDay(*to)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
