package service

import "context"

// TransactionManager defines the interface for transaction management.
// TransactionStore uses it to record a success and clear pending rows together.
type TransactionManager interface {
	// WithTransaction executes the given function within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// Otherwise, it is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
