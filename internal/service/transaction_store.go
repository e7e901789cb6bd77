package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cassiomorais/remittance/internal/domain/remittance"
	"github.com/cassiomorais/remittance/internal/infrastructure/config"
	"github.com/cassiomorais/remittance/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// TransactionStore owns the pending and successful transaction lifecycle.
type TransactionStore struct {
	pending     remittance.PendingRepository
	successful  remittance.SuccessfulRepository
	txManager   TransactionManager
	pendingMode string
	metrics     *observability.Metrics
	logger      zerolog.Logger
}

// NewTransactionStore creates a new TransactionStore. pendingMode selects
// whether repeated failures for one transaction id append rows or overwrite
// the newest one.
func NewTransactionStore(
	pending remittance.PendingRepository,
	successful remittance.SuccessfulRepository,
	txManager TransactionManager,
	pendingMode string,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *TransactionStore {
	if pendingMode == "" {
		pendingMode = config.PendingModeAppend
	}
	return &TransactionStore{
		pending:     pending,
		successful:  successful,
		txManager:   txManager,
		pendingMode: pendingMode,
		metrics:     metrics,
		logger:      logger,
	}
}

// RecordFailure stores a failed attempt. operation labels the metric only.
func (s *TransactionStore) RecordFailure(
	ctx context.Context,
	operation, transactionID, partnerID string,
	requestBody json.RawMessage,
	errorMessage string,
) error {
	p := remittance.NewFailedTransaction(transactionID, partnerID, requestBody, errorMessage)

	var err error
	if s.pendingMode == config.PendingModeUpsert {
		err = s.pending.Upsert(ctx, p)
	} else {
		err = s.pending.Create(ctx, p)
	}
	if err != nil {
		return fmt.Errorf("record failure for %s: %w", transactionID, err)
	}

	s.metrics.PendingWritten(operation)
	return nil
}

// RecordSuccess inserts a completed transaction.
func (s *TransactionStore) RecordSuccess(
	ctx context.Context,
	transactionID, partnerID string,
	requestBody, responseBody json.RawMessage,
) (*remittance.SuccessfulTransaction, error) {
	t := remittance.NewSuccessfulTransaction(transactionID, partnerID, requestBody, responseBody)
	if err := s.successful.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("record success for %s: %w", transactionID, err)
	}
	return t, nil
}

// ClearPending removes every pending row for the transaction id. It is a
// no-op when there are none.
func (s *TransactionStore) ClearPending(ctx context.Context, transactionID string) (int64, error) {
	n, err := s.pending.DeleteByTransactionID(ctx, transactionID)
	if err != nil {
		return 0, fmt.Errorf("clear pending for %s: %w", transactionID, err)
	}
	s.metrics.PendingDeleted(n)
	return n, nil
}

// CompleteTransaction records the success and clears the pending rows of
// pendingID in a single database transaction.
func (s *TransactionStore) CompleteTransaction(
	ctx context.Context,
	transactionID, partnerID string,
	requestBody, responseBody json.RawMessage,
	pendingID string,
) (*remittance.SuccessfulTransaction, error) {
	var recorded *remittance.SuccessfulTransaction
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		t, err := s.RecordSuccess(txCtx, transactionID, partnerID, requestBody, responseBody)
		if err != nil {
			return err
		}
		n, err := s.ClearPending(txCtx, pendingID)
		if err != nil {
			return err
		}
		recorded = t
		s.logger.Debug().
			Str("transaction_id", transactionID).
			Str("pending_id", pendingID).
			Int64("cleared", n).
			Msg("transaction completed")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recorded, nil
}

// FindSuccessfulByTransactionID returns the most recent completed transaction
// for the id, or an error matching errors.ErrTransactionNotFound.
func (s *TransactionStore) FindSuccessfulByTransactionID(ctx context.Context, transactionID string) (*remittance.SuccessfulTransaction, error) {
	return s.successful.GetByTransactionID(ctx, transactionID)
}

// ListTransactions returns completed transactions matching the filter, newest first.
func (s *TransactionStore) ListTransactions(ctx context.Context, filter remittance.TransactionFilter) ([]*remittance.SuccessfulTransaction, error) {
	return s.successful.List(ctx, filter)
}

// ListPending returns pending rows matching the filter, newest first.
func (s *TransactionStore) ListPending(ctx context.Context, filter remittance.TransactionFilter) ([]*remittance.PendingTransaction, error) {
	return s.pending.List(ctx, filter)
}
