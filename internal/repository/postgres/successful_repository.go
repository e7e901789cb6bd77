package postgres

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/cassiomorais/remittance/internal/domain/remittance"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const successfulColumns = `id, transaction_id, partner_id, request_body, response_body, created_at, updated_at`

// SuccessfulRepository implements remittance.SuccessfulRepository using PostgreSQL.
type SuccessfulRepository struct {
	pool *pgxpool.Pool
}

// NewSuccessfulRepository creates a new SuccessfulRepository.
func NewSuccessfulRepository(pool *pgxpool.Pool) *SuccessfulRepository {
	return &SuccessfulRepository{pool: pool}
}

func (r *SuccessfulRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Create inserts a completed transaction.
func (r *SuccessfulRepository) Create(ctx context.Context, t *remittance.SuccessfulTransaction) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO successful_transactions (`+successfulColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.TransactionID, t.PartnerID, jsonOrNil(t.RequestBody), jsonOrNil(t.ResponseBody),
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert successful transaction: %w", err)
	}
	return nil
}

// GetByTransactionID returns the most recent completed row for the transaction id.
func (r *SuccessfulRepository) GetByTransactionID(ctx context.Context, transactionID string) (*remittance.SuccessfulTransaction, error) {
	row := r.db(ctx).QueryRow(ctx,
		`SELECT `+successfulColumns+` FROM successful_transactions
		 WHERE transaction_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		transactionID,
	)
	t, err := scanSuccessful(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domainErrors.NewTransactionNotFound(transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("get successful transaction: %w", err)
	}
	return t, nil
}

// List returns completed rows matching the filter, newest first.
func (r *SuccessfulRepository) List(ctx context.Context, f remittance.TransactionFilter) ([]*remittance.SuccessfulTransaction, error) {
	query := `SELECT ` + successfulColumns + ` FROM successful_transactions WHERE 1=1`
	args := []any{}
	argIdx := 1

	if f.TransactionID != nil {
		query += fmt.Sprintf(" AND transaction_id = $%d", argIdx)
		args = append(args, *f.TransactionID)
		argIdx++
	}
	if f.PartnerID != nil {
		query += fmt.Sprintf(" AND partner_id = $%d", argIdx)
		args = append(args, *f.PartnerID)
		argIdx++
	}
	query, args, _ = appendDateRange(query, args, argIdx, f.From, f.To)
	query += " ORDER BY created_at DESC"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list successful transactions: %w", err)
	}
	defer rows.Close()

	result := []*remittance.SuccessfulTransaction{}
	for rows.Next() {
		t, err := scanSuccessful(rows)
		if err != nil {
			return nil, fmt.Errorf("scan successful transaction: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func scanSuccessful(s scanner) (*remittance.SuccessfulTransaction, error) {
	var (
		t    remittance.SuccessfulTransaction
		req  []byte
		resp []byte
	)
	if err := s.Scan(&t.ID, &t.TransactionID, &t.PartnerID, &req, &resp, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.RequestBody = req
	t.ResponseBody = resp
	return &t, nil
}
