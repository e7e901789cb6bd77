package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cassiomorais/remittance/internal/domain/remittance"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pendingColumns = `id, transaction_id, partner_id, request_body, error_message, status, created_at, updated_at`

// PendingRepository implements remittance.PendingRepository using PostgreSQL.
type PendingRepository struct {
	pool *pgxpool.Pool
}

// NewPendingRepository creates a new PendingRepository.
func NewPendingRepository(pool *pgxpool.Pool) *PendingRepository {
	return &PendingRepository{pool: pool}
}

func (r *PendingRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Create inserts a new pending row.
func (r *PendingRepository) Create(ctx context.Context, p *remittance.PendingTransaction) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO pending_transactions (`+pendingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.TransactionID, p.PartnerID, jsonOrNil(p.RequestBody), p.ErrorMessage,
		string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pending transaction: %w", err)
	}
	return nil
}

// Upsert overwrites the newest row for the transaction id, inserting when none
// exists. Rows without a transaction id are always inserted.
func (r *PendingRepository) Upsert(ctx context.Context, p *remittance.PendingTransaction) error {
	if p.TransactionID == nil {
		return r.Create(ctx, p)
	}

	var id uuid.UUID
	err := r.db(ctx).QueryRow(ctx,
		`UPDATE pending_transactions
		 SET partner_id = $1, request_body = $2, error_message = $3, status = $4, updated_at = $5
		 WHERE id = (
		     SELECT id FROM pending_transactions
		     WHERE transaction_id = $6
		     ORDER BY created_at DESC
		     LIMIT 1
		 )
		 RETURNING id`,
		p.PartnerID, jsonOrNil(p.RequestBody), p.ErrorMessage, string(p.Status), p.UpdatedAt, *p.TransactionID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.Create(ctx, p)
	}
	if err != nil {
		return fmt.Errorf("update pending transaction: %w", err)
	}
	return nil
}

// DeleteByTransactionID removes every pending row for the transaction id.
func (r *PendingRepository) DeleteByTransactionID(ctx context.Context, transactionID string) (int64, error) {
	tag, err := r.db(ctx).Exec(ctx,
		`DELETE FROM pending_transactions WHERE transaction_id = $1`, transactionID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete pending transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List returns pending rows matching the filter, newest first.
func (r *PendingRepository) List(ctx context.Context, f remittance.TransactionFilter) ([]*remittance.PendingTransaction, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_transactions WHERE 1=1`
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
		return nil, fmt.Errorf("list pending transactions: %w", err)
	}
	defer rows.Close()

	result := []*remittance.PendingTransaction{}
	for rows.Next() {
		var (
			p      remittance.PendingTransaction
			body   []byte
			status string
		)
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.PartnerID, &body, &p.ErrorMessage,
			&status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		p.RequestBody = body
		p.Status = remittance.PendingStatus(status)
		result = append(result, &p)
	}
	return result, rows.Err()
}
