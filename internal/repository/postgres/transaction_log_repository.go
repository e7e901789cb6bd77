package postgres

import (
	"context"
	"fmt"

	"github.com/cassiomorais/remittance/internal/domain/remittance"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionLogRepository implements remittance.LogRepository using PostgreSQL.
type TransactionLogRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionLogRepository creates a new TransactionLogRepository.
func NewTransactionLogRepository(pool *pgxpool.Pool) *TransactionLogRepository {
	return &TransactionLogRepository{pool: pool}
}

func (r *TransactionLogRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Create appends an audit entry.
func (r *TransactionLogRepository) Create(ctx context.Context, entry *remittance.TransactionLog) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO transaction_logs (id, partner_id, type, endpoint, request_body, response_body, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.PartnerID, string(entry.Type), entry.Endpoint,
		jsonOrNil(entry.RequestBody), jsonOrNil(entry.ResponseBody), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction log: %w", err)
	}
	return nil
}

// List returns audit entries matching the filter, newest first.
func (r *TransactionLogRepository) List(ctx context.Context, f remittance.LogFilter) ([]*remittance.TransactionLog, error) {
	query := `SELECT id, partner_id, type, endpoint, request_body, response_body, created_at
		 FROM transaction_logs WHERE 1=1`
	args := []any{}
	argIdx := 1

	if f.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, string(*f.Type))
		argIdx++
	}
	query, args, _ = appendDateRange(query, args, argIdx, f.From, f.To)
	query += " ORDER BY created_at DESC"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transaction logs: %w", err)
	}
	defer rows.Close()

	entries := []*remittance.TransactionLog{}
	for rows.Next() {
		entry, err := scanTransactionLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanTransactionLog(s scanner) (*remittance.TransactionLog, error) {
	var (
		entry   remittance.TransactionLog
		logType string
		req     []byte
		resp    []byte
	)
	if err := s.Scan(&entry.ID, &entry.PartnerID, &logType, &entry.Endpoint, &req, &resp, &entry.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan transaction log: %w", err)
	}
	entry.Type = remittance.LogType(logType)
	entry.RequestBody = req
	entry.ResponseBody = resp
	return &entry, nil
}
