package service

import (
	"context"
	"encoding/json"

	"github.com/cassiomorais/remittance/internal/domain/remittance"
	"github.com/cassiomorais/remittance/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// AuditLogger records both halves of every upstream call. A failed write is
// reported but never interrupts the call it describes.
type AuditLogger struct {
	repo    remittance.LogRepository
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewAuditLogger creates a new AuditLogger.
func NewAuditLogger(repo remittance.LogRepository, metrics *observability.Metrics, logger zerolog.Logger) *AuditLogger {
	return &AuditLogger{repo: repo, metrics: metrics, logger: logger}
}

// LogRaw records the request about to be sent to endpoint.
func (a *AuditLogger) LogRaw(ctx context.Context, endpoint string, requestBody json.RawMessage, partnerID string) {
	a.write(ctx, remittance.NewRawLog(endpoint, requestBody, partnerID))
}

// LogActual records the response obtained for a request.
func (a *AuditLogger) LogActual(ctx context.Context, endpoint string, requestBody, responseBody json.RawMessage, partnerID string) {
	a.write(ctx, remittance.NewActualLog(endpoint, requestBody, responseBody, partnerID))
}

// ListLogs returns audit entries matching the filter, newest first.
func (a *AuditLogger) ListLogs(ctx context.Context, filter remittance.LogFilter) ([]*remittance.TransactionLog, error) {
	return a.repo.List(ctx, filter)
}

func (a *AuditLogger) write(ctx context.Context, entry *remittance.TransactionLog) {
	if err := a.repo.Create(ctx, entry); err != nil {
		a.metrics.AuditWriteFailed(string(entry.Type))
		a.logger.Warn().
			Err(err).
			Str("log_type", string(entry.Type)).
			Str("endpoint", entry.Endpoint).
			Msg("failed to write audit log entry")
	}
}
