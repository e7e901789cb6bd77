package controller

import (
	"net/http"
	"time"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/cassiomorais/remittance/internal/domain/remittance"
	"github.com/cassiomorais/remittance/internal/service"
)

// QueryController serves read-only views over the audit trail and the
// transaction bookkeeping tables.
type QueryController struct {
	audit *service.AuditLogger
	store *service.TransactionStore
}

func NewQueryController(audit *service.AuditLogger, store *service.TransactionStore) *QueryController {
	return &QueryController{audit: audit, store: store}
}

func (h *QueryController) ListLogs(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	filter := remittance.LogFilter{From: from, To: to}
	if t := r.URL.Query().Get("type"); t != "" {
		logType := remittance.LogType(t)
		if !logType.Valid() {
			writeError(w, domainErrors.NewValidationError("type", "must be RAW or ACTUAL"))
			return
		}
		filter.Type = &logType
	}

	entries, err := h.audit.ListLogs(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]TransactionLogResponse, len(entries))
	for i, e := range entries {
		resp[i] = toLogResponse(e)
	}
	writeList(w, "transaction logs retrieved", resp)
}

func (h *QueryController) ListTransactions(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rows, err := h.store.ListTransactions(r.Context(), transactionFilter(r, from, to))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]SuccessfulTransactionResponse, len(rows))
	for i, t := range rows {
		resp[i] = toSuccessfulResponse(t)
	}
	writeList(w, "successful transactions retrieved", resp)
}

func (h *QueryController) ListPending(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rows, err := h.store.ListPending(r.Context(), transactionFilter(r, from, to))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]PendingTransactionResponse, len(rows))
	for i, p := range rows {
		resp[i] = toPendingResponse(p)
	}
	writeList(w, "pending transactions retrieved", resp)
}

func transactionFilter(r *http.Request, from, to *time.Time) remittance.TransactionFilter {
	f := remittance.TransactionFilter{From: from, To: to}
	if v := r.URL.Query().Get("transaction_id"); v != "" {
		f.TransactionID = &v
	}
	if v := r.URL.Query().Get("partner_id"); v != "" {
		f.PartnerID = &v
	}
	return f
}

func parseDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	from, err := parseDate(r, "from")
	if err != nil {
		return nil, nil, err
	}
	to, err := parseDate(r, "to")
	if err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, domainErrors.NewValidationError("to", "must not be before from")
	}
	return from, to, nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(r *http.Request, param string) (*time.Time, error) {
	v := r.URL.Query().Get(param)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, domainErrors.NewValidationError(param, "must be a date in YYYY-MM-DD format")
}
