package remittance

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PendingStatus is the state recorded on a pending transaction row.
type PendingStatus string

const (
	PendingStatusPending PendingStatus = "pending"
	PendingStatusFailed  PendingStatus = "failed"
)

// PendingTransaction records an attempt that did not complete. A row existing for a
// transaction id means the last known attempt for it failed.
type PendingTransaction struct {
	ID            uuid.UUID
	TransactionID *string
	PartnerID     *string
	RequestBody   json.RawMessage
	ErrorMessage  *string
	Status        PendingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewFailedTransaction creates a pending row for a failed attempt.
func NewFailedTransaction(transactionID, partnerID string, requestBody json.RawMessage, errorMessage string) *PendingTransaction {
	now := time.Now()
	return &PendingTransaction{
		ID:            uuid.New(),
		TransactionID: optional(transactionID),
		PartnerID:     optional(partnerID),
		RequestBody:   requestBody,
		ErrorMessage:  optional(errorMessage),
		Status:        PendingStatusFailed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SuccessfulTransaction is the system of record for a completed send or payout.
// TransactionID holds the provider phrn and links a payout back to its send.
type SuccessfulTransaction struct {
	ID            uuid.UUID
	TransactionID string
	PartnerID     string
	RequestBody   json.RawMessage
	ResponseBody  json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewSuccessfulTransaction creates a successful transaction record.
func NewSuccessfulTransaction(transactionID, partnerID string, requestBody, responseBody json.RawMessage) *SuccessfulTransaction {
	now := time.Now()
	return &SuccessfulTransaction{
		ID:            uuid.New(),
		TransactionID: transactionID,
		PartnerID:     partnerID,
		RequestBody:   requestBody,
		ResponseBody:  responseBody,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
