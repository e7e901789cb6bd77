package remittance

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LogType distinguishes the request and response halves of an upstream call.
type LogType string

const (
	LogTypeRaw    LogType = "RAW"
	LogTypeActual LogType = "ACTUAL"
)

// Valid reports whether t is one of the known log types.
func (t LogType) Valid() bool {
	return t == LogTypeRaw || t == LogTypeActual
}

// TransactionLog is an append-only audit record of one phase of an upstream call.
type TransactionLog struct {
	ID           uuid.UUID
	PartnerID    *string
	Type         LogType
	Endpoint     string
	RequestBody  json.RawMessage
	ResponseBody json.RawMessage
	CreatedAt    time.Time
}

// NewRawLog records the request as it is about to be sent upstream.
func NewRawLog(endpoint string, requestBody json.RawMessage, partnerID string) *TransactionLog {
	return &TransactionLog{
		ID:          uuid.New(),
		PartnerID:   optional(partnerID),
		Type:        LogTypeRaw,
		Endpoint:    endpoint,
		RequestBody: requestBody,
		CreatedAt:   time.Now(),
	}
}

// NewActualLog records the response received for a request.
func NewActualLog(endpoint string, requestBody, responseBody json.RawMessage, partnerID string) *TransactionLog {
	return &TransactionLog{
		ID:           uuid.New(),
		PartnerID:    optional(partnerID),
		Type:         LogTypeActual,
		Endpoint:     endpoint,
		RequestBody:  requestBody,
		ResponseBody: responseBody,
		CreatedAt:    time.Now(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
