package controller

import (
	"encoding/json"
	"time"

	"github.com/cassiomorais/remittance/internal/domain/remittance"
	"github.com/shopspring/decimal"
)

// --- Request DTOs ---
// These DTOs carry HTTP/JSON concerns (validation tags, snake_case names).
// Handlers convert them to domain requests before calling the service.

// InquireRequest is the body of POST /api/v1/inquire.
type InquireRequest struct {
	PHRN            string `json:"phrn" validate:"required,max=64"`
	SendPartnerCode string `json:"send_partner_code" validate:"required,max=64"`
}

func (r InquireRequest) toDomain() remittance.InquireRequest {
	return remittance.InquireRequest{PHRN: r.PHRN, SendPartnerCode: r.SendPartnerCode}
}

// SendRequest is the body of POST /api/v1/send.
type SendRequest struct {
	PartnerReferenceNumber string          `json:"partner_reference_number" validate:"required,max=64"`
	PrincipalAmount        decimal.Decimal `json:"principal_amount" validate:"gt=0"`
	ServiceFee             decimal.Decimal `json:"service_fee" validate:"gte=0"`
	ISOCurrency            string          `json:"iso_currency" validate:"required,len=3,alpha"`
	ConversionRate         decimal.Decimal `json:"conversion_rate" validate:"gt=0"`
	ISOOriginatingCountry  string          `json:"iso_originating_country" validate:"required,len=2,alpha"`
	ISODestinationCountry  string          `json:"iso_destination_country" validate:"required,len=2,alpha"`
	SenderLastName         string          `json:"sender_last_name" validate:"required,max=100"`
	SenderFirstName        string          `json:"sender_first_name" validate:"required,max=100"`
	ReceiverLastName       string          `json:"receiver_last_name" validate:"required,max=100"`
	ReceiverFirstName      string          `json:"receiver_first_name" validate:"required,max=100"`
	SenderBirthDate        string          `json:"sender_birth_date" validate:"required,datetime=2006-01-02"`
	SenderRelationship     string          `json:"sender_relationship" validate:"required"`
	SenderPurpose          string          `json:"sender_purpose" validate:"required"`
	SenderSourceOfFund     string          `json:"sender_source_of_fund" validate:"required"`
	SenderOccupation       string          `json:"sender_occupation" validate:"required"`
	SenderEmploymentNature string          `json:"sender_employment_nature" validate:"required"`
	SendPartnerCode        string          `json:"send_partner_code" validate:"required,max=64"`
}

func (r SendRequest) toDomain() remittance.SendRequest {
	return remittance.SendRequest{
		PartnerReferenceNumber: r.PartnerReferenceNumber,
		PrincipalAmount:        r.PrincipalAmount,
		ServiceFee:             r.ServiceFee,
		ISOCurrency:            r.ISOCurrency,
		ConversionRate:         r.ConversionRate,
		ISOOriginatingCountry:  r.ISOOriginatingCountry,
		ISODestinationCountry:  r.ISODestinationCountry,
		SenderLastName:         r.SenderLastName,
		SenderFirstName:        r.SenderFirstName,
		ReceiverLastName:       r.ReceiverLastName,
		ReceiverFirstName:      r.ReceiverFirstName,
		SenderBirthDate:        r.SenderBirthDate,
		SenderRelationship:     r.SenderRelationship,
		SenderPurpose:          r.SenderPurpose,
		SenderSourceOfFund:     r.SenderSourceOfFund,
		SenderOccupation:       r.SenderOccupation,
		SenderEmploymentNature: r.SenderEmploymentNature,
		SendPartnerCode:        r.SendPartnerCode,
	}
}

// PayoutRequest is the body of POST /api/v1/payout.
type PayoutRequest struct {
	PHRN                  string          `json:"phrn" validate:"required,max=64"`
	PrincipalAmount       decimal.Decimal `json:"principal_amount" validate:"gt=0"`
	ISOOriginatingCountry string          `json:"iso_originating_country" validate:"required,len=2,alpha"`
	ISODestinationCountry string          `json:"iso_destination_country" validate:"required,len=2,alpha"`
	SenderLastName        string          `json:"sender_last_name" validate:"required,max=100"`
	SenderFirstName       string          `json:"sender_first_name" validate:"required,max=100"`
	SenderMiddleName      string          `json:"sender_middle_name" validate:"max=100"`
	ReceiverLastName      string          `json:"receiver_last_name" validate:"required,max=100"`
	ReceiverFirstName     string          `json:"receiver_first_name" validate:"required,max=100"`
	ReceiverMiddleName    string          `json:"receiver_middle_name" validate:"max=100"`
}

func (r PayoutRequest) toDomain() remittance.PayoutRequest {
	return remittance.PayoutRequest{
		PHRN:                  r.PHRN,
		PrincipalAmount:       r.PrincipalAmount,
		ISOOriginatingCountry: r.ISOOriginatingCountry,
		ISODestinationCountry: r.ISODestinationCountry,
		SenderLastName:        r.SenderLastName,
		SenderFirstName:       r.SenderFirstName,
		SenderMiddleName:      r.SenderMiddleName,
		ReceiverLastName:      r.ReceiverLastName,
		ReceiverFirstName:     r.ReceiverFirstName,
		ReceiverMiddleName:    r.ReceiverMiddleName,
	}
}

// --- Response DTOs ---

// Envelope is the single response shape of every endpoint.
type Envelope struct {
	ResponseCode int    `json:"response_code"`
	Status       string `json:"status"`
	Message      string `json:"message"`
	Count        *int   `json:"count,omitempty"`
	Data         any    `json:"data,omitempty"`
	Errors       any    `json:"errors,omitempty"`
}

// UpstreamErrorDetails describes a provider rejection.
type UpstreamErrorDetails struct {
	Code         string `json:"code"`
	Endpoint     string `json:"endpoint"`
	HTTPStatus   int    `json:"http_status"`
	UpstreamCode int    `json:"upstream_code"`
	Details      any    `json:"details,omitempty"`
}

// TransactionLogResponse represents an audit entry.
type TransactionLogResponse struct {
	ID           string          `json:"id"`
	PartnerID    *string         `json:"partner_id"`
	Type         string          `json:"type"`
	Endpoint     string          `json:"endpoint"`
	RequestBody  json.RawMessage `json:"request_body"`
	ResponseBody json.RawMessage `json:"response_body"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SuccessfulTransactionResponse represents a completed transaction.
type SuccessfulTransactionResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	PartnerID     string          `json:"partner_id"`
	RequestBody   json.RawMessage `json:"request_body"`
	ResponseBody  json.RawMessage `json:"response_body"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PendingTransactionResponse represents a failed attempt.
type PendingTransactionResponse struct {
	ID            string          `json:"id"`
	TransactionID *string         `json:"transaction_id"`
	PartnerID     *string         `json:"partner_id"`
	RequestBody   json.RawMessage `json:"request_body"`
	ErrorMessage  *string         `json:"error_message"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toLogResponse(e *remittance.TransactionLog) TransactionLogResponse {
	return TransactionLogResponse{
		ID:           e.ID.String(),
		PartnerID:    e.PartnerID,
		Type:         string(e.Type),
		Endpoint:     e.Endpoint,
		RequestBody:  nullIfEmpty(e.RequestBody),
		ResponseBody: nullIfEmpty(e.ResponseBody),
		CreatedAt:    e.CreatedAt,
	}
}

func toSuccessfulResponse(t *remittance.SuccessfulTransaction) SuccessfulTransactionResponse {
	return SuccessfulTransactionResponse{
		ID:            t.ID.String(),
		TransactionID: t.TransactionID,
		PartnerID:     t.PartnerID,
		RequestBody:   nullIfEmpty(t.RequestBody),
		ResponseBody:  nullIfEmpty(t.ResponseBody),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toPendingResponse(p *remittance.PendingTransaction) PendingTransactionResponse {
	return PendingTransactionResponse{
		ID:            p.ID.String(),
		TransactionID: p.TransactionID,
		PartnerID:     p.PartnerID,
		RequestBody:   nullIfEmpty(p.RequestBody),
		ErrorMessage:  p.ErrorMessage,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// nullIfEmpty keeps an absent body encodable as JSON null.
func nullIfEmpty(b json.RawMessage) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return b
}
