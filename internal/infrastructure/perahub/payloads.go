package perahub

import (
	"encoding/json"

	"github.com/cassiomorais/remittance/internal/domain/remittance"
	"github.com/shopspring/decimal"
)

// InquireBody is the body of POST /v1/remit/dmt/inquire.
type InquireBody struct {
	PHRN            string `json:"phrn"`
	SendPartnerCode string `json:"send_partner_code"`
}

// NewInquireBody builds the inquire request.
func NewInquireBody(r remittance.InquireRequest) InquireBody {
	return InquireBody{PHRN: r.PHRN, SendPartnerCode: r.SendPartnerCode}
}

// SendValidateBody is the body of POST /v1/remit/dmt/send/validate.
type SendValidateBody struct {
	PartnerReferenceNumber string      `json:"partner_reference_number"`
	PrincipalAmount        json.Number `json:"principal_amount"`
	ServiceFee             json.Number `json:"service_fee"`
	TotalAmount            json.Number `json:"total_amount"`
	ISOCurrency            string      `json:"iso_currency"`
	ConversionRate         json.Number `json:"conversion_rate"`
	ISOOriginatingCountry  string      `json:"iso_originating_country"`
	ISODestinationCountry  string      `json:"iso_destination_country"`
	SenderLastName         string      `json:"sender_last_name"`
	SenderFirstName        string      `json:"sender_first_name"`
	ReceiverLastName       string      `json:"receiver_last_name"`
	ReceiverFirstName      string      `json:"receiver_first_name"`
	SenderBirthDate        string      `json:"sender_birth_date"`
	SenderRelationship     string      `json:"sender_relationship"`
	SenderPurpose          string      `json:"sender_purpose"`
	SenderSourceOfFund     string      `json:"sender_source_of_fund"`
	SenderOccupation       string      `json:"sender_occupation"`
	SenderEmploymentNature string      `json:"sender_employment_nature"`
	SendPartnerCode        string      `json:"send_partner_code"`
}

// NewSendValidateBody builds the validate request, deriving total_amount.
func NewSendValidateBody(r remittance.SendRequest) SendValidateBody {
	return SendValidateBody{
		PartnerReferenceNumber: r.PartnerReferenceNumber,
		PrincipalAmount:        number(r.PrincipalAmount),
		ServiceFee:             number(r.ServiceFee),
		TotalAmount:            number(r.TotalAmount()),
		ISOCurrency:            r.ISOCurrency,
		ConversionRate:         number(r.ConversionRate),
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

// SendConfirmBody is the body of POST /v1/remit/dmt/send/confirm.
type SendConfirmBody struct {
	SendValidateReferenceNumber string `json:"send_validate_reference_number"`
}

// ReceiveValidateBody is the body of POST /v1/remit/dmt/receive/validate.
type ReceiveValidateBody struct {
	PHRN                  string      `json:"phrn"`
	PrincipalAmount       json.Number `json:"principal_amount"`
	ISOOriginatingCountry string      `json:"iso_originating_country"`
	ISODestinationCountry string      `json:"iso_destination_country"`
	SenderLastName        string      `json:"sender_last_name"`
	SenderFirstName       string      `json:"sender_first_name"`
	SenderMiddleName      string      `json:"sender_middle_name"`
	ReceiverLastName      string      `json:"receiver_last_name"`
	ReceiverFirstName     string      `json:"receiver_first_name"`
	ReceiverMiddleName    string      `json:"receiver_middle_name"`
	PayoutPartnerCode     string      `json:"payout_partner_code"`
}

// NewReceiveValidateBody builds the payout validate request for the partner
// that owns the original send.
func NewReceiveValidateBody(r remittance.PayoutRequest, payoutPartnerCode string) ReceiveValidateBody {
	return ReceiveValidateBody{
		PHRN:                  r.PHRN,
		PrincipalAmount:       number(r.PrincipalAmount),
		ISOOriginatingCountry: r.ISOOriginatingCountry,
		ISODestinationCountry: r.ISODestinationCountry,
		SenderLastName:        r.SenderLastName,
		SenderFirstName:       r.SenderFirstName,
		SenderMiddleName:      r.SenderMiddleName,
		ReceiverLastName:      r.ReceiverLastName,
		ReceiverFirstName:     r.ReceiverFirstName,
		ReceiverMiddleName:    r.ReceiverMiddleName,
		PayoutPartnerCode:     payoutPartnerCode,
	}
}

// ReceiveConfirmBody is the body of POST /v1/remit/dmt/receive/confirm.
type ReceiveConfirmBody struct {
	PayoutValidateReferenceNumber string `json:"payout_validate_reference_number"`
}

// SendValidateResult is the result of a send validation.
type SendValidateResult struct {
	SendValidateReferenceNumber string `json:"send_validate_reference_number"`
}

// PayoutValidateResult is the result of a payout validation.
type PayoutValidateResult struct {
	PayoutValidateReferenceNumber string `json:"payout_validate_reference_number"`
}

// ConfirmResult is the part of a confirm result the orchestration reads.
type ConfirmResult struct {
	PHRN string `json:"phrn"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
