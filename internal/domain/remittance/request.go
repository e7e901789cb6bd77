package remittance

import "github.com/shopspring/decimal"

// InquireRequest asks the provider for the status of a remittance.
type InquireRequest struct {
	PHRN            string
	SendPartnerCode string
}

// SendRequest carries a partner's send instruction.
type SendRequest struct {
	PartnerReferenceNumber string
	PrincipalAmount        decimal.Decimal
	ServiceFee             decimal.Decimal
	ISOCurrency            string
	ConversionRate         decimal.Decimal
	ISOOriginatingCountry  string
	ISODestinationCountry  string
	SenderLastName         string
	SenderFirstName        string
	ReceiverLastName       string
	ReceiverFirstName      string
	SenderBirthDate        string
	SenderRelationship     string
	SenderPurpose          string
	SenderSourceOfFund     string
	SenderOccupation       string
	SenderEmploymentNature string
	SendPartnerCode        string
}

// TotalAmount is the amount debited from the sender.
func (r SendRequest) TotalAmount() decimal.Decimal {
	return r.PrincipalAmount.Add(r.ServiceFee)
}

// PayoutRequest carries a payout instruction for a previously sent remittance.
// The payout partner is not supplied by the caller; it is recovered from the
// successful send recorded under PHRN.
type PayoutRequest struct {
	// AuthorizedPartner, when set, restricts the payout to remittances sent
	// by that partner.
	AuthorizedPartner string


	PHRN                  string
	PrincipalAmount       decimal.Decimal
	ISOOriginatingCountry string
	ISODestinationCountry string
	SenderLastName        string
	SenderFirstName       string
	SenderMiddleName      string
	ReceiverLastName      string
	ReceiverFirstName     string
	ReceiverMiddleName    string
}
