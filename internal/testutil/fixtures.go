package testutil

import (
	"github.com/cassiomorais/remittance/internal/domain/remittance"
	"github.com/shopspring/decimal"
)

func NewTestSendRequest(partnerReference string) remittance.SendRequest {
	return remittance.SendRequest{
		PartnerReferenceNumber: partnerReference,
		PrincipalAmount:        decimal.NewFromInt(100),
		ServiceFee:             decimal.NewFromInt(5),
		ISOCurrency:            "PHP",
		ConversionRate:         decimal.NewFromInt(1),
		ISOOriginatingCountry:  "PH",
		ISODestinationCountry:  "PH",
		SenderLastName:         "Dela Cruz",
		SenderFirstName:        "Juan",
		ReceiverLastName:       "Santos",
		ReceiverFirstName:      "Maria",
		SenderBirthDate:        "1990-01-15",
		SenderRelationship:     "Family",
		SenderPurpose:          "Gift",
		SenderSourceOfFund:     "Salary",
		SenderOccupation:       "Engineer",
		SenderEmploymentNature: "Employed",
		SendPartnerCode:        "SP1",
	}
}

func NewTestPayoutRequest(phrn string) remittance.PayoutRequest {
	return remittance.PayoutRequest{
		PHRN:                  phrn,
		PrincipalAmount:       decimal.NewFromInt(100),
		ISOOriginatingCountry: "PH",
		ISODestinationCountry: "PH",
		SenderLastName:        "Dela Cruz",
		SenderFirstName:       "Juan",
		SenderMiddleName:      "Reyes",
		ReceiverLastName:      "Santos",
		ReceiverFirstName:     "Maria",
		ReceiverMiddleName:    "Lopez",
	}
}

func StringPtr(s string) *string {
	return &s
}
