package controller

import (
	"context"
	"net/http"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/cassiomorais/remittance/internal/infrastructure/perahub"
	customMW "github.com/cassiomorais/remittance/internal/middleware"
	"github.com/cassiomorais/remittance/internal/service"
	"github.com/rs/zerolog/log"
)

type RemittanceController struct {
	svc *service.RemittanceService
}

func NewRemittanceController(svc *service.RemittanceService) *RemittanceController {
	return &RemittanceController{svc: svc}
}

func (h *RemittanceController) Inquire(w http.ResponseWriter, r *http.Request) {
	var req InquireRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkPartner(r.Context(), req.SendPartnerCode); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.Inquire(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, result.Message, result.Data)
}

func (h *RemittanceController) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkPartner(r.Context(), req.SendPartnerCode); err != nil {
		writeError(w, err)
		return
	}

	if partner, ok := customMW.References(r.Context())[perahub.ReferencePartner]; ok {
		log.Ctx(r.Context()).Debug().
			Str("partner_reference_number", req.PartnerReferenceNumber).
			Interface("partner", partner).
			Msg("send partner resolved")
	}

	result, err := h.svc.Send(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, result.Message, result.Data)
}

func (h *RemittanceController) Payout(w http.ResponseWriter, r *http.Request) {
	var req PayoutRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	payout := req.toDomain()
	payout.AuthorizedPartner, _ = customMW.GetPartnerCode(r.Context())

	result, err := h.svc.Payout(r.Context(), payout)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, result.Message, result.Data)
}

// checkPartner rejects a request whose partner code differs from the one
// bound to the caller's token. Tokens without a partner code may act for any partner.
func checkPartner(ctx context.Context, partnerCode string) error {
	bound, ok := customMW.GetPartnerCode(ctx)
	if !ok || bound == "" || bound == partnerCode {
		return nil
	}
	return domainErrors.ErrPartnerMismatch
}
