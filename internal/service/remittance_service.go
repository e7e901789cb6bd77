package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/cassiomorais/remittance/internal/domain/remittance"
	"github.com/cassiomorais/remittance/internal/infrastructure/observability"
	"github.com/cassiomorais/remittance/internal/infrastructure/perahub"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation names used in logs, metrics and spans.
const (
	OperationInquire = "inquire"
	OperationSend    = "send"
	OperationPayout  = "payout"
)

const missingReferenceMessage = "missing reference"

// Gateway is the subset of the provider client the orchestration drives.
type Gateway interface {
	Inquire(ctx context.Context, body perahub.InquireBody) (*perahub.Response[json.RawMessage], error)
	SendValidate(ctx context.Context, body perahub.SendValidateBody) (*perahub.Response[perahub.SendValidateResult], error)
	SendConfirm(ctx context.Context, body perahub.SendConfirmBody) (*perahub.Response[perahub.ConfirmResult], error)
	ReceiveValidate(ctx context.Context, body perahub.ReceiveValidateBody) (*perahub.Response[perahub.PayoutValidateResult], error)
	ReceiveConfirm(ctx context.Context, body perahub.ReceiveConfirmBody) (*perahub.Response[perahub.ConfirmResult], error)
}

// Result is what a completed operation hands back to the caller.
type Result struct {
	TransactionID string
	Message       string
	Data          json.RawMessage
}

// RemittanceService sequences upstream calls for inquire, send and payout,
// auditing every call and reconciling pending and successful records.
type RemittanceService struct {
	gateway Gateway
	audit   *AuditLogger
	store   *TransactionStore
	metrics *observability.Metrics
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewRemittanceService creates a new RemittanceService.
func NewRemittanceService(
	gateway Gateway,
	audit *AuditLogger,
	store *TransactionStore,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *RemittanceService {
	return &RemittanceService{
		gateway: gateway,
		audit:   audit,
		store:   store,
		metrics: metrics,
		logger:  logger,
		tracer:  otel.Tracer("github.com/cassiomorais/remittance/internal/service"),
	}
}

// Inquire asks the provider for the status of a remittance. It is read-only
// against the provider: success writes no transaction record.
func (s *RemittanceService) Inquire(ctx context.Context, req remittance.InquireRequest) (*Result, error) {
	if req.PHRN == "" {
		return nil, domainErrors.NewValidationError("phrn", "required")
	}
	if req.SendPartnerCode == "" {
		return nil, domainErrors.NewValidationError("send_partner_code", "required")
	}

	ctx, op := s.begin(ctx, OperationInquire, req.PHRN, req.SendPartnerCode)
	res, err := s.inquire(ctx, op, req)
	return res, op.end(err)
}

func (s *RemittanceService) inquire(ctx context.Context, op *operation, req remittance.InquireRequest) (*Result, error) {
	body := perahub.NewInquireBody(req)
	payload := toJSON(body)

	resp, err := callGateway(ctx, s, op, perahub.PathInquire, body, payload, s.gateway.Inquire)
	if err != nil {
		return nil, s.fail(ctx, op, req.PHRN, payload, err)
	}

	return &Result{
		TransactionID: req.PHRN,
		Message:       messageOr(resp.Message, "Inquiry successful"),
		Data:          resp.Body,
	}, nil
}

// Send validates and then confirms a send. Confirm is only attempted after a
// successful validate that returned a reference number.
func (s *RemittanceService) Send(ctx context.Context, req remittance.SendRequest) (*Result, error) {
	if req.PartnerReferenceNumber == "" {
		return nil, domainErrors.NewValidationError("partner_reference_number", "required")
	}
	if req.SendPartnerCode == "" {
		return nil, domainErrors.NewValidationError("send_partner_code", "required")
	}

	ctx, op := s.begin(ctx, OperationSend, req.PartnerReferenceNumber, req.SendPartnerCode)
	res, err := s.send(ctx, op, req)
	return res, op.end(err)
}

func (s *RemittanceService) send(ctx context.Context, op *operation, req remittance.SendRequest) (*Result, error) {
	validateBody := perahub.NewSendValidateBody(req)
	payload := toJSON(validateBody)

	validated, err := callGateway(ctx, s, op, perahub.PathSendValidate, validateBody, payload, s.gateway.SendValidate)
	if err != nil {
		return nil, s.fail(ctx, op, req.PartnerReferenceNumber, payload, err)
	}

	var ref string
	if validated.Result != nil {
		ref = validated.Result.SendValidateReferenceNumber
	}
	if ref == "" {
		return nil, s.fail(ctx, op, req.PartnerReferenceNumber, payload,
			fmt.Errorf("%s: %w", perahub.PathSendValidate, domainErrors.ErrMissingReference))
	}

	confirmBody := perahub.SendConfirmBody{SendValidateReferenceNumber: ref}
	confirmed, err := callGateway(ctx, s, op, perahub.PathSendConfirm, confirmBody, toJSON(confirmBody), s.gateway.SendConfirm)
	if err != nil {
		return nil, s.fail(ctx, op, req.PartnerReferenceNumber, payload, err)
	}

	var phrn string
	if confirmed.Result != nil {
		phrn = confirmed.Result.PHRN
	}
	if phrn == "" {
		return nil, s.fail(ctx, op, req.PartnerReferenceNumber, payload,
			fmt.Errorf("%s: %w", perahub.PathSendConfirm, domainErrors.ErrMissingReference))
	}

	_, err = s.store.CompleteTransaction(ctx, phrn, req.SendPartnerCode, payload, confirmed.LogBody(), req.PartnerReferenceNumber)
	if err != nil {
		return nil, s.fail(ctx, op, req.PartnerReferenceNumber, payload, err)
	}

	op.log.Info().Str("phrn", phrn).Msg("send completed")
	return &Result{
		TransactionID: phrn,
		Message:       messageOr(confirmed.Message, "Send successful"),
		Data:          confirmed.ResultRaw,
	}, nil
}

// Payout validates and confirms the payout of a remittance previously sent
// through this service. The payout partner is the partner that owns the send.
func (s *RemittanceService) Payout(ctx context.Context, req remittance.PayoutRequest) (*Result, error) {
	if req.PHRN == "" {
		return nil, domainErrors.NewValidationError("phrn", "required")
	}

	ctx, op := s.begin(ctx, OperationPayout, req.PHRN, "")
	res, err := s.payout(ctx, op, req)
	return res, op.end(err)
}

func (s *RemittanceService) payout(ctx context.Context, op *operation, req remittance.PayoutRequest) (*Result, error) {
	original, err := s.store.FindSuccessfulByTransactionID(ctx, req.PHRN)
	if err != nil {
		return nil, err
	}

	partnerID := original.PartnerID
	if req.AuthorizedPartner != "" && req.AuthorizedPartner != partnerID {
		return nil, domainErrors.ErrPartnerMismatch
	}
	op.partnerID = partnerID
	op.log = op.log.With().Str("partner_id", partnerID).Logger()

	validateBody := perahub.NewReceiveValidateBody(req, partnerID)
	payload := toJSON(validateBody)

	validated, err := callGateway(ctx, s, op, perahub.PathReceiveValidate, validateBody, payload, s.gateway.ReceiveValidate)
	if err != nil {
		return nil, s.fail(ctx, op, req.PHRN, payload, err)
	}

	var ref string
	if validated.Result != nil {
		ref = validated.Result.PayoutValidateReferenceNumber
	}
	if ref == "" {
		return nil, s.fail(ctx, op, req.PHRN, payload,
			fmt.Errorf("%s: %w", perahub.PathReceiveValidate, domainErrors.ErrMissingReference))
	}

	confirmBody := perahub.ReceiveConfirmBody{PayoutValidateReferenceNumber: ref}
	confirmed, err := callGateway(ctx, s, op, perahub.PathReceiveConfirm, confirmBody, toJSON(confirmBody), s.gateway.ReceiveConfirm)
	if err != nil {
		return nil, s.fail(ctx, op, req.PHRN, payload, err)
	}

	transactionID := req.PHRN
	if confirmed.Result != nil && confirmed.Result.PHRN != "" {
		transactionID = confirmed.Result.PHRN
	}

	_, err = s.store.CompleteTransaction(ctx, transactionID, partnerID, payload, confirmed.LogBody(), req.PHRN)
	if err != nil {
		return nil, s.fail(ctx, op, req.PHRN, payload, err)
	}

	op.log.Info().Str("phrn", transactionID).Msg("payout completed")
	return &Result{
		TransactionID: transactionID,
		Message:       messageOr(confirmed.Message, "Payout successful"),
		Data:          confirmed.ResultRaw,
	}, nil
}

// callGateway performs one audited upstream call: a RAW entry before the call
// and an ACTUAL entry after it, whatever the outcome. A logical failure is
// returned as *errors.UpstreamError alongside the response.
func callGateway[B, T any](
	ctx context.Context,
	s *RemittanceService,
	op *operation,
	endpoint string,
	body B,
	payload json.RawMessage,
	call func(context.Context, B) (*perahub.Response[T], error),
) (*perahub.Response[T], error) {
	ctx, span := s.tracer.Start(ctx, "perahub "+endpoint, trace.WithAttributes(
		attribute.String("remittance.endpoint", endpoint),
	))
	defer span.End()

	s.audit.LogRaw(ctx, endpoint, payload, op.partnerID)

	started := time.Now()
	resp, err := call(ctx, body)
	if err != nil {
		s.metrics.ObserveUpstream(endpoint, "error", started)
		s.audit.LogActual(ctx, endpoint, payload, errorBody(err), op.partnerID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		op.log.Error().Err(err).Str("endpoint", endpoint).Msg("upstream call failed")
		return nil, err
	}

	s.audit.LogActual(ctx, endpoint, payload, resp.LogBody(), op.partnerID)
	span.SetAttributes(
		attribute.Int("http.status_code", resp.HTTPStatus),
		attribute.Int("remittance.code", resp.Code),
	)

	if err := resp.Err(endpoint); err != nil {
		s.metrics.ObserveUpstream(endpoint, "failed", started)
		span.SetStatus(codes.Error, "upstream rejected")
		op.log.Warn().
			Str("endpoint", endpoint).
			Int("http_status", resp.HTTPStatus).
			Int("code", resp.Code).
			Str("message", resp.Message).
			Msg("upstream call rejected")
		return resp, err
	}

	s.metrics.ObserveUpstream(endpoint, "success", started)
	op.log.Debug().Str("endpoint", endpoint).Msg("upstream call succeeded")
	return resp, nil
}

// fail records the attempt as pending and returns cause. A store failure is
// logged and joined so the caller still sees why the attempt failed.
func (s *RemittanceService) fail(ctx context.Context, op *operation, transactionID string, payload json.RawMessage, cause error) error {
	if err := s.store.RecordFailure(ctx, op.name, transactionID, op.partnerID, payload, failureMessage(cause)); err != nil {
		op.log.Error().Err(err).Msg("failed to record pending transaction")
		return errors.Join(cause, err)
	}
	return cause
}

// operation carries the per-call state shared by the steps of one orchestration.
type operation struct {
	name      string
	partnerID string
	started   time.Time
	span      trace.Span
	log       zerolog.Logger
	metrics   *observability.Metrics
}

// begin starts an operation. The returned context is detached from the
// caller's cancellation: once started, an operation runs to completion and
// its audit and store writes still apply if the inbound connection drops.
func (s *RemittanceService) begin(ctx context.Context, name, transactionID, partnerID string) (context.Context, *operation) {
	ctx, span := s.tracer.Start(context.WithoutCancel(ctx), "RemittanceService."+name, trace.WithAttributes(
		attribute.String("remittance.operation", name),
		attribute.String("remittance.transaction_id", transactionID),
	))
	return ctx, &operation{
		name:      name,
		partnerID: partnerID,
		started:   time.Now(),
		span:      span,
		log:       observability.ForOperation(s.logger, name, transactionID, partnerID),
		metrics:   s.metrics,
	}
}

func (op *operation) end(err error) error {
	defer op.span.End()

	outcome := outcomeOf(err)
	op.metrics.ObserveOperation(op.name, outcome, op.started)
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, outcome)
		op.log.Warn().Err(err).Str("outcome", outcome).Msg("operation failed")
		return err
	}
	op.span.SetStatus(codes.Ok, "")
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domainErrors.ErrTransactionNotFound):
		return "not_found"
	case errors.Is(err, domainErrors.ErrPartnerMismatch):
		return "forbidden"
	case errors.Is(err, domainErrors.ErrMissingReference):
		return "missing_reference"
	case errors.Is(err, domainErrors.ErrUpstreamFailed):
		return "rejected"
	default:
		return "error"
	}
}

// failureMessage is what a pending row stores: the upstream body when the
// provider answered, otherwise the error text.
func failureMessage(err error) string {
	var upstreamErr *domainErrors.UpstreamError
	if errors.As(err, &upstreamErr) && len(upstreamErr.Body) > 0 {
		return string(upstreamErr.Body)
	}
	if errors.Is(err, domainErrors.ErrMissingReference) {
		return missingReferenceMessage
	}
	return err.Error()
}

func errorBody(err error) json.RawMessage {
	return toJSON(map[string]string{"error": err.Error()})
}

func toJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
