package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cassiomorais/remittance/internal/infrastructure/perahub"
)

// MockGateway is a scripted provider double. Unscripted calls succeed with an
// empty result. Every call is counted per endpoint path.
type MockGateway struct {
	mu    sync.Mutex
	calls map[string]int

	InquireFunc         func(ctx context.Context, body perahub.InquireBody) (*perahub.Response[json.RawMessage], error)
	SendValidateFunc    func(ctx context.Context, body perahub.SendValidateBody) (*perahub.Response[perahub.SendValidateResult], error)
	SendConfirmFunc     func(ctx context.Context, body perahub.SendConfirmBody) (*perahub.Response[perahub.ConfirmResult], error)
	ReceiveValidateFunc func(ctx context.Context, body perahub.ReceiveValidateBody) (*perahub.Response[perahub.PayoutValidateResult], error)
	ReceiveConfirmFunc  func(ctx context.Context, body perahub.ReceiveConfirmBody) (*perahub.Response[perahub.ConfirmResult], error)
}

func NewMockGateway() *MockGateway {
	return &MockGateway{calls: make(map[string]int)}
}

func (g *MockGateway) record(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[path]++
}

// Calls returns how many times the endpoint path was called.
func (g *MockGateway) Calls(path string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[path]
}

// TotalCalls returns the number of calls across every endpoint.
func (g *MockGateway) TotalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := 0
	for _, n := range g.calls {
		total += n
	}
	return total
}

func (g *MockGateway) Inquire(ctx context.Context, body perahub.InquireBody) (*perahub.Response[json.RawMessage], error) {
	g.record(perahub.PathInquire)
	if g.InquireFunc != nil {
		return g.InquireFunc(ctx, body)
	}
	return OKResponse(json.RawMessage(`{}`)), nil
}

func (g *MockGateway) SendValidate(ctx context.Context, body perahub.SendValidateBody) (*perahub.Response[perahub.SendValidateResult], error) {
	g.record(perahub.PathSendValidate)
	if g.SendValidateFunc != nil {
		return g.SendValidateFunc(ctx, body)
	}
	return OKResponse(perahub.SendValidateResult{SendValidateReferenceNumber: "SV-DEFAULT"}), nil
}

func (g *MockGateway) SendConfirm(ctx context.Context, body perahub.SendConfirmBody) (*perahub.Response[perahub.ConfirmResult], error) {
	g.record(perahub.PathSendConfirm)
	if g.SendConfirmFunc != nil {
		return g.SendConfirmFunc(ctx, body)
	}
	return OKResponse(perahub.ConfirmResult{PHRN: "PH-DEFAULT"}), nil
}

func (g *MockGateway) ReceiveValidate(ctx context.Context, body perahub.ReceiveValidateBody) (*perahub.Response[perahub.PayoutValidateResult], error) {
	g.record(perahub.PathReceiveValidate)
	if g.ReceiveValidateFunc != nil {
		return g.ReceiveValidateFunc(ctx, body)
	}
	return OKResponse(perahub.PayoutValidateResult{PayoutValidateReferenceNumber: "PV-DEFAULT"}), nil
}

func (g *MockGateway) ReceiveConfirm(ctx context.Context, body perahub.ReceiveConfirmBody) (*perahub.Response[perahub.ConfirmResult], error) {
	g.record(perahub.PathReceiveConfirm)
	if g.ReceiveConfirmFunc != nil {
		return g.ReceiveConfirmFunc(ctx, body)
	}
	return OKResponse(perahub.ConfirmResult{}), nil
}

// OKResponse builds a successful gateway reply carrying result.
func OKResponse[T any](result T) *perahub.Response[T] {
	raw, _ := json.Marshal(result)
	body, _ := json.Marshal(map[string]any{"code": perahub.CodeOK, "message": "OK", "result": json.RawMessage(raw)})
	return &perahub.Response[T]{
		HTTPStatus: 200,
		Code:       perahub.CodeOK,
		Message:    "OK",
		Result:     &result,
		ResultRaw:  raw,
		Body:       body,
		Raw:        string(body),
	}
}

// RejectedResponse builds a gateway reply that failed with the given HTTP
// status and application code.
func RejectedResponse[T any](httpStatus, code int, message string) *perahub.Response[T] {
	body, _ := json.Marshal(map[string]any{"code": code, "message": message})
	return &perahub.Response[T]{
		HTTPStatus: httpStatus,
		Code:       code,
		Message:    message,
		Body:       body,
		Raw:        string(body),
	}
}

// MockReferenceSource serves fixed reference lists and counts fetches.
type MockReferenceSource struct {
	mu      sync.Mutex
	fetches map[string]int

	Lists map[perahub.ReferenceKind][]map[string]any
	Err   error
}

func NewMockReferenceSource(lists map[perahub.ReferenceKind][]map[string]any) *MockReferenceSource {
	return &MockReferenceSource{Lists: lists, fetches: make(map[string]int)}
}

func (s *MockReferenceSource) ReferenceList(_ context.Context, kind perahub.ReferenceKind) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches[string(kind)]++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Lists[kind], nil
}

// Fetches returns how many times the list was requested.
func (s *MockReferenceSource) Fetches(kind perahub.ReferenceKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[string(kind)]
}
