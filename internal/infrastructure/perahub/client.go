package perahub

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/cassiomorais/remittance/internal/infrastructure/config"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Gateway paths, relative to the configured base URL.
const (
	PathInquire         = "/v1/remit/dmt/inquire"
	PathSendValidate    = "/v1/remit/dmt/send/validate"
	PathSendConfirm     = "/v1/remit/dmt/send/confirm"
	PathReceiveValidate = "/v1/remit/dmt/receive/validate"
	PathReceiveConfirm  = "/v1/remit/dmt/receive/confirm"
	pathReferencePrefix = "/v1/remit/dmt/"
)

// TokenHeader carries the static gateway token on every call.
const TokenHeader = "X-Perahub-Gateway-Token"

// maxBodyBytes bounds how much of an upstream reply is read.
const maxBodyBytes = 4 << 20

// Client talks to the remittance gateway. Every call is a single synchronous
// attempt bounded by the configured timeout.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]map[string]any]
}

type Option func(*clientOptions)

type clientOptions struct {
	httpClient    *http.Client
	onStateChange func(name string, from, to gobreaker.State)
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithBreakerStateHook is called whenever the reference-data breaker changes state.
func WithBreakerStateHook(fn func(name string, from, to gobreaker.State)) Option {
	return func(o *clientOptions) { o.onStateChange = fn }
}

// NewClient creates a gateway client from cfg. Certificate verification follows
// cfg.InsecureSkipVerify; the provider's gateway is trusted without it.
func NewClient(cfg *config.PerahubConfig, opts ...Option) *Client {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // upstream gateway trust decision
		}
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(transport),
		}
	}

	failures := cfg.ReferenceBreakerFailures
	if failures == 0 {
		failures = 5
	}
	openTimeout := cfg.ReferenceBreakerTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.GatewayToken,
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker[[]map[string]any](gobreaker.Settings{
			Name:        "perahub-reference",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: o.onStateChange,
		}),
	}
}

// Inquire asks the gateway for the status of a remittance.
func (c *Client) Inquire(ctx context.Context, body InquireBody) (*Response[json.RawMessage], error) {
	return post[json.RawMessage](ctx, c, PathInquire, body)
}

// SendValidate validates a send and returns a short-lived reference.
func (c *Client) SendValidate(ctx context.Context, body SendValidateBody) (*Response[SendValidateResult], error) {
	return post[SendValidateResult](ctx, c, PathSendValidate, body)
}

// SendConfirm finalizes a validated send.
func (c *Client) SendConfirm(ctx context.Context, body SendConfirmBody) (*Response[ConfirmResult], error) {
	return post[ConfirmResult](ctx, c, PathSendConfirm, body)
}

// ReceiveValidate validates a payout and returns a short-lived reference.
func (c *Client) ReceiveValidate(ctx context.Context, body ReceiveValidateBody) (*Response[PayoutValidateResult], error) {
	return post[PayoutValidateResult](ctx, c, PathReceiveValidate, body)
}

// ReceiveConfirm finalizes a validated payout.
func (c *Client) ReceiveConfirm(ctx context.Context, body ReceiveConfirmBody) (*Response[ConfirmResult], error) {
	return post[ConfirmResult](ctx, c, PathReceiveConfirm, body)
}

func post[T any](ctx context.Context, c *Client, path string, body any) (*Response[T], error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, raw, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w: %w", path, domainErrors.ErrUpstreamUnavailable, err)
	}
	return parseResponse[T](status, raw), nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.Header.Set(TokenHeader, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, raw, nil
}
