package perahub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
)

// CodeOK is the application-level code the gateway returns for a successful call.
const CodeOK = 200

// Response is a gateway reply resolved once at the client boundary. Result is
// nil when the body carried no result or the result did not match T.
type Response[T any] struct {
	HTTPStatus int
	Code       int
	Message    string
	Result     *T
	ResultRaw  json.RawMessage
	Body       json.RawMessage
	Raw        string
}

// HTTPSucceeded reports whether the HTTP status was in the 2xx range.
func (r *Response[T]) HTTPSucceeded() bool {
	return r.HTTPStatus >= http.StatusOK && r.HTTPStatus < http.StatusMultipleChoices
}

// Succeeded reports whether the call succeeded both at HTTP level and at
// application level.
func (r *Response[T]) Succeeded() bool {
	return r.HTTPSucceeded() && r.Code == CodeOK
}

// Err returns an *errors.UpstreamError when the call did not succeed.
func (r *Response[T]) Err(endpoint string) error {
	if r.Succeeded() {
		return nil
	}
	return &domainErrors.UpstreamError{
		Endpoint:   endpoint,
		HTTPStatus: r.HTTPStatus,
		Code:       r.Code,
		Message:    r.Message,
		Body:       []byte(r.Raw),
	}
}

// LogBody is the response as it should appear in the audit trail: the JSON body
// when there is one, otherwise the raw text as a JSON string.
func (r *Response[T]) LogBody() json.RawMessage {
	if len(r.Body) > 0 {
		return r.Body
	}
	if r.Raw == "" {
		return nil
	}
	b, err := json.Marshal(r.Raw)
	if err != nil {
		return nil
	}
	return b
}

type envelope struct {
	Code    appCode         `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// appCode accepts the code field as either a JSON number or a numeric string.
type appCode int

func (c *appCode) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	n, err := strconv.Atoi(s)
	if err != nil {
		*c = 0
		return nil
	}
	*c = appCode(n)
	return nil
}

func parseResponse[T any](status int, raw []byte) *Response[T] {
	resp := &Response[T]{HTTPStatus: status, Raw: string(raw)}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return resp
	}
	resp.Body = json.RawMessage(trimmed)

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return resp
	}
	resp.Code = int(env.Code)
	resp.Message = env.Message

	if len(env.Result) == 0 || bytes.Equal(env.Result, []byte("null")) {
		return resp
	}
	resp.ResultRaw = env.Result

	var result T
	if err := json.Unmarshal(env.Result, &result); err == nil {
		resp.Result = &result
	}
	return resp
}
