package perahub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/sony/gobreaker/v2"
)

// ReferenceKind names a reference-data list exposed by the gateway.
type ReferenceKind string

const (
	ReferencePartner      ReferenceKind = "partner"
	ReferencePurpose      ReferenceKind = "purpose"
	ReferenceOccupation   ReferenceKind = "occupation"
	ReferenceEmployment   ReferenceKind = "employment"
	ReferenceSourceOfFund ReferenceKind = "sourcefund"
	ReferenceRelationship ReferenceKind = "relationship"
)

// Path returns the gateway path of the list.
func (k ReferenceKind) Path() string {
	return pathReferencePrefix + string(k)
}

// ReferenceList fetches a reference-data list. Calls go through a circuit
// breaker so a failing gateway does not stall every enrichment.
func (c *Client) ReferenceList(ctx context.Context, kind ReferenceKind) ([]map[string]any, error) {
	items, err := c.breaker.Execute(func() ([]map[string]any, error) {
		return c.fetchReference(ctx, kind)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s list: %w: %v", kind, domainErrors.ErrReferenceUnavailable, err)
		}
		return nil, err
	}
	return items, nil
}

func (c *Client) fetchReference(ctx context.Context, kind ReferenceKind) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+kind.Path(), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", kind, err)
	}

	status, raw, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s list: %w: %v", kind, domainErrors.ErrReferenceUnavailable, err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s list: %w: http %d", kind, domainErrors.ErrReferenceUnavailable, status)
	}

	var body struct {
		Result []map[string]any `json:"result"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%s list: %w: decode: %v", kind, domainErrors.ErrReferenceUnavailable, err)
	}
	return body.Result, nil
}
