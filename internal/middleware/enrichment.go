package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/cassiomorais/remittance/internal/infrastructure/perahub"
	"github.com/cassiomorais/remittance/internal/service"
)

const referencesKey contextKey = "references"

// maxEnrichBody bounds how much of an inbound body is buffered for enrichment.
const maxEnrichBody = 1 << 20

// ReferenceResolver resolves inbound codes against provider reference lists.
type ReferenceResolver interface {
	ResolveAll(ctx context.Context, lookups []service.ReferenceLookup) (map[perahub.ReferenceKind]map[string]any, error)
}

// ReferenceRule binds an inbound body field to the reference-list field it must match.
type ReferenceRule struct {
	BodyField       string
	Kind            perahub.ReferenceKind
	ListField       string
	CaseInsensitive bool
	Label           string
}

// InquireReferences are checked before an inquire.
var InquireReferences = []ReferenceRule{
	{BodyField: "send_partner_code", Kind: perahub.ReferencePartner, ListField: "partner_code", Label: "partner code"},
}

// SendReferences are checked before a send.
var SendReferences = []ReferenceRule{
	{BodyField: "send_partner_code", Kind: perahub.ReferencePartner, ListField: "partner_code", Label: "partner code"},
	{BodyField: "sender_purpose", Kind: perahub.ReferencePurpose, ListField: "purpose_of_remittance", Label: "purpose"},
	{BodyField: "sender_occupation", Kind: perahub.ReferenceOccupation, ListField: "occupation", Label: "occupation"},
	{BodyField: "sender_employment_nature", Kind: perahub.ReferenceEmployment, ListField: "employment_nature", Label: "employment nature"},
	{BodyField: "sender_source_of_fund", Kind: perahub.ReferenceSourceOfFund, ListField: "source_of_fund", Label: "source of fund"},
	{BodyField: "sender_relationship", Kind: perahub.ReferenceRelationship, ListField: "relationship", CaseInsensitive: true, Label: "relationship"},
}

// Enrich resolves the codes named by rules against the provider's reference
// lists before the handler runs. An unknown code is rejected with 403 and an
// unreachable list with 500. Fields that are absent are left for request
// validation to report. Matched records are stored on the request context.
func Enrich(resolver ReferenceResolver, rules []ReferenceRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(io.LimitReader(r.Body, maxEnrichBody))
			if err != nil {
				writeFailure(w, http.StatusBadRequest, "unable to read request body", "invalid_body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))

			var fields map[string]any
			if err := json.Unmarshal(raw, &fields); err != nil {
				// Malformed bodies are reported by the handler.
				next.ServeHTTP(w, r)
				return
			}

			lookups := make([]service.ReferenceLookup, 0, len(rules))
			labels := make(map[perahub.ReferenceKind]string, len(rules))
			for _, rule := range rules {
				code, ok := fields[rule.BodyField].(string)
				if !ok || code == "" {
					continue
				}
				lookups = append(lookups, service.ReferenceLookup{
					Kind:            rule.Kind,
					Field:           rule.ListField,
					Code:            code,
					CaseInsensitive: rule.CaseInsensitive,
				})
				labels[rule.Kind] = rule.Label
			}
			if len(lookups) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			matched, err := resolver.ResolveAll(r.Context(), lookups)
			if err != nil {
				var notFound *domainErrors.NotFoundError
				switch {
				case errors.As(err, &notFound):
					label := labels[perahub.ReferenceKind(notFound.Kind)]
					writeFailure(w, http.StatusForbidden, fmt.Sprintf("invalid %s", label), "reference_not_found")
				default:
					writeFailure(w, http.StatusInternalServerError, "unable to fetch reference data", "reference_unavailable")
				}
				return
			}

			ctx := context.WithValue(r.Context(), referencesKey, matched)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// References returns the reference records matched for the request.
func References(ctx context.Context) map[perahub.ReferenceKind]map[string]any {
	matched, _ := ctx.Value(referencesKey).(map[perahub.ReferenceKind]map[string]any)
	return matched
}
