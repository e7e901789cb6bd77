package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/cassiomorais/remittance/internal/infrastructure/perahub"
	"github.com/cassiomorais/remittance/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	lists  map[string][]map[string]any
	getErr error
}

func (c *memoryCache) Get(_ context.Context, kind string) ([]map[string]any, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	list, ok := c.lists[kind]
	return list, ok, nil
}

func (c *memoryCache) Set(_ context.Context, kind string, list []map[string]any) error {
	c.lists[kind] = list
	return nil
}

func referenceLists() map[perahub.ReferenceKind][]map[string]any {
	return map[perahub.ReferenceKind][]map[string]any{
		perahub.ReferencePartner:      {{"partner_code": "SP1", "partner_name": "Send Partner"}},
		perahub.ReferencePurpose:      {{"purpose_of_remittance": "Gift"}},
		perahub.ReferenceOccupation:   {{"occupation": "Engineer"}},
		perahub.ReferenceEmployment:   {{"employment_nature": "Employed"}},
		perahub.ReferenceSourceOfFund: {{"source_of_fund": "Salary"}},
		perahub.ReferenceRelationship: {{"relationship": "Family"}},
	}
}

func TestReferenceService_Resolve(t *testing.T) {
	source := testutil.NewMockReferenceSource(referenceLists())
	svc := NewReferenceService(source, nil, nil, zerolog.Nop())

	item, err := svc.Resolve(context.Background(), ReferenceLookup{
		Kind: perahub.ReferencePartner, Field: "partner_code", Code: "SP1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Send Partner", item["partner_name"])
}

func TestReferenceService_Resolve_NotFound(t *testing.T) {
	source := testutil.NewMockReferenceSource(referenceLists())
	svc := NewReferenceService(source, nil, nil, zerolog.Nop())

	_, err := svc.Resolve(context.Background(), ReferenceLookup{
		Kind: perahub.ReferencePartner, Field: "partner_code", Code: "sp1",
	})
	assert.ErrorIs(t, err, domainErrors.ErrReferenceNotFound)
}

func TestReferenceService_Resolve_CaseInsensitive(t *testing.T) {
	source := testutil.NewMockReferenceSource(referenceLists())
	svc := NewReferenceService(source, nil, nil, zerolog.Nop())

	item, err := svc.Resolve(context.Background(), ReferenceLookup{
		Kind: perahub.ReferenceRelationship, Field: "relationship", Code: "FAMILY", CaseInsensitive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Family", item["relationship"])
}

func TestReferenceService_Resolve_Unavailable(t *testing.T) {
	source := testutil.NewMockReferenceSource(nil)
	source.Err = fmt.Errorf("partner list: %w", domainErrors.ErrReferenceUnavailable)
	svc := NewReferenceService(source, nil, nil, zerolog.Nop())

	_, err := svc.Resolve(context.Background(), ReferenceLookup{
		Kind: perahub.ReferencePartner, Field: "partner_code", Code: "SP1",
	})
	assert.ErrorIs(t, err, domainErrors.ErrReferenceUnavailable)
}

func TestReferenceService_UsesCache(t *testing.T) {
	source := testutil.NewMockReferenceSource(referenceLists())
	cache := &memoryCache{lists: map[string][]map[string]any{}}
	svc := NewReferenceService(source, cache, nil, zerolog.Nop())
	lookup := ReferenceLookup{Kind: perahub.ReferencePurpose, Field: "purpose_of_remittance", Code: "Gift"}

	for range 3 {
		_, err := svc.Resolve(context.Background(), lookup)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, source.Fetches(perahub.ReferencePurpose))
}

func TestReferenceService_CacheReadFailureFallsBack(t *testing.T) {
	source := testutil.NewMockReferenceSource(referenceLists())
	cache := &memoryCache{lists: map[string][]map[string]any{}, getErr: errors.New("redis down")}
	svc := NewReferenceService(source, cache, nil, zerolog.Nop())

	_, err := svc.Resolve(context.Background(), ReferenceLookup{
		Kind: perahub.ReferenceOccupation, Field: "occupation", Code: "Engineer",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, source.Fetches(perahub.ReferenceOccupation))
}

func TestReferenceService_ResolveAll(t *testing.T) {
	source := testutil.NewMockReferenceSource(referenceLists())
	svc := NewReferenceService(source, nil, nil, zerolog.Nop())

	lookups := []ReferenceLookup{
		{Kind: perahub.ReferencePartner, Field: "partner_code", Code: "SP1"},
		{Kind: perahub.ReferencePurpose, Field: "purpose_of_remittance", Code: "Gift"},
		{Kind: perahub.ReferenceOccupation, Field: "occupation", Code: "Engineer"},
		{Kind: perahub.ReferenceEmployment, Field: "employment_nature", Code: "Employed"},
		{Kind: perahub.ReferenceSourceOfFund, Field: "source_of_fund", Code: "Salary"},
		{Kind: perahub.ReferenceRelationship, Field: "relationship", Code: "family", CaseInsensitive: true},
	}

	matched, err := svc.ResolveAll(context.Background(), lookups)
	require.NoError(t, err)
	assert.Len(t, matched, 6)
	assert.Equal(t, "Salary", matched[perahub.ReferenceSourceOfFund]["source_of_fund"])
}

func TestReferenceService_ResolveAll_OneMissing(t *testing.T) {
	source := testutil.NewMockReferenceSource(referenceLists())
	svc := NewReferenceService(source, nil, nil, zerolog.Nop())

	_, err := svc.ResolveAll(context.Background(), []ReferenceLookup{
		{Kind: perahub.ReferencePartner, Field: "partner_code", Code: "SP1"},
		{Kind: perahub.ReferencePurpose, Field: "purpose_of_remittance", Code: "Bribe"},
	})
	assert.ErrorIs(t, err, domainErrors.ErrReferenceNotFound)
}
