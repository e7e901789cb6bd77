package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/cassiomorais/remittance/internal/infrastructure/observability"
	"github.com/cassiomorais/remittance/internal/infrastructure/perahub"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ReferenceSource fetches reference-data lists from the provider.
type ReferenceSource interface {
	ReferenceList(ctx context.Context, kind perahub.ReferenceKind) ([]map[string]any, error)
}

// ReferenceCache keeps reference-data lists between requests.
type ReferenceCache interface {
	Get(ctx context.Context, kind string) ([]map[string]any, bool, error)
	Set(ctx context.Context, kind string, list []map[string]any) error
}

// ReferenceLookup is one inbound code to resolve against a reference list.
type ReferenceLookup struct {
	Kind            perahub.ReferenceKind
	Field           string
	Code            string
	CaseInsensitive bool
}

// ReferenceService resolves inbound codes against provider reference lists.
type ReferenceService struct {
	source  ReferenceSource
	cache   ReferenceCache
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewReferenceService creates a new ReferenceService. cache may be nil, in
// which case every lookup goes to the provider.
func NewReferenceService(source ReferenceSource, cache ReferenceCache, metrics *observability.Metrics, logger zerolog.Logger) *ReferenceService {
	return &ReferenceService{source: source, cache: cache, metrics: metrics, logger: logger}
}

// Resolve returns the list record whose Field equals Code. It fails with
// errors.ErrReferenceNotFound when no record matches and with
// errors.ErrReferenceUnavailable when the list cannot be fetched.
func (s *ReferenceService) Resolve(ctx context.Context, lookup ReferenceLookup) (map[string]any, error) {
	list, err := s.list(ctx, lookup.Kind)
	if err != nil {
		return nil, err
	}

	for _, item := range list {
		value, ok := item[lookup.Field]
		if !ok || value == nil {
			continue
		}
		candidate := fmt.Sprint(value)
		if candidate == lookup.Code || (lookup.CaseInsensitive && strings.EqualFold(candidate, lookup.Code)) {
			return item, nil
		}
	}
	return nil, domainErrors.NewReferenceNotFound(string(lookup.Kind), lookup.Code)
}

// ResolveAll resolves every lookup concurrently and returns the matched
// records by kind. The first failure cancels the rest.
func (s *ReferenceService) ResolveAll(ctx context.Context, lookups []ReferenceLookup) (map[perahub.ReferenceKind]map[string]any, error) {
	var mu sync.Mutex
	matched := make(map[perahub.ReferenceKind]map[string]any, len(lookups))

	g, gctx := errgroup.WithContext(ctx)
	for _, lookup := range lookups {
		g.Go(func() error {
			item, err := s.Resolve(gctx, lookup)
			if err != nil {
				return err
			}
			mu.Lock()
			matched[lookup.Kind] = item
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matched, nil
}

func (s *ReferenceService) list(ctx context.Context, kind perahub.ReferenceKind) ([]map[string]any, error) {
	if s.cache != nil {
		list, ok, err := s.cache.Get(ctx, string(kind))
		if err != nil {
			s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("reference cache read failed")
		}
		if ok {
			s.metrics.ReferenceLookup(string(kind), "cache")
			return list, nil
		}
	}

	list, err := s.source.ReferenceList(ctx, kind)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", string(kind)).Msg("failed to fetch reference list")
		return nil, err
	}
	s.metrics.ReferenceLookup(string(kind), "upstream")

	if s.cache != nil {
		if err := s.cache.Set(ctx, string(kind), list); err != nil {
			s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("reference cache write failed")
		}
	}
	return list, nil
}
