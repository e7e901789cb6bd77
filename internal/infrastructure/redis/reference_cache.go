package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const referenceKeyPrefix = "remittance:reference:"

// ReferenceCache stores provider reference lists as JSON with a TTL.
type ReferenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReferenceCache creates a cache whose entries expire after ttl.
func NewReferenceCache(client *redis.Client, ttl time.Duration) *ReferenceCache {
	return &ReferenceCache{client: client, ttl: ttl}
}

// Get returns the cached list for kind. The boolean is false on a cache miss.
func (c *ReferenceCache) Get(ctx context.Context, kind string) ([]map[string]any, bool, error) {
	raw, err := c.client.Get(ctx, referenceKeyPrefix+kind).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get reference %s: %w", kind, err)
	}

	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, fmt.Errorf("decode reference %s: %w", kind, err)
	}
	return list, true, nil
}

// Set stores the list for kind.
func (c *ReferenceCache) Set(ctx context.Context, kind string, list []map[string]any) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode reference %s: %w", kind, err)
	}
	if err := c.client.Set(ctx, referenceKeyPrefix+kind, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set reference %s: %w", kind, err)
	}
	return nil
}

// Invalidate drops the cached list for kind.
func (c *ReferenceCache) Invalidate(ctx context.Context, kind string) error {
	return c.client.Del(ctx, referenceKeyPrefix+kind).Err()
}
