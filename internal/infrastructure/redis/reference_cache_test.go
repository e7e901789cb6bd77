package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cassiomorais/remittance/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ReferenceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReferenceCache(client, ttl), mr
}

func TestReferenceCache_GetMiss(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	list, ok, err := cache.Get(context.Background(), "partner")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, list)
}

func TestReferenceCache_SetThenGet(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	list := []map[string]any{{"partner_code": "SP1", "name": "Send Partner"}}
	require.NoError(t, cache.Set(ctx, "partner", list))

	got, ok, err := cache.Get(ctx, "partner")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "SP1", got[0]["partner_code"])
	assert.Equal(t, time.Minute, mr.TTL(referenceKeyPrefix+"partner"))
}

func TestReferenceCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "purpose", []map[string]any{{"purpose_of_remittance": "Gift"}}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "purpose")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReferenceCache_CorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(referenceKeyPrefix+"occupation", "not-json"))

	_, ok, err := cache.Get(context.Background(), "occupation")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestReferenceCache_Invalidate(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "relationship", []map[string]any{}))
	require.NoError(t, cache.Invalidate(ctx, "relationship"))
	assert.False(t, mr.Exists(referenceKeyPrefix+"relationship"))
}

func TestNewClient_Connects(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg := &config.RedisConfig{Host: mr.Host(), Port: port, ConnectRetries: 1}

	client, err := NewClient(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg := &config.RedisConfig{Host: mr.Host(), Port: port, ConnectRetries: 2, ConnectRetryDelay: time.Millisecond}
	mr.Close()

	_, err = NewClient(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
