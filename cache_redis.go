package permkit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "permkit:effective:"

// RedisCache is a Cache backed by Redis, for deployments where several
// processes should share one effective-permission cache. Entries are stored
// as JSON under "permkit:effective:<userID>" and expire through the native
// Redis TTL, so staleness needs no timestamp bookkeeping here.
//
// Redis faults are treated as misses on read and dropped on write: a broken
// cache degrades to recomputation, never to a failed query.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache over an existing client. A non-positive
// ttl falls back to DefaultCacheTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached set for a user, or a miss if absent, expired, or
// unreadable.
func (c *RedisCache) Get(ctx context.Context, userID string) (*EffectivePermissions, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+userID).Bytes()
	if err != nil {
		return nil, false
	}

	var set EffectivePermissions
	if err := json.Unmarshal(data, &set); err != nil {
		// Unreadable payloads are purged so the next write starts clean.
		c.client.Del(ctx, redisKeyPrefix+userID)
		return nil, false
	}
	return &set, true
}

// Put stores the set for a user with the cache TTL.
func (c *RedisCache) Put(ctx context.Context, userID string, set *EffectivePermissions) {
	data, err := json.Marshal(set)
	if err != nil {
		return
	}
	c.client.Set(ctx, redisKeyPrefix+userID, data, c.ttl)
}

// Invalidate removes a single user's entry unconditionally.
func (c *RedisCache) Invalidate(ctx context.Context, userID string) {
	c.client.Del(ctx, redisKeyPrefix+userID)
}

// InvalidateAll removes every permkit cache entry unconditionally. Other
// keys in the same Redis database are untouched.
func (c *RedisCache) InvalidateAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}
