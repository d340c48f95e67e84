package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"guardpost/internal/identity"
	"guardpost/internal/sentinel"
)

const redisUserKeyPrefix = "directory:user:"

// RedisCache persists enriched identities in Redis with TTL-based eviction.
// A stale entry is acceptable; a blocked lookup is not, so failures are
// surfaced to the client which degrades gracefully.
type RedisCache struct {
	client   *redis.Client
	cacheTTL time.Duration
}

// NewRedisCache constructs a Redis-backed directory cache.
func NewRedisCache(client *redis.Client, cacheTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   client,
		cacheTTL: cacheTTL,
	}
}

// Find loads a cached identity by reviewer id.
// Returns sentinel.ErrNotFound on a cache miss.
func (c *RedisCache) Find(ctx context.Context, reviewerID string) (identity.Identity, error) {
	data, err := c.client.Get(ctx, redisUserKeyPrefix+reviewerID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return identity.Identity{}, sentinel.ErrNotFound
		}
		return identity.Identity{}, fmt.Errorf("find cached identity: %w", err)
	}

	var id identity.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return identity.Identity{}, fmt.Errorf("decode cached identity: %w", err)
	}
	return id, nil
}

// Save writes an identity to Redis with TTL eviction, overwriting any
// existing entry.
func (c *RedisCache) Save(ctx context.Context, id identity.Identity) error {
	if id.ID == "" {
		return fmt.Errorf("identity id is required")
	}
	payload, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode cached identity: %w", err)
	}
	if err := c.client.Set(ctx, redisUserKeyPrefix+id.ID, payload, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("save cached identity: %w", err)
	}
	return nil
}
