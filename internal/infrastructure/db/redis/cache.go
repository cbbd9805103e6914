package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// DatasetCache stores shaped scorecard responses in Redis so repeated
// dashboard loads skip the object store.
// Key format: scorecard:<object_name>
type DatasetCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDatasetCache creates a DatasetCache wrapping the given Redis client.
// ttl <= 0 selects the default.
func NewDatasetCache(client *redis.Client, ttl time.Duration) *DatasetCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &DatasetCache{client: client, ttl: ttl}
}

// Get unmarshals the cached entry for key into value, reporting a miss as
// (false, nil).
func (c *DatasetCache) Get(ctx context.Context, key string, value any) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(raw, value); err != nil {
		return false, fmt.Errorf("cache decode: %w", err)
	}
	return true, nil
}

// Set stores value under key (expires after the configured TTL).
func (c *DatasetCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(key), raw, c.ttl).Err()
}

func (c *DatasetCache) key(object string) string {
	return fmt.Sprintf("scorecard:%s", object)
}
