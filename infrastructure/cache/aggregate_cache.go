package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Nico-AP/datadonation-wi/domain/repository"

	"github.com/redis/go-redis/v9"
)

// AggregateCache stores computed report aggregates in redis. Values are JSON
// blobs with a fixed TTL; consumers treat a miss as "data not yet available".
type AggregateCache struct {
	client *redis.Client
}

var _ repository.IAggregateCache = (*AggregateCache)(nil)

func NewAggregateCache(host, port, username, password string) *AggregateCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Username: username,
		Password: password,
	})
	return &AggregateCache{client: rdb}
}

// NewAggregateCacheWithClient is used by tests.
func NewAggregateCacheWithClient(client *redis.Client) *AggregateCache {
	return &AggregateCache{client: client}
}

func (c *AggregateCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode aggregate %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *AggregateCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode aggregate %s: %w", key, err)
	}
	return true, nil
}

// Ping verifies connectivity at startup.
func (c *AggregateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
