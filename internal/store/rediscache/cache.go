// Package rediscache holds the hot path of the pipeline: cached
// discovery results and engagement counters that are drained into the
// durable store on a schedule. Everything here is best-effort; a cache
// failure never fails a request.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultResultsTTL is how long a cached discovery result set stays valid
	DefaultResultsTTL = 5 * time.Minute
)

// Cache handles Redis operations for discovery results and counters.
type Cache struct {
	client *redis.Client
}

// New creates a new cache around an established Redis client.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// SaveResults stores an ordered list of record IDs for a discovery or
// search request.
func (c *Cache) SaveResults(ctx context.Context, cacheKey string, recordIDs []string, ttl time.Duration) error {
	data, err := json.Marshal(recordIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal result ids: %w", err)
	}
	if err := c.client.Set(ctx, ResultsKey(cacheKey), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache results: %w", err)
	}
	return nil
}

// GetResults retrieves a cached result id list. A miss returns (nil, nil).
func (c *Cache) GetResults(ctx context.Context, cacheKey string) ([]string, error) {
	data, err := c.client.Get(ctx, ResultsKey(cacheKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("failed to get cached results: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result ids: %w", err)
	}
	return ids, nil
}

// FlushResults removes all cached result sets. Called after ingest so
// new records become visible immediately.
func (c *Cache) FlushResults(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, KeyPrefixResults+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete results key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush results cache: %w", err)
	}
	return nil
}
