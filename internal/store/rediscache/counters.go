package rediscache

import (
	"context"
	"fmt"
	"strconv"
)

// Engagement counter fields. Names match the record columns they drain into.
const (
	FieldViews     = "view_count"
	FieldLikes     = "like_count"
	FieldShares    = "share_count"
	FieldBookmarks = "bookmark_count"
)

// IncrEngagement bumps one engagement counter for a record and marks the
// record dirty for the next drain pass.
func (c *Cache) IncrEngagement(ctx context.Context, recordID, field string) error {
	pipe := c.client.Pipeline()
	pipe.HIncrBy(ctx, CountersKey(recordID), field, 1)
	pipe.SAdd(ctx, KeyDirtyCounters, recordID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment %s for %s: %w", field, recordID, err)
	}
	return nil
}

// DrainCounters atomically collects and clears all pending counter
// deltas. Returns map[recordID]map[field]delta.
func (c *Cache) DrainCounters(ctx context.Context) (map[string]map[string]int64, error) {
	ids, err := c.client.SMembers(ctx, KeyDirtyCounters).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list dirty records: %w", err)
	}
	if len(ids) == 0 {
		return map[string]map[string]int64{}, nil
	}

	deltas := make(map[string]map[string]int64, len(ids))
	for _, id := range ids {
		raw, err := c.client.HGetAll(ctx, CountersKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read counters for %s: %w", id, err)
		}
		if len(raw) == 0 {
			continue
		}

		fields := make(map[string]int64, len(raw))
		for field, value := range raw {
			n, parseErr := strconv.ParseInt(value, 10, 64)
			if parseErr != nil {
				// Skip unparseable fields rather than losing the batch
				continue
			}
			fields[field] = n
		}
		deltas[id] = fields
	}

	// Clear drained state in one round trip
	pipe := c.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, CountersKey(id))
	}
	pipe.Del(ctx, KeyDirtyCounters)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear drained counters: %w", err)
	}

	return deltas, nil
}
