package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"soundfolio/model"

	"github.com/go-redis/redis/v8"
)

// catalogKey holds the serialized catalog listing, newest first.
const catalogKey = "catalog:tracks"

// catalogTTL bounds staleness if an invalidation is ever missed.
const catalogTTL = 10 * time.Minute

var client *redis.Client

// SetClient wires the Redis client used by the catalog cache. A nil client
// disables caching; every read becomes a miss and writes are no-ops.
func SetClient(c *redis.Client) {
	client = c
}

// GetCatalog returns the cached catalog listing, or redis.Nil on a miss.
func GetCatalog(ctx context.Context) ([]*model.Track, error) {
	if client == nil {
		return nil, redis.Nil
	}

	data, err := client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		return nil, err
	}

	tracks := make([]*model.Track, 0)
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return tracks, nil
}

// SetCatalog stores the catalog listing with a bounded TTL.
func SetCatalog(ctx context.Context, tracks []*model.Track) error {
	if client == nil {
		return nil
	}

	data, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog for cache: %w", err)
	}

	if err := client.Set(ctx, catalogKey, data, catalogTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache catalog: %w", err)
	}
	return nil
}

// InvalidateCatalog drops the cached listing. Called after every ingest so
// the next read reflects the new upload.
func InvalidateCatalog(ctx context.Context) error {
	if client == nil {
		return nil
	}

	if err := client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

// IsMiss reports whether err is a cache miss rather than a real failure.
func IsMiss(err error) bool {
	return err == redis.Nil
}
