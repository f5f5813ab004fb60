// Package cache holds the Redis-backed cache for public list responses.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/srkbolt25-collab/srkfence-backend/internal/domain"
)

const keyPrefix = "lists:"

type cachedRecord struct {
	ID        string         `json:"id"`
	Body      map[string]any `json:"body"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ListCache stores list responses per collection. Every write to a collection
// invalidates its key before the response is sent, so a warm entry is never
// staler than the last write. Cache failures degrade to the store.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewListCache builds a cache over the given client. A nil client yields a
// pass-through cache.
func NewListCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ListCache {
	return &ListCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached records for a collection, if present.
func (c *ListCache) Get(ctx context.Context, collection string) ([]domain.Record, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, keyPrefix+collection).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("cache get failed", zap.String("collection", collection), zap.Error(err))
		}
		return nil, false
	}

	var cached []cachedRecord
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("collection", collection), zap.Error(err))
		return nil, false
	}

	records := make([]domain.Record, 0, len(cached))
	for _, entry := range cached {
		records = append(records, domain.Record{
			ID:         entry.ID,
			Collection: collection,
			Body:       entry.Body,
			CreatedAt:  entry.CreatedAt,
			UpdatedAt:  entry.UpdatedAt,
		})
	}
	return records, true
}

// Set stores the records for a collection.
func (c *ListCache) Set(ctx context.Context, collection string, records []domain.Record) {
	if c == nil || c.client == nil {
		return
	}

	cached := make([]cachedRecord, 0, len(records))
	for _, record := range records {
		cached = append(cached, cachedRecord{
			ID:        record.ID,
			Body:      record.Body,
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		})
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+collection, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", zap.String("collection", collection), zap.Error(err))
	}
}

// Invalidate drops the cached list for a collection.
func (c *ListCache) Invalidate(ctx context.Context, collection string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+collection).Err(); err != nil {
		c.logger.Debug("cache invalidate failed", zap.String("collection", collection), zap.Error(err))
	}
}
