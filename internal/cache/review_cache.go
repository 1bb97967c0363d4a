package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReviewCache is a cache-aside layer over the public review listings.
// Redis being down never fails a request; callers fall through to the
// database on any cache miss or error.
type ReviewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReviewCache wraps a redis client with the listing TTL.
func NewReviewCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ReviewCache {
	return &ReviewCache{client: client, ttl: ttl, logger: logger}
}

func reviewKey(providerID uuid.UUID) string {
	return fmt.Sprintf("reviews:%s", providerID)
}

// Get loads the cached listing for a provider into out. The second return
// is false on miss or any cache failure.
func (c *ReviewCache) Get(ctx context.Context, providerID uuid.UUID, out interface{}) bool {
	raw, err := c.client.Get(ctx, reviewKey(providerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("review cache read failed", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Warn("review cache entry corrupt", zap.Error(err))
		return false
	}
	return true
}

// Set stores the listing for a provider with the configured TTL.
func (c *ReviewCache) Set(ctx context.Context, providerID uuid.UUID, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("review cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, reviewKey(providerID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("review cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached listing after a provider receives a new rating.
func (c *ReviewCache) Invalidate(ctx context.Context, providerID uuid.UUID) {
	if err := c.client.Del(ctx, reviewKey(providerID)).Err(); err != nil {
		c.logger.Warn("review cache invalidation failed", zap.Error(err))
	}
}
