package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cachedReview struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

func newTestCache(t *testing.T) (*ReviewCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReviewCache(client, 5*time.Minute, zap.NewNop()), mr
}

func TestReviewCacheRoundtrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	providerID := uuid.New()

	var out []cachedReview
	assert.False(t, c.Get(ctx, providerID, &out), "empty cache should miss")

	stored := []cachedReview{{Rating: 5, Review: "great work"}, {Rating: 4, Review: "solid"}}
	c.Set(ctx, providerID, stored)

	require.True(t, c.Get(ctx, providerID, &out))
	assert.Equal(t, stored, out)
}

func TestReviewCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	providerID := uuid.New()

	c.Set(ctx, providerID, []cachedReview{{Rating: 5}})
	c.Invalidate(ctx, providerID)

	var out []cachedReview
	assert.False(t, c.Get(ctx, providerID, &out))
}

func TestReviewCacheScopedPerProvider(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	first, second := uuid.New(), uuid.New()
	c.Set(ctx, first, []cachedReview{{Rating: 5}})

	var out []cachedReview
	assert.False(t, c.Get(ctx, second, &out))
	assert.True(t, c.Get(ctx, first, &out))
}

func TestReviewCacheCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	providerID := uuid.New()

	require.NoError(t, mr.Set("reviews:"+providerID.String(), "{not json"))

	var out []cachedReview
	assert.False(t, c.Get(ctx, providerID, &out), "corrupt entry should behave as a miss")
}

func TestReviewCacheEntryExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	providerID := uuid.New()

	c.Set(ctx, providerID, []cachedReview{{Rating: 5}})
	mr.FastForward(10 * time.Minute)

	var out []cachedReview
	assert.False(t, c.Get(ctx, providerID, &out))
}
