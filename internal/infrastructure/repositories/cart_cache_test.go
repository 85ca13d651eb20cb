package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartCacheImpl(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewCartCache(client, time.Hour)
	ctx := context.Background()

	_, err := cache.Get(ctx, "sess")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	summary := domain.CartSummary{ItemCount: 3, Total: 12.5, UpdatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, cache.Put(ctx, "sess", summary))

	got, err := cache.Get(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, summary.ItemCount, got.ItemCount)
	assert.Equal(t, summary.Total, got.Total)
	assert.True(t, summary.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, cache.Delete(ctx, "sess"))
	_, err = cache.Get(ctx, "sess")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, cache.Put(ctx, "short", summary))
	mr.FastForward(2 * time.Hour)
	_, err = cache.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
