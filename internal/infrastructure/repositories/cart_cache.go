package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sovannvath/storefront-gateway/domain"
)

// CartCacheImpl implements domain.CartCache using Redis
type CartCacheImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCartCache creates a cart summary cache whose entries live as long as
// the session that owns them
func NewCartCache(client *redis.Client, ttl time.Duration) domain.CartCache {
	return &CartCacheImpl{
		client: client,
		prefix: "cart:",
		ttl:    ttl,
	}
}

// Get implements domain.CartCache
func (c *CartCacheImpl) Get(ctx context.Context, sessionID string) (*domain.CartSummary, error) {
	data, err := c.client.Get(ctx, c.prefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}

	var summary domain.CartSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart summary: %w", err)
	}
	return &summary, nil
}

// Put implements domain.CartCache
func (c *CartCacheImpl) Put(ctx context.Context, sessionID string, summary domain.CartSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal cart summary: %w", err)
	}
	return c.client.Set(ctx, c.prefix+sessionID, data, c.ttl).Err()
}

// Delete implements domain.CartCache
func (c *CartCacheImpl) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.prefix+sessionID).Err()
}
