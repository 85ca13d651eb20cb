package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createCartServiceForTest(t *testing.T) (*CartService, *mocks.MockStorefrontAPI, *mocks.MockCartCache) {
	t.Helper()
	api := mocks.NewMockStorefrontAPI()
	cache := mocks.NewMockCartCache()
	svc := NewCartService(api, cache, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, api, cache
}

func cartWith(items ...domain.CartItem) (domain.APIResult[*domain.Cart], error) {
	return domain.APIResult[*domain.Cart]{Status: http.StatusOK, Data: &domain.Cart{Items: items}}, nil
}

func TestCartService_GetCachesSummary(t *testing.T) {
	svc, api, cache := createCartServiceForTest(t)
	api.GetCartFunc = func(ctx context.Context, token string) (domain.APIResult[*domain.Cart], error) {
		return cartWith(
			domain.CartItem{ID: 1, Quantity: 2, Price: 3},
			domain.CartItem{ID: 2, Quantity: 1, Price: 4},
		)
	}

	res, err := svc.Get(context.Background(), "s1", "tok")
	require.NoError(t, err)
	assert.Len(t, res.Data.Items, 2)

	cached, err := cache.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), cached.ItemCount)
	assert.Equal(t, 10.0, cached.Total)
}

func TestCartService_Clear(t *testing.T) {
	tests := []struct {
		name           string
		upstreamStatus int
		expectedStatus int
		expectEmpty    bool
	}{
		{"cleared", http.StatusOK, http.StatusOK, true},
		{"already empty", http.StatusNotFound, http.StatusOK, true},
		{"forbidden", http.StatusForbidden, http.StatusForbidden, false},
		{"server error", http.StatusInternalServerError, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, api, cache := createCartServiceForTest(t)
			require.NoError(t, cache.Put(context.Background(), "s1", domain.CartSummary{ItemCount: 4, Total: 20}))
			api.ClearCartFunc = func(ctx context.Context, token string) (domain.APIResult[domain.Empty], error) {
				return domain.APIResult[domain.Empty]{Status: tt.upstreamStatus}, nil
			}

			res, err := svc.Clear(context.Background(), "s1", "tok")

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, res.Status)
			cached, err := cache.Get(context.Background(), "s1")
			require.NoError(t, err)
			if tt.expectEmpty {
				require.NotNil(t, res.Data)
				assert.Empty(t, res.Data.Items)
				assert.NotNil(t, res.Data.Items)
				assert.Zero(t, cached.ItemCount)
			} else {
				assert.Nil(t, res.Data)
				assert.Equal(t, int64(4), cached.ItemCount)
			}
		})
	}
}

func TestCartService_ClearTwiceIsIdempotent(t *testing.T) {
	svc, api, _ := createCartServiceForTest(t)
	cleared := false
	api.ClearCartFunc = func(ctx context.Context, token string) (domain.APIResult[domain.Empty], error) {
		if cleared {
			return domain.APIResult[domain.Empty]{Status: http.StatusNotFound, Message: "Cart not found"}, nil
		}
		cleared = true
		return domain.APIResult[domain.Empty]{Status: http.StatusOK}, nil
	}

	first, err := svc.Clear(context.Background(), "s1", "tok")
	require.NoError(t, err)
	second, err := svc.Clear(context.Background(), "s1", "tok")
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Data, second.Data)
}

func TestCartService_WritesInvalidateSummary(t *testing.T) {
	svc, _, cache := createCartServiceForTest(t)
	ctx := context.Background()

	writes := []func() (domain.APIResult[domain.Empty], error){
		func() (domain.APIResult[domain.Empty], error) {
			return svc.Add(ctx, "s1", "tok", domain.CartItemInput{ProductID: 1, Quantity: 1})
		},
		func() (domain.APIResult[domain.Empty], error) {
			return svc.Update(ctx, "s1", "tok", 1, domain.CartItemInput{Quantity: 3})
		},
		func() (domain.APIResult[domain.Empty], error) {
			return svc.Remove(ctx, "s1", "tok", 1)
		},
	}

	for _, write := range writes {
		require.NoError(t, cache.Put(ctx, "s1", domain.CartSummary{ItemCount: 1}))
		_, err := write()
		require.NoError(t, err)
		_, err = cache.Get(ctx, "s1")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	}
}

func TestCartService_Summary(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		svc, api, _ := createCartServiceForTest(t)
		api.GetCartFunc = func(ctx context.Context, token string) (domain.APIResult[*domain.Cart], error) {
			return cartWith(domain.CartItem{Quantity: 2, Subtotal: 9})
		}

		res, err := svc.Summary(context.Background(), "s1", "tok")
		require.NoError(t, err)
		assert.False(t, res.Cached)
		assert.Equal(t, int64(2), res.Summary.ItemCount)
		assert.Equal(t, 9.0, res.Summary.Total)
	})

	t.Run("cached when backend is down", func(t *testing.T) {
		svc, api, cache := createCartServiceForTest(t)
		require.NoError(t, cache.Put(context.Background(), "s1", domain.CartSummary{ItemCount: 5, Total: 50}))
		api.GetCartFunc = func(ctx context.Context, token string) (domain.APIResult[*domain.Cart], error) {
			return domain.APIResult[*domain.Cart]{Status: 500, Message: "Max retries exceeded"}, domain.ErrMaxRetriesExceeded
		}

		res, err := svc.Summary(context.Background(), "s1", "tok")
		require.NoError(t, err)
		assert.True(t, res.Cached)
		assert.Equal(t, int64(5), res.Summary.ItemCount)
	})

	t.Run("cached on 5xx", func(t *testing.T) {
		svc, api, cache := createCartServiceForTest(t)
		require.NoError(t, cache.Put(context.Background(), "s1", domain.CartSummary{ItemCount: 1}))
		api.GetCartFunc = func(ctx context.Context, token string) (domain.APIResult[*domain.Cart], error) {
			return domain.APIResult[*domain.Cart]{Status: http.StatusBadGateway}, nil
		}

		res, err := svc.Summary(context.Background(), "s1", "tok")
		require.NoError(t, err)
		assert.True(t, res.Cached)
	})

	t.Run("no cache and backend down", func(t *testing.T) {
		svc, api, _ := createCartServiceForTest(t)
		api.GetCartFunc = func(ctx context.Context, token string) (domain.APIResult[*domain.Cart], error) {
			return domain.APIResult[*domain.Cart]{Status: 500}, domain.ErrMaxRetriesExceeded
		}

		_, err := svc.Summary(context.Background(), "s1", "tok")
		assert.ErrorIs(t, err, domain.ErrMaxRetriesExceeded)
	})

	t.Run("client errors bypass the cache", func(t *testing.T) {
		svc, api, cache := createCartServiceForTest(t)
		require.NoError(t, cache.Put(context.Background(), "s1", domain.CartSummary{ItemCount: 1}))
		api.GetCartFunc = func(ctx context.Context, token string) (domain.APIResult[*domain.Cart], error) {
			return domain.APIResult[*domain.Cart]{Status: http.StatusUnauthorized}, nil
		}

		_, err := svc.Summary(context.Background(), "s1", "tok")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("malformed body bypasses the cache", func(t *testing.T) {
		svc, api, cache := createCartServiceForTest(t)
		require.NoError(t, cache.Put(context.Background(), "s1", domain.CartSummary{ItemCount: 1}))
		api.GetCartFunc = func(ctx context.Context, token string) (domain.APIResult[*domain.Cart], error) {
			return domain.APIResult[*domain.Cart]{Status: http.StatusOK}, fmt.Errorf("get cart: %w", domain.ErrMalformedResponse)
		}

		res, err := svc.Summary(context.Background(), "s1", "tok")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.Nil(t, res)
	})
}
