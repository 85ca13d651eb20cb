package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sovannvath/storefront-gateway/domain"
	"go.uber.org/zap"
)

// CartSummaryResult is a cart summary and whether it came from the cache
// because the backend could not be reached
type CartSummaryResult struct {
	Summary domain.CartSummary `json:"summary"`
	Cached  bool               `json:"cached"`
}

// CartService proxies cart calls and keeps the per-session summary cache
// in step with what the backend last reported
type CartService struct {
	api    domain.StorefrontAPI
	cache  domain.CartCache
	logger *zap.Logger
	now    func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(api domain.StorefrontAPI, cache domain.CartCache, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{api: api, cache: cache, logger: logger.Named("cart"), now: time.Now}
}

// Get returns the cart and refreshes the cached summary
func (s *CartService) Get(ctx context.Context, sessionID, token string) (domain.APIResult[*domain.Cart], error) {
	res, err := s.api.GetCart(ctx, token)
	if err == nil && res.OK() && res.Data != nil {
		s.remember(ctx, sessionID, res.Data)
	}
	return res, err
}

// Add puts a product in the cart
func (s *CartService) Add(ctx context.Context, sessionID, token string, in domain.CartItemInput) (domain.APIResult[domain.Empty], error) {
	res, err := s.api.AddToCart(ctx, token, in)
	s.afterWrite(ctx, sessionID, res, err)
	return res, err
}

// Update changes the quantity of a cart line
func (s *CartService) Update(ctx context.Context, sessionID, token string, itemID uint, in domain.CartItemInput) (domain.APIResult[domain.Empty], error) {
	res, err := s.api.UpdateCartItem(ctx, token, itemID, in)
	s.afterWrite(ctx, sessionID, res, err)
	return res, err
}

// Remove deletes a cart line
func (s *CartService) Remove(ctx context.Context, sessionID, token string, itemID uint) (domain.APIResult[domain.Empty], error) {
	res, err := s.api.RemoveCartItem(ctx, token, itemID)
	s.afterWrite(ctx, sessionID, res, err)
	return res, err
}

// Clear empties the cart. It is idempotent: a 404 from the backend means
// there was no cart left to clear and counts as success. On success the
// result is always the empty cart.
func (s *CartService) Clear(ctx context.Context, sessionID, token string) (domain.APIResult[*domain.Cart], error) {
	res, err := s.api.ClearCart(ctx, token)
	if err != nil {
		return domain.Convert[domain.Empty, *domain.Cart](res), err
	}
	if !res.OK() && res.Status != http.StatusNotFound {
		return domain.Convert[domain.Empty, *domain.Cart](res), nil
	}

	empty := &domain.Cart{Items: []domain.CartItem{}}
	s.remember(ctx, sessionID, empty)
	return domain.APIResult[*domain.Cart]{Status: http.StatusOK, Data: empty, Message: res.Message}, nil
}

// Summary returns the live cart summary. When the backend is unreachable or
// failing it falls back to the last cached summary for the session.
func (s *CartService) Summary(ctx context.Context, sessionID, token string) (*CartSummaryResult, error) {
	res, err := s.api.GetCart(ctx, token)
	if err == nil && res.OK() && res.Data != nil {
		return &CartSummaryResult{Summary: s.remember(ctx, sessionID, res.Data)}, nil
	}
	if errors.Is(err, domain.ErrMalformedResponse) {
		return nil, err
	}
	if err == nil && !res.Retryable() {
		// the backend answered; a 4xx is not something a stale cache can paper over
		if failure := res.Err(); failure != nil {
			return nil, failure
		}
		return nil, domain.ErrMalformedResponse
	}

	cached, cacheErr := s.cache.Get(ctx, sessionID)
	if cacheErr == nil {
		s.logger.Info("serving cached cart summary", zap.String("session_id", sessionID))
		return &CartSummaryResult{Summary: *cached, Cached: true}, nil
	}
	if !errors.Is(cacheErr, domain.ErrCacheMiss) {
		s.logger.Warn("cart cache read failed", zap.String("session_id", sessionID), zap.Error(cacheErr))
	}
	if err != nil {
		return nil, err
	}
	return nil, res.Err()
}

func (s *CartService) afterWrite(ctx context.Context, sessionID string, res domain.APIResult[domain.Empty], err error) {
	if err != nil || !res.OK() {
		return
	}
	// the next summary read repopulates from the backend
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to invalidate cart summary", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *CartService) remember(ctx context.Context, sessionID string, cart *domain.Cart) domain.CartSummary {
	summary := cart.Summary(s.now())
	if err := s.cache.Put(ctx, sessionID, summary); err != nil {
		s.logger.Warn("failed to cache cart summary", zap.String("session_id", sessionID), zap.Error(err))
	}
	return summary
}
