package mocks

import (
	"context"
	"sync"

	"github.com/sovannvath/storefront-gateway/domain"
)

// MockCartCache implements domain.CartCache as an in-memory map unless a
// function is overridden
type MockCartCache struct {
	GetFunc    func(ctx context.Context, sessionID string) (*domain.CartSummary, error)
	PutFunc    func(ctx context.Context, sessionID string, summary domain.CartSummary) error
	DeleteFunc func(ctx context.Context, sessionID string) error

	mu      sync.Mutex
	entries map[string]domain.CartSummary
}

// Compile-time interface compliance verification
var _ domain.CartCache = (*MockCartCache)(nil)

// NewMockCartCache creates a new MockCartCache with default behaviors
func NewMockCartCache() *MockCartCache {
	return &MockCartCache{entries: make(map[string]domain.CartSummary)}
}

func (m *MockCartCache) Get(ctx context.Context, sessionID string) (*domain.CartSummary, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.entries[sessionID]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return &s, nil
}

func (m *MockCartCache) Put(ctx context.Context, sessionID string, summary domain.CartSummary) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, sessionID, summary)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionID] = summary
	return nil
}

func (m *MockCartCache) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
