package mocks

import (
	"context"
	"sync"

	"github.com/sovannvath/storefront-gateway/domain"
)

// MockAuditLogger implements domain.AuditLogger and keeps every event
type MockAuditLogger struct {
	LogEventFunc func(ctx context.Context, event *domain.AuditEvent) error

	mu     sync.Mutex
	events []domain.AuditEvent
}

// Compile-time interface compliance verification
var _ domain.AuditLogger = (*MockAuditLogger)(nil)

// NewMockAuditLogger creates a new MockAuditLogger with default behaviors
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if m.LogEventFunc != nil {
		return m.LogEventFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

func (m *MockAuditLogger) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEvent, 0, len(m.events))
	for i := len(m.events) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

// Events returns the recorded events oldest first (test helper)
func (m *MockAuditLogger) Events() []domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Types returns the recorded event types oldest first (test helper)
func (m *MockAuditLogger) Types() []domain.AuditEventType {
	var out []domain.AuditEventType
	for _, e := range m.Events() {
		out = append(out, e.EventType)
	}
	return out
}
