package mocks

import (
	"fmt"
	"strings"
	"time"

	"github.com/sovannvath/storefront-gateway/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	GenerateSessionTokenFunc func(sessionID string, userID uint, role domain.Role) (string, error)
	ValidateSessionTokenFunc func(token string) (*domain.TokenClaims, error)
	TTLValue                 time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{TTLValue: time.Hour}
}

// GenerateSessionToken generates a session token
func (m *MockTokenService) GenerateSessionToken(sessionID string, userID uint, role domain.Role) (string, error) {
	if m.GenerateSessionTokenFunc != nil {
		return m.GenerateSessionTokenFunc(sessionID, userID, role)
	}
	// Default behavior: a readable token that ValidateSessionToken understands
	return fmt.Sprintf("session_token:%s:%d:%s", sessionID, userID, role), nil
}

// ValidateSessionToken validates a session token and returns claims
func (m *MockTokenService) ValidateSessionToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateSessionTokenFunc != nil {
		return m.ValidateSessionTokenFunc(token)
	}
	parts := strings.Split(token, ":")
	if len(parts) != 4 || parts[0] != "session_token" || parts[1] == "" {
		return nil, domain.ErrTokenInvalid
	}
	var userID uint
	if _, err := fmt.Sscanf(parts[2], "%d", &userID); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	now := time.Now()
	return &domain.TokenClaims{
		SessionID: parts[1],
		UserID:    userID,
		Role:      domain.Role(parts[3]),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.TTL()).Unix(),
	}, nil
}

// TTL returns the configured token lifetime
func (m *MockTokenService) TTL() time.Duration {
	return m.TTLValue
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
