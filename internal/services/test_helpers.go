package services

import (
	"testing"
	"time"

	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/mocks"
	"go.uber.org/zap"
)

// authFixture bundles an AuthService with the mocks behind it
type authFixture struct {
	svc      domain.AuthService
	api      *mocks.MockStorefrontAPI
	sessions *mocks.MockSessionRepository
	carts    *mocks.MockCartCache
	tokens   *mocks.MockTokenService
	audit    *mocks.MockAuditLogger
}

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T, resolveTimeout time.Duration) *authFixture {
	t.Helper()

	f := &authFixture{
		api:      mocks.NewMockStorefrontAPI(),
		sessions: mocks.NewMockSessionRepository(),
		carts:    mocks.NewMockCartCache(),
		tokens:   mocks.NewMockTokenService(),
		audit:    mocks.NewMockAuditLogger(),
	}
	f.svc = NewAuthService(f.api, f.sessions, f.carts, f.tokens, f.audit, zap.NewNop(), resolveTimeout)
	return f
}

// seedSession stores a live session holding an upstream token
func (f *authFixture) seedSession(id, token string, role domain.Role) {
	f.sessions.Put(domain.Session{
		ID:         id,
		Token:      token,
		UserID:     9,
		Role:       role,
		Generation: 1,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	})
}
