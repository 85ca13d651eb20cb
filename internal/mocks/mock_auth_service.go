package mocks

import (
	"context"

	"github.com/sovannvath/storefront-gateway/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	ResolveFunc  func(ctx context.Context, sessionID string) (*domain.Resolution, error)
	LoginFunc    func(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	RegisterFunc func(ctx context.Context, reg domain.Registration) (*domain.LoginResult, error)
	LogoutFunc   func(ctx context.Context, sessionID string) error
	RevokeFunc   func(ctx context.Context, sessionID, reason string) error
	RefreshFunc  func(ctx context.Context, sessionID string) (*domain.LoginResult, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Resolve resolves a session
func (m *MockAuthService) Resolve(ctx context.Context, sessionID string) (*domain.Resolution, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, sessionID)
	}
	// Default behavior: nobody is signed in
	return &domain.Resolution{State: domain.StateAnonymous}, nil
}

// Login logs a user in
func (m *MockAuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	// Default behavior: a customer session
	user := &domain.User{ID: 1, Email: creds.Email, Role: domain.RoleCustomer}
	return &domain.LoginResult{
		User:         user,
		SessionID:    "mock_session",
		SessionToken: "mock_session_token",
		Redirect:     domain.DashboardPath(user.Role),
		ExpiresIn:    3600,
	}, nil
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, reg domain.Registration) (*domain.LoginResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	user := &domain.User{ID: 2, Name: reg.Name, Email: reg.Email, Role: domain.RoleCustomer}
	return &domain.LoginResult{
		User:         user,
		SessionID:    "mock_session",
		SessionToken: "mock_session_token",
		Redirect:     domain.DashboardPath(user.Role),
		ExpiresIn:    3600,
	}, nil
}

// Logout ends a session
func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

// Revoke drops a session the upstream rejected
func (m *MockAuthService) Revoke(ctx context.Context, sessionID, reason string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, sessionID, reason)
	}
	return nil
}

// Refresh re-issues a session token
func (m *MockAuthService) Refresh(ctx context.Context, sessionID string) (*domain.LoginResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, sessionID)
	}
	return &domain.LoginResult{
		User:         &domain.User{ID: 1, Role: domain.RoleCustomer},
		SessionID:    sessionID,
		SessionToken: "mock_session_token_refreshed",
		Redirect:     domain.DashboardPath(domain.RoleCustomer),
		ExpiresIn:    3600,
	}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
