package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"go.uber.org/zap"
)

// AuthMW wraps the services the session and guard middleware need
type AuthMW struct {
	tokenSvc    domain.TokenService
	resolver    domain.SessionResolver
	policies    domain.PolicyService
	auditLogger domain.AuditLogger
	logger      *zap.Logger
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(
	tokenSvc domain.TokenService,
	resolver domain.SessionResolver,
	policies domain.PolicyService,
	auditLogger domain.AuditLogger,
	logger *zap.Logger,
) *AuthMW {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMW{
		tokenSvc:    tokenSvc,
		resolver:    resolver,
		policies:    policies,
		auditLogger: auditLogger,
		logger:      logger.Named("guard"),
	}
}

// WithSession returns the session token middleware
func (mw *AuthMW) WithSession() gin.HandlerFunc {
	return SessionMiddleware(mw.tokenSvc, mw.logger)
}

// Page guards a browser page: failures redirect
func (mw *AuthMW) Page() gin.HandlerFunc {
	return GuardMiddleware(mw.resolver, mw.policies, mw.auditLogger, mw.logger, PageRoute)
}

// API guards a JSON endpoint: failures answer 401 or 403 with a redirect hint
func (mw *AuthMW) API() gin.HandlerFunc {
	return GuardMiddleware(mw.resolver, mw.policies, mw.auditLogger, mw.logger, APIRoute)
}
