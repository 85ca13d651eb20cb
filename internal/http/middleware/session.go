package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"go.uber.org/zap"
)

// SessionCookie carries the gateway session token for browser clients
const SessionCookie = "sg_session"

// Context keys set by the session and guard middleware
const (
	KeySessionID   = "session_id"
	KeyTokenUserID = "token_user_id"
	KeyResolution  = "resolution"
	KeyUserID      = "user_id"
	KeyUserRole    = "user_role"
)

// SessionMiddleware reads the gateway session token from the Authorization
// header or the session cookie and stores its session id. It never aborts:
// a missing or invalid token leaves the request anonymous and the guard
// decides what that means for the route.
func SessionMiddleware(tokenSvc domain.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := tokenSvc.ValidateSessionToken(token)
		if err != nil {
			logger.Debug("ignoring session token", zap.Error(err))
			c.Next()
			return
		}

		c.Set(KeySessionID, claims.SessionID)
		c.Set(KeyTokenUserID, claims.UserID)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SessionID returns the session id carried by the request, if any
func SessionID(c *gin.Context) string {
	return c.GetString(KeySessionID)
}

// ResolutionFrom returns the resolution stored by the guard. It is never
// nil; unguarded routes read as anonymous.
func ResolutionFrom(c *gin.Context) *domain.Resolution {
	if v, ok := c.Get(KeyResolution); ok {
		if res, ok := v.(*domain.Resolution); ok && res != nil {
			return res
		}
	}
	return &domain.Resolution{State: domain.StateAnonymous}
}

// UpstreamToken returns the upstream bearer token of a resolved session
func UpstreamToken(c *gin.Context) string {
	res := ResolutionFrom(c)
	if !res.Authenticated() || res.Session == nil {
		return ""
	}
	return res.Session.Token
}

// ClientContext extracts request metadata for audit events
func ClientContext(c *gin.Context) domain.ClientContext {
	return domain.ClientContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		SessionID: SessionID(c),
	}
}
