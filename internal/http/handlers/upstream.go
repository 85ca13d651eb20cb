package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/http/middleware"
	"go.uber.org/zap"
)

// Upstream writes upstream outcomes back to the client. A 401 from the
// backend also revokes the gateway session whose token was forwarded.
type Upstream struct {
	auth   domain.AuthService
	logger *zap.Logger
}

// NewUpstream creates the shared upstream responder
func NewUpstream(auth domain.AuthService, logger *zap.Logger) *Upstream {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Upstream{auth: auth, logger: logger.Named("http")}
}

// relay answers with the upstream result: the payload on 2xx, the mapped
// failure otherwise
func relay[T any](c *gin.Context, u *Upstream, res domain.APIResult[T], err error) {
	if err != nil {
		u.Fail(c, err)
		return
	}
	if failure := res.Err(); failure != nil {
		u.Fail(c, failure)
		return
	}

	status := res.Status
	if status == http.StatusNoContent {
		status = http.StatusOK
	}
	body := gin.H{"data": res.Data}
	if res.Message != "" {
		body["message"] = res.Message
	}
	c.JSON(status, body)
}

// Fail maps an error from the service layer onto a response
func (u *Upstream) Fail(c *gin.Context, err error) {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		u.upstreamFailure(c, upstream)
		return
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired", "redirect": domain.LoginPath})
	case errors.Is(err, domain.ErrMalformedResponse):
		u.logger.Warn("malformed upstream response", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Invalid response from server"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Server took too long to respond", "retry": true})
	case errors.Is(err, domain.ErrMaxRetriesExceeded), errors.Is(err, domain.ErrUpstreamUnreachable):
		u.logger.Warn("upstream unreachable", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Max retries exceeded", "retry": true})
	default:
		u.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (u *Upstream) upstreamFailure(c *gin.Context, e *domain.UpstreamError) {
	switch {
	case e.Status == http.StatusUnauthorized:
		// only a token this request forwarded can have been rejected
		if sessionID := middleware.SessionID(c); sessionID != "" && middleware.UpstreamToken(c) != "" {
			if err := u.auth.Revoke(c.Request.Context(), sessionID, "upstream returned 401"); err != nil {
				u.logger.Warn("failed to revoke session", zap.String("session_id", sessionID), zap.Error(err))
			}
			clearSessionCookie(c)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated", "redirect": domain.LoginPath})
	case e.Status == http.StatusForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case e.Status == http.StatusUnprocessableEntity:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  messageOr(e.Message, "The given data was invalid."),
			"errors": e.Errors,
		})
	case e.Status >= http.StatusInternalServerError:
		c.JSON(e.Status, gin.H{"error": messageOr(e.Message, http.StatusText(e.Status)), "retry": true})
	default:
		c.JSON(e.Status, gin.H{"error": messageOr(e.Message, http.StatusText(e.Status))})
	}
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

// idParam parses a positive numeric path parameter, answering 400 otherwise
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// setSessionCookie hands the gateway session token to browser clients
func setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", c.Request.TLS != nil, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}
