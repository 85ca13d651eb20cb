package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"go.uber.org/zap"
)

// Outcome is what the guard does with a request
type Outcome int

const (
	Render Outcome = iota
	RedirectLogin
	RedirectDashboard
)

func (o Outcome) String() string {
	switch o {
	case RedirectLogin:
		return "redirect_login"
	case RedirectDashboard:
		return "redirect_dashboard"
	default:
		return "render"
	}
}

// Decision is the guard's verdict. Location is set for redirects.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide applies the route guard rules. allowed empty means any signed-in
// user may pass; a role outside allowed is sent to its own dashboard.
func Decide(authenticated bool, role domain.Role, requireAuth bool, allowed []domain.Role) Decision {
	if !requireAuth {
		return Decision{Outcome: Render}
	}
	if !authenticated {
		return Decision{Outcome: RedirectLogin, Location: domain.LoginPath}
	}
	if len(allowed) == 0 || slices.Contains(allowed, role) {
		return Decision{Outcome: Render}
	}
	return Decision{Outcome: RedirectDashboard, Location: domain.DashboardPath(role)}
}

// RouteKind selects how a guard failure is presented
type RouteKind int

const (
	PageRoute RouteKind = iota
	APIRoute
)

// GuardMiddleware resolves the session, looks up the roles allowed on the
// matched route and applies Decide. Every decision is audited.
func GuardMiddleware(
	resolver domain.SessionResolver,
	policies domain.PolicyService,
	auditLogger domain.AuditLogger,
	logger *zap.Logger,
	kind RouteKind,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		route := c.FullPath()
		method := c.Request.Method

		res, err := resolver.Resolve(ctx, SessionID(c))
		if res == nil {
			res = &domain.Resolution{State: domain.StateAnonymous}
		}
		if res.Authenticated() && res.Session != nil {
			if _, ok := c.Get(KeyTokenUserID); ok && c.GetUint(KeyTokenUserID) != res.Session.UserID {
				logger.Warn("session user mismatch", zap.String("session_id", SessionID(c)))
				res = &domain.Resolution{State: domain.StateAnonymous}
			}
		}
		c.Set(KeyResolution, res)

		audit := func(outcome string, granted bool) {
			if auditLogger == nil {
				return
			}
			event := domain.NewAccessEvent(res, route, method, outcome, granted, ClientContext(c))
			if err := auditLogger.LogEvent(ctx, event); err != nil {
				logger.Warn("failed to write audit event", zap.Error(err))
			}
		}

		if res.State == domain.StateUnavailable {
			logger.Warn("session could not be resolved", zap.String("route", route), zap.Error(err))
			audit("unavailable", false)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Service temporarily unavailable",
				"retry": true,
			})
			return
		}

		allowed, err := policies.AllowedRoles(route, method)
		if err != nil {
			logger.Error("policy lookup failed", zap.String("route", route), zap.Error(err))
			audit("policy_error", false)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			return
		}

		d := Decide(res.Authenticated(), res.Role(), true, allowed)
		audit(d.Outcome.String(), d.Outcome == Render)

		switch d.Outcome {
		case Render:
			c.Set(KeyUserID, res.User.ID)
			c.Set(KeyUserRole, res.User.Role)
			c.Next()
		case RedirectLogin:
			if kind == PageRoute {
				c.Redirect(http.StatusFound, d.Location)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Authentication required",
				"redirect": d.Location,
			})
		case RedirectDashboard:
			if kind == PageRoute {
				c.Redirect(http.StatusFound, d.Location)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Access denied",
				"redirect": d.Location,
			})
		}
	}
}
