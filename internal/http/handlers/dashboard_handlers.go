package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/http/middleware"
)

// DashboardHandlers serves the per-role dashboards
type DashboardHandlers struct {
	api domain.StorefrontAPI
	up  *Upstream
}

// NewDashboardHandlers creates new dashboard handlers
func NewDashboardHandlers(api domain.StorefrontAPI, up *Upstream) *DashboardHandlers {
	return &DashboardHandlers{api: api, up: up}
}

// For returns the handler of one role's dashboard. The guard has already
// checked the role, so the upstream sees the canonical one.
func (h *DashboardHandlers) For(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h.api.Dashboard(c.Request.Context(), middleware.UpstreamToken(c), role)
		relay(c, h.up, res, err)
	}
}
