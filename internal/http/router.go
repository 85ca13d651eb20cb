package httpx

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/http/handlers"
	"github.com/sovannvath/storefront-gateway/internal/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handlers groups the handler sets mounted by BuildRouter
type Handlers struct {
	Auth      *handlers.AuthHandlers
	Products  *handlers.ProductHandlers
	Cart      *handlers.CartHandlers
	Orders    *handlers.OrderHandlers
	Dashboard *handlers.DashboardHandlers
	Policies  *handlers.PolicyHandlers
}

// BuildRouter mounts every gateway route. Role requirements live in the
// policy store and are keyed by the route patterns used here.
func BuildRouter(h Handlers, authMW *middleware.AuthMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), authMW.WithSession())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := authMW.API()

	auth := r.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/register", h.Auth.Register)
	// logout must work while the backend is down, so it is not guarded
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/refresh", api, h.Auth.Refresh)
	auth.GET("/me", api, h.Auth.Me)

	r.GET("/api/products", h.Products.List)
	r.GET("/api/products/:id", h.Products.Get)

	v := r.Group("/api").Use(api)
	v.POST("/products", h.Products.Create)
	v.PUT("/products/:id", h.Products.Update)
	v.DELETE("/products/:id", h.Products.Delete)

	v.GET("/cart", h.Cart.Get)
	v.GET("/cart/summary", h.Cart.Summary)
	v.POST("/cart/add", h.Cart.Add)
	v.PUT("/cart/items/:id", h.Cart.Update)
	v.DELETE("/cart/items/:id", h.Cart.Remove)
	v.DELETE("/cart/clear", h.Cart.Clear)

	v.GET("/orders", h.Orders.List)
	v.POST("/orders", h.Orders.Create)
	v.GET("/orders/export", h.Orders.Export)
	v.PUT("/orders/:id/status", h.Orders.UpdateStatus)
	v.PUT("/orders/:id/payment", h.Orders.UpdatePayment)

	v.GET("/request-orders", h.Orders.ListRequests)
	v.PUT("/request-orders/:id/admin-approval", h.Orders.AdminApproval)
	v.PUT("/request-orders/:id/warehouse-approval", h.Orders.WarehouseApproval)

	adm := r.Group("/api/admin").Use(api)
	adm.GET("/policies", h.Policies.List)
	adm.POST("/policies", h.Policies.Add)
	adm.DELETE("/policies", h.Policies.Remove)
	adm.GET("/audit", h.Policies.Audit)

	dash := r.Group("/dashboard").Use(authMW.Page())
	for _, role := range domain.Roles {
		dash.GET(dashboardSegment(role), h.Dashboard.For(role))
	}

	return r
}

// dashboardSegment is the last element of a role's dashboard path
func dashboardSegment(role domain.Role) string {
	return "/" + path.Base(domain.DashboardPath(role))
}

// Handler wraps the engine with inbound tracing
func Handler(engine *gin.Engine) http.Handler {
	return otelhttp.NewHandler(engine, "shopgate",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/health" }),
	)
}
