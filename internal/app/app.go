package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sovannvath/storefront-gateway/internal/config"
	httpx "github.com/sovannvath/storefront-gateway/internal/http"
	"github.com/sovannvath/storefront-gateway/internal/http/handlers"
	"github.com/sovannvath/storefront-gateway/internal/http/middleware"
	"github.com/sovannvath/storefront-gateway/internal/services"
	"github.com/sovannvath/storefront-gateway/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// Router builds the gin engine from a wired container
func Router(c *Container) *gin.Engine {
	up := handlers.NewUpstream(c.AuthSvc, c.Logger)
	h := httpx.Handlers{
		Auth:      handlers.NewAuthHandlers(c.AuthSvc, up),
		Products:  handlers.NewProductHandlers(c.API, up),
		Cart:      handlers.NewCartHandlers(c.CartSvc, up),
		Orders:    handlers.NewOrderHandlers(c.API, up),
		Dashboard: handlers.NewDashboardHandlers(c.API, up),
		Policies:  handlers.NewPolicyHandlers(c.PolicySvc, c.AuditLogger),
	}
	authMW := middleware.NewAuthMW(c.TokenSvc, c.AuthSvc, c.PolicySvc, c.AuditLogger, c.Logger)
	return httpx.BuildRouter(h, authMW)
}

// Run serves the gateway until ctx is cancelled, then drains in-flight
// requests
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	shutdownTracing := telemetry.Setup("shopgate", cfg.OTLPEndpoint, cfg.OTLPInsecure, logger)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Ping(ctx); err != nil {
		return err
	}

	added, err := services.SeedDefaults(c.PolicySvc, services.DefaultPolicies)
	if err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	if added > 0 {
		logger.Info("casbin: seeded default policies", zap.Int("rules", added))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpx.Handler(Router(c)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("upstream", cfg.UpstreamURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
