package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/apiclient"
	"github.com/sovannvath/storefront-gateway/internal/config"
	"github.com/sovannvath/storefront-gateway/internal/infrastructure/auth"
	"github.com/sovannvath/storefront-gateway/internal/infrastructure/database"
	"github.com/sovannvath/storefront-gateway/internal/infrastructure/repositories"
	"github.com/sovannvath/storefront-gateway/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	SessionRepo domain.SessionRepository
	CartCache   domain.CartCache
	AuditLogger domain.AuditLogger

	// Services
	API       domain.StorefrontAPI
	TokenSvc  domain.TokenService
	AuthSvc   domain.AuthService
	PolicySvc domain.PolicyService
	CartSvc   *services.CartService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	container := &Container{Config: cfg, Logger: logger}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initPolicies(); err != nil {
		container.Close()
		return nil, err
	}
	container.initRedis()
	container.initRepositories()
	if err := container.initServices(); err != nil {
		container.Close()
		return nil, err
	}

	return container, nil
}

// NewPolicyContainer opens only the database and policy store
func NewPolicyContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	container := &Container{Config: cfg, Logger: logger}
	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initPolicies(); err != nil {
		container.Close()
		return nil, err
	}
	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DBDriver, c.Config.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	c.DB = db
	return nil
}

func (c *Container) initPolicies() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Casbin = cas
	c.PolicySvc = services.NewPolicyService(cas.E)
	c.AuditLogger = repositories.NewAuditRepository(c.DB)
	return nil
}

func (c *Container) initRedis() {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
}

func (c *Container) initRepositories() {
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.SessionTTL)
	c.CartCache = repositories.NewCartCache(c.RedisClient, c.Config.SessionTTL)
}

func (c *Container) initServices() error {
	api, err := apiclient.New(apiclient.Options{
		BaseURL: c.Config.UpstreamURL,
		Timeout: c.Config.UpstreamTimeout,
		Retry: apiclient.RetryPolicy{
			MaxAttempts:       c.Config.UpstreamMaxAttempts,
			BaseDelay:         c.Config.RetryBaseDelay,
			RetryServerErrors: true,
		},
	}, c.Logger)
	if err != nil {
		return err
	}
	c.API = api

	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.SessionTTL)
	c.AuthSvc = services.NewAuthService(
		c.API,
		c.SessionRepo,
		c.CartCache,
		c.TokenSvc,
		c.AuditLogger,
		c.Logger,
		c.Config.ResolveTimeout,
	)
	c.CartSvc = services.NewCartService(c.API, c.CartCache, c.Logger)
	return nil
}

// Ping checks that redis is reachable
func (c *Container) Ping(ctx context.Context) error {
	if c.RedisClient == nil {
		return nil
	}
	if err := c.RedisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	var errs []error
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
