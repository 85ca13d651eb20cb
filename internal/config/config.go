package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no other config file is given
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port     int    `yaml:"port"`
	GinMode  string `yaml:"gin_mode"`
	LogLevel string `yaml:"log_level"`
}

type UpstreamConfig struct {
	BaseURL        string `yaml:"base_url"`
	Timeout        string `yaml:"timeout"`
	MaxAttempts    int    `yaml:"max_attempts"`
	RetryBaseDelay string `yaml:"retry_base_delay"`
	ResolveTimeout string `yaml:"resolve_timeout"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	SessionTTL string `yaml:"session_ttl"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Casbin    CasbinConfig    `yaml:"casbin"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	UpstreamURL         string
	UpstreamTimeout     time.Duration
	UpstreamMaxAttempts int
	RetryBaseDelay      time.Duration
	ResolveTimeout      time.Duration

	DBDriver string
	DSN      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	CasbinModelPath string

	OTLPEndpoint string
	OTLPInsecure bool
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load reads .env (when present), the YAML file at path (DefaultPath when
// empty) and then applies SHOPGATE_* environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = env("SHOPGATE_CONFIG", DefaultPath)
	}
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	return FromFile(configFile)
}

// FromFile applies defaults and environment overrides to a parsed file
func FromFile(f *ConfigFile) (*Config, error) {
	timeout, err := parseDuration("upstream timeout", env("SHOPGATE_UPSTREAM_TIMEOUT", f.Upstream.Timeout), 15*time.Second)
	if err != nil {
		return nil, err
	}
	baseDelay, err := parseDuration("upstream retry base delay", env("SHOPGATE_RETRY_BASE_DELAY", f.Upstream.RetryBaseDelay), time.Second)
	if err != nil {
		return nil, err
	}
	resolveTimeout, err := parseDuration("upstream resolve timeout", env("SHOPGATE_RESOLVE_TIMEOUT", f.Upstream.ResolveTimeout), 10*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := parseDuration("JWT session TTL", env("SHOPGATE_SESSION_TTL", f.JWT.SessionTTL), 24*time.Hour)
	if err != nil {
		return nil, err
	}

	port := f.App.Port
	if port == 0 {
		port = 8080
	}
	attempts := f.Upstream.MaxAttempts
	if attempts == 0 {
		attempts = 2
	}

	cfg := &Config{
		Port:                env("SHOPGATE_PORT", strconv.Itoa(port)),
		GinMode:             env("GIN_MODE", orDefault(f.App.GinMode, "release")),
		LogLevel:            env("SHOPGATE_LOG_LEVEL", orDefault(f.App.LogLevel, "info")),
		UpstreamURL:         env("SHOPGATE_UPSTREAM_URL", f.Upstream.BaseURL),
		UpstreamTimeout:     timeout,
		UpstreamMaxAttempts: envInt("SHOPGATE_UPSTREAM_MAX_ATTEMPTS", attempts),
		RetryBaseDelay:      baseDelay,
		ResolveTimeout:      resolveTimeout,
		DBDriver:            env("SHOPGATE_DB_DRIVER", orDefault(f.Database.Driver, "sqlite")),
		DSN:                 env("SHOPGATE_DB_DSN", orDefault(f.Database.DSN, "shopgate.db")),
		RedisAddr:           env("SHOPGATE_REDIS_ADDR", orDefault(f.Redis.Addr, "localhost:6379")),
		RedisPassword:       env("SHOPGATE_REDIS_PASSWORD", f.Redis.Password),
		RedisDB:             envInt("SHOPGATE_REDIS_DB", f.Redis.DB),
		JWTSecret:           env("SHOPGATE_JWT_SECRET", f.JWT.Secret),
		JWTIssuer:           env("SHOPGATE_JWT_ISSUER", orDefault(f.JWT.Issuer, "storefront-gateway")),
		SessionTTL:          sessionTTL,
		CasbinModelPath:     env("SHOPGATE_CASBIN_MODEL", f.Casbin.ModelPath),
		OTLPEndpoint:        env("OTEL_EXPORTER_OTLP_ENDPOINT", f.Telemetry.OTLPEndpoint),
		OTLPInsecure:        env("OTEL_EXPORTER_OTLP_INSECURE", strconv.FormatBool(f.Telemetry.Insecure)) == "true",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the gateway cannot run with
func (c *Config) Validate() error {
	switch {
	case c.UpstreamURL == "":
		return errors.New("upstream base_url is required")
	case c.JWTSecret == "" || c.JWTSecret == "change":
		return errors.New("jwt secret must be set to a secure value")
	case c.UpstreamMaxAttempts < 1:
		return fmt.Errorf("upstream max_attempts must be positive, got %d", c.UpstreamMaxAttempts)
	case c.DBDriver != "sqlite" && c.DBDriver != "postgres":
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func parseDuration(name, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
