package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  port: 9090
  log_level: debug
upstream:
  base_url: http://backend.test/api
  timeout: 5s
  max_attempts: 3
  retry_base_delay: 250ms
database:
  driver: postgres
  dsn: postgres://shop@localhost/shop
jwt:
  secret: s3cret-value
  session_ttl: 2h
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "http://backend.test/api", cfg.UpstreamURL)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 3, cfg.UpstreamMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryBaseDelay)
	assert.Equal(t, 10*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "storefront-gateway", cfg.JWTIssuer)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHOPGATE_UPSTREAM_URL", "http://override.test")
	t.Setenv("SHOPGATE_UPSTREAM_MAX_ATTEMPTS", "4")
	t.Setenv("SHOPGATE_REDIS_DB", "2")
	t.Setenv("SHOPGATE_RESOLVE_TIMEOUT", "3s")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://override.test", cfg.UpstreamURL)
	assert.Equal(t, 4, cfg.UpstreamMaxAttempts)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 3*time.Second, cfg.ResolveTimeout)
}

func TestLoad_PathFromEnv(t *testing.T) {
	t.Setenv("SHOPGATE_CONFIG", writeConfig(t, sampleYAML))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing upstream", "jwt:\n  secret: abc\n"},
		{"placeholder secret", "upstream:\n  base_url: http://x\njwt:\n  secret: change\n"},
		{"bad duration", "upstream:\n  base_url: http://x\n  timeout: soon\njwt:\n  secret: abc\n"},
		{"negative attempts", "upstream:\n  base_url: http://x\n  max_attempts: -1\njwt:\n  secret: abc\n"},
		{"unknown driver", "upstream:\n  base_url: http://x\ndatabase:\n  driver: oracle\njwt:\n  secret: abc\n"},
		{"invalid yaml", "upstream: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
