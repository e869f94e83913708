package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_USER", "portal")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DB", "portal")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("CORS_ORIGINS", "https://riverbend.org, http://localhost:3000,")
	t.Setenv("BASE_URL", "https://riverbend.org/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://portal:secret@db:5432/portal?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, []string{"https://riverbend.org", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "https://riverbend.org", cfg.BaseURL)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.TrustProxyHeaders)

	t.Setenv("TRUST_PROXY_HEADERS", "true")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestValidate(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.DatabaseURL = "postgres://x"
	cfg.JWTSecret = "short"
	assert.NoError(t, cfg.Validate())

	cfg.AppEnv = "production"
	cfg.EmailAPIKey = "re_123"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}
