package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("TOKEN_TTL_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, devSecret, cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "real-secret", cfg.JWTSecret)
}

func TestLoad_TokenTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL_SECONDS", "120")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.TokenTTL)

	t.Setenv("TOKEN_TTL_SECONDS", "nope")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("TOKEN_TTL_SECONDS", "-5")
	_, err = Load()
	assert.Error(t, err)
}
