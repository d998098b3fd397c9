package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DevelopmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MYSQL_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "local.db", cfg.SQLitePath)
	assert.Empty(t, cfg.MySQLDSN)
	// Development gets a placeholder secret rather than failing
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoad_ProductionRequiresRealSecret(t *testing.T) {
	t.Setenv("APP_ENV", EnvProduction)

	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", devJWTSecret)
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "an-actual-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "an-actual-secret", cfg.JWTSecret)
}

func TestLoad_TokenTTL(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("TOKEN_TTL_HOURS", "48")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, float64(48), cfg.TokenTTL.Hours())
}
