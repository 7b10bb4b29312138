package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "recipebox", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.RememberLifetime)

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.LoginPerMinute)
	assert.Equal(t, 3, cfg.RateLimit.RegisterPerHour)
	assert.Equal(t, 200, cfg.RateLimit.GlobalPerDay)
	assert.Equal(t, 50, cfg.RateLimit.GlobalPerHour)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("RECIPEBOX_APP_PORT", "9090")
	t.Setenv("RECIPEBOX_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	cfg.Session.Secret = ""
	assert.Error(t, cfg.Validate())

	// The dev secret must not reach production.
	cfg.Session.Secret = "dev-secret-key-change-in-production"
	cfg.App.Env = "production"
	assert.Error(t, cfg.Validate())

	cfg.Session.Secret = "real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	assert.Error(t, cfg.Validate())
	cfg.Database.User = "recipebox"
	cfg.Database.DBName = "recipebox"
	assert.NoError(t, cfg.Validate())
}
