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

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, 24*time.Hour, cfg.Security.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.Security.ActivationTTL)
	assert.Equal(t, 10*time.Minute, cfg.Security.ResetTTL)
	assert.Equal(t, 5*time.Minute, cfg.Redis.AccountCacheTTL)
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SEOBLOG_ENVIRONMENT", "production")
	t.Setenv("SEOBLOG_CLIENTURL", "https://seoblog.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "https://seoblog.com", cfg.ClientURL)
}
