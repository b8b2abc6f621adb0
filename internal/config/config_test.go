package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, "ws://localhost:8000", cfg.WSURL)
	assert.Equal(t, "Token", cfg.AuthScheme)
	assert.Equal(t, 5*time.Second, cfg.NotificationPollInterval)
	assert.Equal(t, 3*time.Second, cfg.MessagePollInterval)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "keyring", cfg.SessionBackend)
	assert.Equal(t, 3000, cfg.WebAppPort)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AGRIPORT_API_URL", "https://api.agriport.example")
	t.Setenv("NOTIFICATION_POLL_INTERVAL", "30s")
	t.Setenv("AUTH_SCHEME", "Bearer")
	t.Setenv("SESSION_BACKEND", "file")
	t.Setenv("WEBAPP_PORT", "8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.agriport.example", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.NotificationPollInterval)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.Equal(t, "file", cfg.SessionBackend)
	assert.Equal(t, 8080, cfg.WebAppPort)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	t.Setenv("MESSAGE_POLL_INTERVAL", "not-a-duration")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad api url", func(c *Config) { c.APIURL = "localhost:8000" }},
		{"bad ws url", func(c *Config) { c.WSURL = "http://localhost:8000" }},
		{"bad auth scheme", func(c *Config) { c.AuthScheme = "Basic" }},
		{"bad session backend", func(c *Config) { c.SessionBackend = "redis" }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"bad port", func(c *Config) { c.WebAppPort = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
