package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10.0, cfg.RatePerSecond)
	assert.Equal(t, 20, cfg.RateBurst)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LINGO_ADDR", ":9090")
	t.Setenv("LINGO_DEFAULT_LANGUAGE", "sv")
	t.Setenv("LINGO_COOKIE_SECURE", "true")
	t.Setenv("LINGO_REQUEST_TIMEOUT", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "sv", cfg.DefaultLanguage)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_UnsupportedDefaultLanguage(t *testing.T) {
	t.Setenv("LINGO_DEFAULT_LANGUAGE", "de")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}
