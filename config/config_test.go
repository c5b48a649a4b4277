package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimkit/uc-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	// GIVEN: A clean environment
	// WHEN: Loading settings
	// THEN: Every field carries its documented default

	settings, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "UC Entitlement Engine", settings.AppName)
	assert.Equal(t, 8080, settings.Port)
	assert.Equal(t, "uc.db", settings.DatabasePath)
	assert.Equal(t, []string{"*"}, settings.CORSOrigins)
	assert.Empty(t, settings.SecretKey)
	assert.Equal(t, 30*time.Minute, settings.TokenTTL)
	assert.False(t, settings.Debug)
	assert.Equal(t, ":8080", settings.Addr())
	assert.False(t, settings.AuthEnabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("UC_PORT", "9000")
	t.Setenv("UC_HOST", "127.0.0.1")
	t.Setenv("UC_DATABASE_PATH", ":memory:")
	t.Setenv("UC_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("UC_SECRET_KEY", "shh")
	t.Setenv("UC_TOKEN_TTL", "2h")
	t.Setenv("UC_DEBUG", "true")

	settings, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", settings.Addr())
	assert.Equal(t, ":memory:", settings.DatabasePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, settings.CORSOrigins)
	assert.Equal(t, 2*time.Hour, settings.TokenTTL)
	assert.True(t, settings.Debug)
	assert.True(t, settings.AuthEnabled())
}

func TestLoad_BadPort_Fails(t *testing.T) {
	t.Setenv("UC_PORT", "not-a-port")

	_, err := config.Load()
	assert.Error(t, err)
}
