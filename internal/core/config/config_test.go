package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")

	os.Setenv("REDIS_URL", "redis://localhost:6379/0")
	os.Setenv("DHL_API_KEY", "test_key")
	defer func() {
		os.Unsetenv("REDIS_URL")
		os.Unsetenv("DHL_API_KEY")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "https://api-eu.dhl.com/track/shipments", cfg.DHL.URL)
	assert.Equal(t, "dhl", cfg.Tracking.Provider)
	assert.Equal(t, 1200, cfg.Tracking.DelayMS)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("REDIS_URL", "redis://cache:6379/1")
	os.Setenv("DHL_API_KEY", "prod_key")
	os.Setenv("TRACKING_DELAY_MS", "1000")
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("REDIS_URL")
		os.Unsetenv("DHL_API_KEY")
		os.Unsetenv("TRACKING_DELAY_MS")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "prod_key", cfg.DHL.APIKey)
	assert.Equal(t, 1000, cfg.Tracking.DelayMS)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
REDIS_URL=redis://staging:6379/0
TRACKING_PROVIDER=demo
AUTO_REFRESH_CRON=0 */2 * * *
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "demo", cfg.Tracking.Provider)
	assert.Equal(t, "0 */2 * * *", cfg.Tracking.AutoRefreshCron)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("REDIS_URL")
	os.Unsetenv("DHL_API_KEY")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}

// TestLoad_DHLKeyRequired verifies the dhl provider demands an API key while demo does not.
func TestLoad_DHLKeyRequired(t *testing.T) {
	os.Setenv("REDIS_URL", "redis://localhost:6379/0")
	os.Setenv("TRACKING_PROVIDER", "dhl")
	os.Unsetenv("DHL_API_KEY")
	defer func() {
		os.Unsetenv("REDIS_URL")
		os.Unsetenv("TRACKING_PROVIDER")
	}()

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DHL_API_KEY")

	os.Setenv("TRACKING_PROVIDER", "demo")

	cfg, err = Load(".")
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Tracking.Provider)
}
