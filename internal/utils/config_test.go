package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONNECTION_STRING", "host=localhost dbname=devices")
	t.Setenv("JWT_ISSUER", "device-api")
	t.Setenv("JWT_AUDIENCE", "device-clients")
	t.Setenv("JWT_KEY", testKey)
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "host=localhost dbname=devices", cfg.Database.DSN())
	assert.Equal(t, 60, cfg.JWT.ValidInMinutes)
	assert.Equal(t, time.Hour, cfg.JWT.ValidFor())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 12, cfg.Password.BcryptCost)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Swagger.Enabled())
	assert.False(t, cfg.Server.IsDevelopment())
}

func TestLoadConfig_ReadsDotenv(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_VALID_MINUTES=15\nSWAGGER_USERNAME=docs\nSWAGGER_PASSWORD=secret\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("JWT_VALID_MINUTES")
		os.Unsetenv("SWAGGER_USERNAME")
		os.Unsetenv("SWAGGER_PASSWORD")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.JWT.ValidInMinutes)
	assert.True(t, cfg.Swagger.Enabled())
}

func TestLoadConfig_MissingConnectionString(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONNECTION_STRING", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, ErrMissingConnectionString)
}

func TestLoadConfig_ShortKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_KEY", "too-short")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, ErrJWTKeyTooShort)
}

func TestLoadConfig_NonPositiveValidity(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_VALID_MINUTES", "0")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, ErrJWTValidity)
}
