package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFileDefaults(t *testing.T) {
	t.Cleanup(func() { config = defaultConfig() })

	LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, "8080", GetConfig("APP_PORT"))
	assert.Equal(t, "s3", GetConfig("STORAGE_DRIVER"))
	assert.Equal(t, 30*24*time.Hour, SessionTTL())
	assert.False(t, IsProduction())
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}

func TestLoadConfigFileWithEnvOverrides(t *testing.T) {
	t.Cleanup(func() { config = defaultConfig() })

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
APP_ENV: production
APP_PORT: "3000"
DB_NAME: recipes
STORAGE_DRIVER: minio
MINIO_USE_SSL: true
SESSION_TTL_HOURS: 48
`), 0o600))

	t.Setenv("APP_PORT", "9000")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_TTL_HOURS", "not-a-number")

	LoadConfigFile(path)

	assert.True(t, IsProduction())
	assert.Equal(t, "9000", GetConfig("APP_PORT"))
	assert.Equal(t, "recipes", GetConfig("DB_NAME"))
	assert.Equal(t, "minio", GetConfig("STORAGE_DRIVER"))
	assert.Equal(t, "true", GetConfig("MINIO_USE_SSL"))
	assert.Equal(t, "localhost:6379", GetConfig("REDIS_ADDR"))
	assert.Equal(t, "48", GetConfig("SESSION_TTL_HOURS"))
	assert.Equal(t, 48*time.Hour, SessionTTL())
}
