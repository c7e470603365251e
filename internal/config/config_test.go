// file: internal/config/config_test.go
// version: 2.0.0
// guid: 4abf01e9-e20c-4633-9034-32b990f6ff6c

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

// TestInitConfig tests configuration initialization with defaults
func TestInitConfig(t *testing.T) {
	resetViper(t)

	InitConfig()
	cfg := Current()

	assert.Equal(t, "pebble", cfg.DatabaseType)
	assert.Equal(t, "library.pebble", cfg.DatabasePath)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 256, cfg.MaxConnections)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "pt-BR", cfg.DefaultLocale)
	assert.Equal(t, 0, cfg.RateLimit.RequestsPerMinute)
	assert.False(t, cfg.Auth.Enabled)
	assert.False(t, cfg.Loans.Exclusive)
}

func TestInitConfig_EnvOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("LIBRARY_PORT", "9090")
	t.Setenv("LIBRARY_DATABASE_TYPE", "sqlite3")
	t.Setenv("LIBRARY_AUTH_ENABLED", "true")
	t.Setenv("LIBRARY_RATE_LIMIT_REQUESTS_PER_MINUTE", "120")
	t.Setenv("LIBRARY_LOANS_EXCLUSIVE", "true")

	InitConfig()
	cfg := Current()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.True(t, cfg.Loans.Exclusive)
}

func TestNormalizeDatabaseType(t *testing.T) {
	tests := map[string]string{
		"":           "pebble",
		"Pebble":     "pebble",
		"sqlite3":    "sqlite",
		"postgresql": "postgres",
		"mysql":      "mysql",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeDatabaseType(in), in)
	}
}

func TestSaveConfigToFile_RoundTrip(t *testing.T) {
	resetViper(t)
	InitConfig()

	cfg := Current()
	cfg.Port = "9999"
	cfg.ReadTimeout = 5 * time.Second
	cfg.Auth = AuthConfig{Enabled: true, Username: "librarian", PasswordHash: "$2a$10$hash"}
	cfg.Loans.Exclusive = true

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveConfigToFile(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	viper.Reset()
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())
	InitConfig()
	loaded := Current()

	assert.Equal(t, "9999", loaded.Port)
	assert.Equal(t, 5*time.Second, loaded.ReadTimeout)
	assert.Equal(t, cfg.Auth, loaded.Auth)
	assert.True(t, loaded.Loans.Exclusive)
}

func TestSaveConfigToFile_RequiresPath(t *testing.T) {
	assert.Error(t, SaveConfigToFile(Config{}, ""))
}

func TestHandleConfigEvent_ReloadsAuth(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  enabled: false\n"), 0o600))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())
	InitConfig()
	require.False(t, Auth().Enabled)

	require.NoError(t, os.WriteFile(path, []byte("auth:\n  enabled: true\n  username: admin\n"), 0o600))
	require.NoError(t, viper.ReadInConfig())

	var got Config
	handleConfigEvent(fsnotify.Event{Name: path, Op: fsnotify.Write}, func(c Config) { got = c })

	assert.True(t, got.Auth.Enabled)
	assert.Equal(t, "admin", got.Auth.Username)
	assert.True(t, Auth().Enabled)
}

func TestHandleConfigEvent_IgnoresRemove(t *testing.T) {
	resetViper(t)
	InitConfig()

	called := false
	handleConfigEvent(fsnotify.Event{Name: "x", Op: fsnotify.Remove}, func(Config) { called = true })
	assert.False(t, called)
}
