// file: internal/config/config.go
// version: 2.0.0
// guid: 0e611b1e-2abe-419f-8ca3-85b78b5e1f32

package config

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LIBRARY_PORT or
// LIBRARY_AUTH_ENABLED.
const EnvPrefix = "LIBRARY"

// AuthConfig holds HTTP basic-auth settings. PasswordHash is a bcrypt hash.
type AuthConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// RateLimitConfig limits requests per client IP. RequestsPerMinute 0 disables it.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

// LoanConfig holds loan workflow settings.
type LoanConfig struct {
	Exclusive bool `yaml:"exclusive"`
}

// Config holds application configuration
type Config struct {
	DatabasePath string `yaml:"database_path"`
	DatabaseType string `yaml:"database_type"` // "pebble" (default), "sqlite" or "postgres"
	DatabaseDSN  string `yaml:"database_dsn,omitempty"`

	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxConnections int           `yaml:"max_connections"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`

	DefaultLocale string `yaml:"default_locale"`
	LogLevel      string `yaml:"log_level"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Auth      AuthConfig      `yaml:"auth"`
	Loans     LoanConfig      `yaml:"loans"`
}

var (
	mu        sync.RWMutex
	AppConfig Config
)

// SetDefaults registers default values with viper.
func SetDefaults() {
	viper.SetDefault("database_path", "library.pebble")
	viper.SetDefault("database_type", "pebble")
	viper.SetDefault("database_dsn", "")

	viper.SetDefault("host", "localhost")
	viper.SetDefault("port", "8080")
	viper.SetDefault("read_timeout", "15s")
	viper.SetDefault("write_timeout", "15s")
	viper.SetDefault("idle_timeout", "60s")
	viper.SetDefault("max_connections", 256)
	viper.SetDefault("max_body_bytes", 1<<20)

	viper.SetDefault("default_locale", "pt-BR")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("rate_limit.requests_per_minute", 0)
	viper.SetDefault("rate_limit.burst", 20)

	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.username", "")
	viper.SetDefault("auth.password_hash", "")

	viper.SetDefault("loans.exclusive", false)
}

// InitConfig initializes the application configuration
func InitConfig() {
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	cfg := fromViper()
	mu.Lock()
	AppConfig = cfg
	mu.Unlock()
}

// Current returns a copy of the active configuration. Safe for concurrent use
// with reloads.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return AppConfig
}

// Auth returns the active basic-auth settings.
func Auth() AuthConfig {
	return Current().Auth
}

func fromViper() Config {
	cfg := Config{
		DatabasePath: viper.GetString("database_path"),
		DatabaseType: normalizeDatabaseType(viper.GetString("database_type")),
		DatabaseDSN:  viper.GetString("database_dsn"),

		Host:           viper.GetString("host"),
		Port:           viper.GetString("port"),
		ReadTimeout:    viper.GetDuration("read_timeout"),
		WriteTimeout:   viper.GetDuration("write_timeout"),
		IdleTimeout:    viper.GetDuration("idle_timeout"),
		MaxConnections: viper.GetInt("max_connections"),
		MaxBodyBytes:   viper.GetInt64("max_body_bytes"),

		DefaultLocale: viper.GetString("default_locale"),
		LogLevel:      strings.ToLower(viper.GetString("log_level")),
	}

	cfg.RateLimit.RequestsPerMinute = viper.GetInt("rate_limit.requests_per_minute")
	cfg.RateLimit.Burst = viper.GetInt("rate_limit.burst")

	cfg.Auth.Enabled = viper.GetBool("auth.enabled")
	cfg.Auth.Username = viper.GetString("auth.username")
	cfg.Auth.PasswordHash = viper.GetString("auth.password_hash")

	cfg.Loans.Exclusive = viper.GetBool("loans.exclusive")
	return cfg
}

// Normalize database type
func normalizeDatabaseType(dbType string) string {
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "", "pebble":
		return "pebble"
	case "sqlite", "sqlite3":
		return "sqlite"
	case "postgres", "postgresql":
		return "postgres"
	default:
		return dbType
	}
}

// WatchConfig reloads the configuration when the config file changes and
// passes the new values to onChange. It does nothing when no config file was
// read. Settings the server reads per request, such as auth credentials, take
// effect immediately.
func WatchConfig(onChange func(Config)) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		handleConfigEvent(e, onChange)
	})
	viper.WatchConfig()
}

func handleConfigEvent(e fsnotify.Event, onChange func(Config)) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}

	cfg := fromViper()
	mu.Lock()
	previous := AppConfig
	AppConfig = cfg
	mu.Unlock()

	log.Printf("[INFO] Config file changed: %s", e.Name)
	if previous.DatabasePath != cfg.DatabasePath || previous.DatabaseType != cfg.DatabaseType {
		log.Printf("[WARN] Database settings changed; restart required to apply them")
	}
	if onChange != nil {
		onChange(cfg)
	}
}
