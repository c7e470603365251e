// file: internal/config/persistence.go
// version: 2.0.0
// guid: e8d52d6f-eb16-4db7-9860-68401039fb25

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the config file looked up in the home directory.
const DefaultConfigName = ".library-catalog"

// DefaultConfigFilePath returns $HOME/.library-catalog.yaml.
func DefaultConfigFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigName+".yaml"), nil
}

// fileConfig mirrors Config with durations written as strings.
type fileConfig struct {
	DatabasePath string `yaml:"database_path"`
	DatabaseType string `yaml:"database_type"`
	DatabaseDSN  string `yaml:"database_dsn,omitempty"`

	Host           string `yaml:"host"`
	Port           string `yaml:"port"`
	ReadTimeout    string `yaml:"read_timeout"`
	WriteTimeout   string `yaml:"write_timeout"`
	IdleTimeout    string `yaml:"idle_timeout"`
	MaxConnections int    `yaml:"max_connections"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes"`

	DefaultLocale string `yaml:"default_locale"`
	LogLevel      string `yaml:"log_level"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Auth      AuthConfig      `yaml:"auth"`
	Loans     LoanConfig      `yaml:"loans"`
}

// SaveConfigToFile writes cfg as YAML to path. The file may hold a password
// hash and a DSN, so it is created with owner-only permissions.
func SaveConfigToFile(cfg Config, path string) error {
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}

	data, err := yaml.Marshal(fileConfig{
		DatabasePath:   cfg.DatabasePath,
		DatabaseType:   cfg.DatabaseType,
		DatabaseDSN:    cfg.DatabaseDSN,
		Host:           cfg.Host,
		Port:           cfg.Port,
		ReadTimeout:    cfg.ReadTimeout.String(),
		WriteTimeout:   cfg.WriteTimeout.String(),
		IdleTimeout:    cfg.IdleTimeout.String(),
		MaxConnections: cfg.MaxConnections,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		DefaultLocale:  cfg.DefaultLocale,
		LogLevel:       cfg.LogLevel,
		RateLimit:      cfg.RateLimit,
		Auth:           cfg.Auth,
		Loans:          cfg.Loans,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Printf("[INFO] Configuration saved to file: %s", path)
	return nil
}
