package plant

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the registry server configuration.
type Config struct {
	Listen   string         `yaml:"listen"`
	Database DatabaseConfig `yaml:"database"`
	Audit    AuditConfig    `yaml:"audit"`
	CORS     CORSConfig     `yaml:"cors"`
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	// Type is sqlite, postgres, or mysql.
	Type string `yaml:"type"`
	// DSN is the connection string; for sqlite it is the file path.
	DSN string `yaml:"dsn"`
}

// AuditConfig controls audit event retention.
type AuditConfig struct {
	RetentionDays int `yaml:"retentionDays"`
}

// CORSConfig controls cross-origin access for the HTTP API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LoadConfig loads configuration from a YAML file. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the default server configuration: an embedded
// SQLite store and 90 days of audit history.
func DefaultConfig() *Config {
	return &Config{
		Listen: ":8080",
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "registry.db",
		},
		Audit: AuditConfig{
			RetentionDays: 90,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}
