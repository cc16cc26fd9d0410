// Package config loads the server's YAML configuration: listen
// address, TLS material, the static credential map, the storage
// backend root, and the logging/metrics sections.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Credentials []CredentialEntry `yaml:"credentials"`
	Storage     StorageConfig     `yaml:"storage"`
	Sweeper     SweeperConfig     `yaml:"sweeper"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds the listen address and optional TLS material.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	TLSCert    string `yaml:"tls_cert,omitempty"`
	TLSKey     string `yaml:"tls_key,omitempty"`
	Region     string `yaml:"region"`
}

// CredentialEntry maps one access key to its secret key, expanded into
// an internal/credstore.Static at startup.
type CredentialEntry struct {
	AccessKeyID string `yaml:"access_key_id"`
	SecretKey   string `yaml:"secret_key"`
}

// StorageConfig selects and configures the storage backend. Only the
// in-memory reference backend ships with this core, but the field is
// named generically so a future backend can key off it.
type StorageConfig struct {
	Backend string `yaml:"backend"` // currently only "memory"
}

// SweeperConfig controls the background multipart-upload sweep.
type SweeperConfig struct {
	Schedule  string `yaml:"schedule"`   // cron expression, e.g. "*/5 * * * *"
	MaxAge    string `yaml:"max_age"`    // uploads older than this are swept
	JitterMax string `yaml:"jitter_max"` // optional: duration or percentage, e.g. "10%"
}

// MetricsConfig holds the Prometheus /metrics endpoint configuration.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Path       string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MaxAgeDuration parses Sweeper.MaxAge, defaulting to 24h on empty or
// unparsable input.
func (s SweeperConfig) MaxAgeDuration() time.Duration {
	if s.MaxAge == "" {
		return 24 * time.Hour
	}
	d, err := time.ParseDuration(s.MaxAge)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// Load reads and parses the configuration file at path, applying
// environment-variable expansion (so secrets can be injected via
// ${VAR} references) and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8443"
	}
	if cfg.Server.Region == "" {
		cfg.Server.Region = "us-east-1"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Sweeper.Schedule == "" {
		cfg.Sweeper.Schedule = "*/15 * * * *"
	}
	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = ":9090"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if len(cfg.Credentials) == 0 {
		return nil, fmt.Errorf("config: at least one entry under credentials is required")
	}

	return &cfg, nil
}
