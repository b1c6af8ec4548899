// Package config provides configuration management for the engage service.
// It supports loading configuration from a YAML file, environment variables,
// and command-line flags, in that override order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hackdook/engage/pkg/db"
)

// MatcherPolicy selects how participant names are joined across sources.
type MatcherPolicy string

const (
	// MatcherExact keys tallies by the raw trimmed name (source behavior).
	MatcherExact MatcherPolicy = "exact"
	// MatcherFold case-folds names and trims punctuation before joining.
	MatcherFold MatcherPolicy = "fold"
)

// Default configuration values.
const (
	DefaultListenAddress  = ":8080"
	DefaultMaxUploadBytes = 16 << 20 // 16 MiB per multipart upload
	DefaultConfigDir      = ".engage"
	DefaultConfigFile     = "config.yaml"
)

// DatabaseConfig holds the PostgreSQL settings that can live in the config
// file. The password is deliberately absent: it comes from HD_DB_PASSWORD or
// the OS keyring (see credentials.go).
type DatabaseConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Database string `yaml:"database,omitempty"`
	User     string `yaml:"user,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`
}

// Config holds the engage service configuration.
type Config struct {
	// ListenAddress is the host:port the HTTP server binds to.
	ListenAddress string `yaml:"listen_address"`

	// MaxUploadBytes caps the size of one multipart upload.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogJSON switches log output from console to JSON format.
	LogJSON bool `yaml:"log_json"`

	// Matcher selects the name-joining policy for aggregation.
	Matcher MatcherPolicy `yaml:"matcher"`

	// RosterStrict drops participants that are not on the uploaded roster
	// instead of keeping them under their raw names.
	RosterStrict bool `yaml:"roster_strict"`

	// Database holds connection settings overriding the HD_DB_* defaults.
	Database DatabaseConfig `yaml:"database,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ListenAddress:  DefaultListenAddress,
		MaxUploadBytes: DefaultMaxUploadBytes,
		LogLevel:       "info",
		Matcher:        MatcherExact,
	}
}

// ConfigDir returns the configuration directory path.
// Uses $HD_CONFIG_DIR if set, otherwise ~/.engage
func ConfigDir() (string, error) {
	if dir := os.Getenv("HD_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the configuration from file and environment variables.
// Configuration is loaded in this order (later sources override earlier):
// 1. Default values
// 2. Config file (~/.engage/config.yaml or $HD_CONFIG_DIR/config.yaml)
// 3. Environment variables (HD_LISTEN_ADDRESS, HD_MAX_UPLOAD_BYTES, ...)
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.ListenAddress != "" {
		cfg.ListenAddress = fileCfg.ListenAddress
	}
	if fileCfg.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = fileCfg.MaxUploadBytes
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.Matcher != "" {
		cfg.Matcher = fileCfg.Matcher
	}
	cfg.LogJSON = fileCfg.LogJSON
	cfg.RosterStrict = fileCfg.RosterStrict
	cfg.Database = fileCfg.Database

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("HD_LISTEN_ADDRESS"); v != "" {
		cfg.ListenAddress = v
	}

	if v := os.Getenv("HD_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxUploadBytes = n
		}
	}

	if v := os.Getenv("HD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("HD_LOG_JSON"); v == "true" || v == "1" {
		cfg.LogJSON = true
	}

	if v := os.Getenv("HD_MATCHER"); v != "" {
		cfg.Matcher = MatcherPolicy(v)
	}

	if v := os.Getenv("HD_ROSTER_STRICT"); v == "true" || v == "1" {
		cfg.RosterStrict = true
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address is required")
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}

	if !c.Matcher.IsValid() {
		return fmt.Errorf("invalid matcher: %q (must be exact or fold)", c.Matcher)
	}

	return nil
}

// IsValid checks if the matcher policy is valid.
func (p MatcherPolicy) IsValid() bool {
	switch p {
	case MatcherExact, MatcherFold:
		return true
	default:
		return false
	}
}

// String returns the string representation of the matcher policy.
func (p MatcherPolicy) String() string {
	return string(p)
}

// DBConfig resolves the effective database configuration: HD_DB_* environment
// defaults, overlaid with the config file's database section, with the
// password resolved from env or the OS keyring.
func (c *Config) DBConfig() *db.Config {
	dbCfg := db.ConfigFromEnv()

	if c.Database.Host != "" {
		dbCfg.Host = c.Database.Host
	}
	if c.Database.Port != 0 {
		dbCfg.Port = c.Database.Port
	}
	if c.Database.Database != "" {
		dbCfg.Database = c.Database.Database
	}
	if c.Database.User != "" {
		dbCfg.User = c.Database.User
	}
	if c.Database.SSLMode != "" {
		dbCfg.SSLMode = c.Database.SSLMode
	}

	if dbCfg.Password == "" {
		if pw, err := DBPasswordFromKeyring(); err == nil {
			dbCfg.Password = pw
		}
	}

	return dbCfg
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *Config) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
