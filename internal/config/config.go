// Package config handles resolving configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by Load.
const (
	EnvAPISignature = "ON_WAY_STUDY_API_SIGNATURE"
	EnvDBFilepath   = "ON_WAY_STUDY_DB_FILEPATH"
	EnvAddress      = "ON_WAY_STUDY_ADDRESS"
)

// Config holds the process-wide settings. It is resolved once at startup and
// treated as immutable afterwards.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Address is the listen address for the REST API.
	Address string `yaml:"address"`
	// DBFilepath is the path to the SQLite database file.
	DBFilepath string `yaml:"db_filepath"`
	// APISignature is the shared secret every API client must present in the
	// X-On-Way-Study-Api-Signature header. Sourced from the environment, never
	// from the config file on disk.
	APISignature string `yaml:"-"`
	// DevMode enables request logging and debug output.
	DevMode bool `yaml:"dev_mode"`
}

// Default returns a version of the config with all default values populated.
// Note that the API signature must still be provided via the environment.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		Address:    "localhost:9990",
		DBFilepath: filepath.Join(xdg.DataHome, "onwaystudy", "db.sqlite"),
	}
}

// Load resolves the configuration: defaults, overlaid with the YAML file at
// path if it exists, overlaid with environment variables. A missing config
// file is not an error; every setting has a default or an environment source.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPISignature); v != "" {
		cfg.APISignature = v
	}
	if v := os.Getenv(EnvDBFilepath); v != "" {
		cfg.DBFilepath = v
	}
	if v := os.Getenv(EnvAddress); v != "" {
		cfg.Address = v
	}
}

// Validate checks the config for completeness. The API signature is checked
// separately by [Config.ValidateServe] since only the server requires it.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Address == "" {
		return errors.New("address must not be empty")
	}
	if c.DBFilepath == "" {
		return errors.New("db_filepath must not be empty")
	}
	return nil
}

// ValidateServe checks the additional settings the serve command requires.
func (c *Config) ValidateServe() error {
	if c.APISignature == "" {
		return fmt.Errorf("%s must be set to serve the API", EnvAPISignature)
	}
	return nil
}
