// Package config loads the wgb application configuration from a YAML file.
// The persisted tunnel state lives elsewhere (internal/store); this file
// only tunes where that state lives and how external tools are invoked.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lunatic-fringers/wgbridge/internal/store"
	"github.com/lunatic-fringers/wgbridge/internal/tunnel"
)

const (
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultConfExtension is the configuration file extension the scanner
	// matches in registered search paths.
	DefaultConfExtension = ".conf"
)

// Config is the top-level wgb configuration, populated from a YAML file
// via ParseConfig. All fields have working defaults; the file is optional.
type Config struct {
	// StateFile is the persisted state file path.
	// Default: ~/.wgbconf.json
	StateFile string `yaml:"state_file"`

	// LockDir is the directory holding per-configuration lock files.
	// Default: ~/.config/wgb/locks
	LockDir string `yaml:"lock_dir"`

	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFile redirects logs from stderr to a file (append). The special
	// value "auto" picks a date-named file in the working directory.
	LogFile string `yaml:"log_file"`

	// ConfExtension is the file extension scanned for in search paths.
	// Default: ".conf"
	ConfExtension string `yaml:"conf_extension"`

	Tunnel tunnel.Config `yaml:"tunnel"`
}

// DefaultPath returns the config file path under the user's home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "wgb", "config.yaml"), nil
}

// ApplyDefaults sets default values for zero-valued fields. home is the
// invoking user's home directory.
func (c *Config) ApplyDefaults(home string) {
	if c.StateFile == "" {
		c.StateFile = filepath.Join(home, store.DefaultFileName)
	}
	if c.LockDir == "" {
		c.LockDir = filepath.Join(home, ".config", "wgb", "locks")
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.ConfExtension == "" {
		c.ConfExtension = DefaultConfExtension
	}
	c.Tunnel.ApplyDefaults()
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q (must be debug, info, warn or error)", c.LogLevel)
	}
	if c.ConfExtension == "" || c.ConfExtension[0] != '.' {
		return fmt.Errorf("config: conf_extension %q must start with a dot", c.ConfExtension)
	}
	return c.Tunnel.Validate()
}

// ParseConfig reads a YAML configuration file and returns a Config.
// A missing file yields pure defaults: wgb must run unconfigured.
func ParseConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("config: resolve home directory: %w", err)
	}
	cfg.ApplyDefaults(home)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
