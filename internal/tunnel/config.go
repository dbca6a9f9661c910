package tunnel

import (
	"errors"
	"time"
)

// Config holds the configuration for external WireGuard tool invocation.
// Config is passed as a constructor argument, no file I/O in this package.
type Config struct {
	// WGQuick is the bring-up/tear-down command.
	// Default: "wg-quick"
	WGQuick string `yaml:"wg_quick"`

	// WG is the status query command used on platforms without a native
	// device query.
	// Default: "wg"
	WG string `yaml:"wg"`

	// CommandTimeout bounds a single external command invocation.
	// Default: 60s
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// DefaultCommandTimeout is the default external command timeout.
const DefaultCommandTimeout = 60 * time.Second

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.WGQuick == "" {
		c.WGQuick = "wg-quick"
	}
	if c.WG == "" {
		c.WG = "wg"
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = DefaultCommandTimeout
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.CommandTimeout < time.Second {
		return errors.New("tunnel: config: CommandTimeout must be at least 1s")
	}
	return nil
}
