package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment parsing. No envDefault tags:
// unset variables stay at their zero value and leave the resolved config
// untouched.
type envConfig struct {
	StorePath         string        `env:"CLIBUDDY_STORE"`
	PluginDir         string        `env:"CLIBUDDY_PLUGIN_DIR"`
	VaultBackend      string        `env:"CLIBUDDY_VAULT"`
	VaultDir          string        `env:"CLIBUDDY_VAULT_DIR"`
	SessionFile       string        `env:"CLIBUDDY_SESSION_FILE"`
	SessionTTL        time.Duration `env:"CLIBUDDY_SESSION_TTL"`
	PluginLoadTimeout time.Duration `env:"CLIBUDDY_PLUGIN_TIMEOUT"`
	ExemptCommands    []string      `env:"CLIBUDDY_EXEMPT_COMMANDS"`
	BootstrapUser     bool          `env:"CLIBUDDY_BOOTSTRAP_USER"`
	NoSplash          bool          `env:"CLIBUDDY_NO_SPLASH"`
}

// parseEnv overlays cfg with CLIBUDDY_* environment variables.
func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if ec.StorePath != "" {
		cfg.StorePath = ec.StorePath
	}
	if ec.PluginDir != "" {
		cfg.PluginDir = ec.PluginDir
	}
	if ec.VaultBackend != "" {
		cfg.VaultBackend = ec.VaultBackend
	}
	if ec.VaultDir != "" {
		cfg.VaultDir = ec.VaultDir
	}
	if ec.SessionFile != "" {
		cfg.SessionFile = ec.SessionFile
	}
	if ec.SessionTTL != 0 {
		cfg.SessionTTL = ec.SessionTTL
	}
	if ec.PluginLoadTimeout != 0 {
		cfg.PluginLoadTimeout = ec.PluginLoadTimeout
	}
	if len(ec.ExemptCommands) > 0 {
		cfg.ExemptCommands = ec.ExemptCommands
	}
	if ec.BootstrapUser {
		cfg.BootstrapUser = true
	}
	if ec.NoSplash {
		cfg.NoSplash = true
	}
	return nil
}
