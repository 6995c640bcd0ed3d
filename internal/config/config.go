// Package config resolves runtime settings for the CLI from four layers,
// each overriding the previous one: built-in defaults, a JSON file
// (-c/-config), CLIBUDDY_* environment variables, and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the resolved runtime settings.
//
// Paths default to the per-user config directory, e.g.
// ~/.config/clibuddy on Linux.
type Config struct {
	// StorePath is the sqlite database file holding users and sessions.
	StorePath string
	// PluginDir is scanned for *.lua command plugins at startup.
	PluginDir string
	// VaultBackend selects the secret vault: "keyring" for the OS
	// credential store, "file" for the age-encrypted file vault.
	VaultBackend string
	// VaultDir is where the file vault keeps its entries and identity.
	VaultDir string
	// SessionFile persists the current session handle between invocations.
	SessionFile string
	// SessionTTL is how long a session stays valid after login.
	SessionTTL time.Duration
	// PluginLoadTimeout bounds a single plugin load.
	PluginLoadTimeout time.Duration
	// ExemptCommands is the host-controlled allow-list of plugin command
	// names permitted to opt out of authentication. A plugin marking any
	// other command exempt is overridden.
	ExemptCommands []string
	// BootstrapUser makes login create an unknown user on first use.
	BootstrapUser bool
	// NoSplash suppresses the startup banner.
	NoSplash bool
}

// VaultBackend values.
const (
	VaultKeyring = "keyring"
	VaultFile    = "file"
)

// LoadDefaults populates c with defaults rooted in the user config dir.
func (c *Config) LoadDefaults() error {
	base, err := os.UserConfigDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(base, "clibuddy")

	c.StorePath = filepath.Join(dir, "clibuddy.db")
	c.PluginDir = filepath.Join(dir, "plugins")
	c.VaultBackend = VaultKeyring
	c.VaultDir = filepath.Join(dir, "vault")
	c.SessionFile = filepath.Join(dir, "session.json")
	c.SessionTTL = 24 * time.Hour
	c.PluginLoadTimeout = 5 * time.Second
	return nil
}

// Load constructs a Config: defaults, then JSON file (if given), then
// environment, then flags. Later sources take precedence.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cfg.LoadDefaults(); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
