package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/flagx"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept either strings like "24h" or integer nanoseconds via
// timex.Duration; booleans are pointers so "absent" and "false" can be told
// apart.
type jsonConfig struct {
	StorePath         string          `json:"store_path"`
	PluginDir         string          `json:"plugin_dir"`
	VaultBackend      string          `json:"vault_backend"`
	VaultDir          string          `json:"vault_dir"`
	SessionFile       string          `json:"session_file"`
	SessionTTL        *timex.Duration `json:"session_ttl"`
	PluginLoadTimeout *timex.Duration `json:"plugin_load_timeout"`
	ExemptCommands    []string        `json:"exempt_commands"`
	BootstrapUser     *bool           `json:"bootstrap_user"`
	NoSplash          *bool           `json:"no_splash"`
}

// parseJSON overlays cfg with values from the JSON file named by the
// -c/-config flag. No flag, no file, nothing happens.
func parseJSON(cfg *Config) error {
	path := flagx.JSONConfigPath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.StorePath != "" {
		cfg.StorePath = jc.StorePath
	}
	if jc.PluginDir != "" {
		cfg.PluginDir = jc.PluginDir
	}
	if jc.VaultBackend != "" {
		cfg.VaultBackend = jc.VaultBackend
	}
	if jc.VaultDir != "" {
		cfg.VaultDir = jc.VaultDir
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.SessionTTL != nil {
		cfg.SessionTTL = time.Duration(jc.SessionTTL.Duration)
	}
	if jc.PluginLoadTimeout != nil {
		cfg.PluginLoadTimeout = time.Duration(jc.PluginLoadTimeout.Duration)
	}
	if len(jc.ExemptCommands) > 0 {
		cfg.ExemptCommands = jc.ExemptCommands
	}
	if jc.BootstrapUser != nil {
		cfg.BootstrapUser = *jc.BootstrapUser
	}
	if jc.NoSplash != nil {
		cfg.NoSplash = *jc.NoSplash
	}
	return nil
}
