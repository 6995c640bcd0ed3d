package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"clibuddy"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoad_Defaults(t *testing.T) {
	resetArgs(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.StorePath, "clibuddy")
	assert.Equal(t, VaultKeyring, cfg.VaultBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.PluginLoadTimeout)
	assert.False(t, cfg.BootstrapUser)
	assert.False(t, cfg.NoSplash)
}

func TestLoad_JSONOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"store_path": "/tmp/custom.db",
		"vault_backend": "file",
		"session_ttl": "2h",
		"bootstrap_user": true
	}`), 0o600))

	resetArgs(t, "-c", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.StorePath)
	assert.Equal(t, VaultFile, cfg.VaultBackend)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.BootstrapUser)
}

func TestLoad_ExemptCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"exempt_commands": ["ping", "status"]}`), 0o600))
	resetArgs(t, "-c", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"ping", "status"}, cfg.ExemptCommands)

	t.Setenv("CLIBUDDY_EXEMPT_COMMANDS", "ping")

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"ping"}, cfg.ExemptCommands)
}

func TestLoad_EnvOverridesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"store_path": "/tmp/from-json.db"}`), 0o600))

	resetArgs(t, "-c", path)
	t.Setenv("CLIBUDDY_STORE", "/tmp/from-env.db")
	t.Setenv("CLIBUDDY_SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", cfg.StorePath)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("CLIBUDDY_STORE", "/tmp/from-env.db")
	resetArgs(t, "-store", "/tmp/from-flag.db", "--no-splash", "whoami")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-flag.db", cfg.StorePath)
	assert.True(t, cfg.NoSplash)
}

func TestLoad_MissingJSONFileFails(t *testing.T) {
	resetArgs(t, "-c", filepath.Join(t.TempDir(), "absent.json"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidJSONFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o600))
	resetArgs(t, "-c", path)

	_, err := Load()
	assert.Error(t, err)
}
