package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "./backups", cfg.BackupDir)
	assert.Equal(t, "127.0.0.1", cfg.Server.Bind)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "./data", cfg.Server.DataDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.WSE2)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.ProfilesPath = "/games/warband/profiles.dat"
	cfg.WSE2 = true
	cfg.Server.Port = 9090
	cfg.Server.APIKey = "secret"

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppliesDefaults(t *testing.T) {
	// A partial file keeps defaults for everything it omits.
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wse2: true\nserver:\n  port: 9999\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.WSE2)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Bind)
	assert.Equal(t, "./backups", cfg.BackupDir)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.False(t, ConfigExists(path))

	require.NoError(t, os.WriteFile(path, []byte("wse2: false\n"), 0o600))
	assert.True(t, ConfigExists(path))
}
