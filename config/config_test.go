package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./halo-data", cfg.DataDir)
	require.Equal(t, "leveldb", cfg.DBBackend)
	require.Equal(t, "halo-local", cfg.NetworkName)
	require.Equal(t, "info", cfg.LogLevel)

	// The default file lands on disk and loads back unchanged.
	_, err = os.Stat(path)
	require.NoError(t, err)
	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"DataDir = \"/var/lib/halo\"\nDBBackend = \"bolt\"\nLogLevel = \"debug\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/halo", cfg.DataDir)
	require.Equal(t, "bolt", cfg.DBBackend)
	require.Equal(t, "debug", cfg.LogLevel)
	// Omitted fields fall back to the defaults.
	require.Equal(t, "halo-local", cfg.NetworkName)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "backend.toml")
	require.NoError(t, os.WriteFile(bad, []byte("DBBackend = \"oracle\"\n"), 0o644))
	_, err := Load(bad)
	require.ErrorContains(t, err, "DBBackend")

	level := filepath.Join(dir, "level.toml")
	require.NoError(t, os.WriteFile(level, []byte("LogLevel = \"verbose\"\n"), 0o644))
	_, err = Load(level)
	require.ErrorContains(t, err, "LogLevel")
}
