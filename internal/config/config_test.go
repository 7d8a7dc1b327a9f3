package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "./data/bookmarks.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Seed)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	yaml := "port: 9090\nstorage: badger\nbadger_path: /tmp/bm\nseed: true\nshutdown_timeout: 3s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageBadger, cfg.Storage)
	assert.Equal(t, "/tmp/bm", cfg.BadgerPath)
	assert.True(t, cfg.Seed)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: 9090\n"), 0o644))
	t.Setenv("BOOKMARKS_PORT", "7070")
	t.Setenv("BOOKMARKS_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("BOOKMARKS_STORAGE", "postgres")

	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: [\n"), 0o644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "error reading config file")
}
