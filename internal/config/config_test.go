package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./data/driftarr.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, time.Hour, cfg.Blocklist.PruneInterval)
	assert.Equal(t, 2048, cfg.Scoring.CacheSize)
	assert.Empty(t, cfg.Downloaders)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
database:
  path: /var/lib/driftarr/driftarr.db
logging:
  level: debug
  format: json
blocklist:
  prune_interval: 30m
scoring:
  cache_size: 512
downloaders:
  - name: transmission-main
    type: transmission
    host: 10.0.0.5
    port: 9091
    username: admin
    password: secret
    enabled: true
    priority: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/driftarr/driftarr.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 30*time.Minute, cfg.Blocklist.PruneInterval)
	assert.Equal(t, 512, cfg.Scoring.CacheSize)

	require.Len(t, cfg.Downloaders, 1)
	dl := cfg.Downloaders[0]
	assert.Equal(t, "transmission-main", dl.Name)
	assert.Equal(t, "transmission", dl.Type)
	assert.Equal(t, "10.0.0.5", dl.Host)
	assert.Equal(t, 9091, dl.Port)
	assert.True(t, dl.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DRIFTARR_LOGGING_LEVEL", "trace")
	t.Setenv("DRIFTARR_SCORING_CACHE_SIZE", "64")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, 64, cfg.Scoring.CacheSize)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "./data/driftarr.db", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.Blocklist.PruneInterval)
}
