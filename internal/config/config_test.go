package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Batch.Workers)
	assert.Equal(t, 0.65, cfg.Validation.MinConfidence)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
cache:
  backend: memory
  ttl: 30m
batch:
  workers: 4
  results_dir: /tmp/out
matching:
  heuristic_threshold: 0.5
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, "/tmp/out", cfg.Batch.ResultsDir)
	assert.Equal(t, 0.5, cfg.Matching.HeuristicThreshold)
	// Untouched sections keep defaults.
	assert.Equal(t, 8086, cfg.Server.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PARTFIT_CACHE_TTL", "5m")
	t.Setenv("PARTFIT_SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestValidate_Rejects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Backend = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Batch.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Matching.HeuristicThreshold = 1.2
	assert.Error(t, cfg.Validate())
}
