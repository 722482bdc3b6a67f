package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/modulink/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "modulink.yaml", `
log:
  level: debug
chain:
  immutable: true
  max_steps: 50
cache:
  backend: redis
  address: redis:6379
  ttl: 30s
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their defaults")
	assert.True(t, cfg.Chain.Immutable)
	assert.Equal(t, 50, cfg.Chain.MaxSteps)
	assert.Equal(t, config.BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.Address)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "modulink:memo:", cfg.Cache.Prefix)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "modulink.json", `{"metrics": {"enabled": true, "namespace": "signup"}, "cache": {"db": "2"}}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "signup", cfg.Metrics.Namespace)
	assert.Equal(t, 2, cfg.Cache.DB, "numbers given as strings are accepted")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"malformed yaml", "c.yaml", "log: [unclosed"},
		{"malformed json", "c.json", "{"},
		{"unknown key", "c.yaml", "chain:\n  max_stepz: 3\n"},
		{"bad level", "c.yaml", "log:\n  level: loud\n"},
		{"bad backend", "c.yaml", "cache:\n  backend: memcached\n"},
		{"negative steps", "c.yaml", "chain:\n  max_steps: -1\n"},
		{"bad duration", "c.yaml", "cache:\n  ttl: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())

	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = ""
	assert.Error(t, cfg.Validate())

	cfg = config.Defaults()
	cfg.Cache.Backend = config.BackendRedis
	cfg.Cache.Address = ""
	assert.Error(t, cfg.Validate())
}
