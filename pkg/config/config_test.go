package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.01, cfg.Tolerance)
	assert.Equal(t, 5e-7, cfg.Validation.DistinctMinDistance)
	assert.Equal(t, 5e-14, cfg.Validation.IdenticalMaxDistance)
	assert.Zero(t, cfg.Intersect.ParallelEpsilon)
	assert.Zero(t, cfg.Approx.Workers)
	assert.Equal(t, 5*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
tolerance: 0.5
engine:
  timeout: 250ms
log:
  format: json
`))
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Tolerance)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5e-7, cfg.Validation.DistinctMinDistance)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "tolerence: 0.1"},
		{"zero tolerance", "tolerance: 0"},
		{"negative workers", "approx: {workers: -2}"},
		{"zero distinct distance", "validation: {distinct_min_distance: 0}"},
		{"negative epsilon", "intersect: {parallel_epsilon: -1}"},
		{"zero timeout", "engine: {timeout: 0s}"},
		{"bad level", "log: {level: loud}"},
		{"bad format", "log: {format: xml}"},
		{"not yaml", "tolerance: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kerf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("approx:\n  workers: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Approx.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:  "DEBUG",
		EnvLogFormat: "json",
		EnvWorkers:   "4",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Approx.Workers)

	env[EnvWorkers] = "many"
	assert.Error(t, Default().ApplyEnv(func(k string) string { return env[k] }))

	env[EnvWorkers] = ""
	env[EnvLogLevel] = "chatty"
	assert.ErrorContains(t, Default().ApplyEnv(func(k string) string { return env[k] }), "Level")
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := FromEnvironment("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	path := filepath.Join(t.TempDir(), "kerf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerance: 0.2\nlog: {level: error}\n"), 0o600))
	cfg, err = FromEnvironment(path)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Tolerance)
	assert.Equal(t, "warn", cfg.Log.Level)
}
