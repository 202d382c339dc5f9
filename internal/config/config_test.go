package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Picker.BatchSize != 100 {
		t.Errorf("Expected batch_size=100, got %d", cfg.Picker.BatchSize)
	}
	if cfg.Picker.MaxBatches != 3 {
		t.Errorf("Expected max_batches=3, got %d", cfg.Picker.MaxBatches)
	}
	if cfg.Picker.Placeholder != "Select node" {
		t.Errorf("Expected placeholder 'Select node', got %q", cfg.Picker.Placeholder)
	}
	if cfg.Graph.Source != SourceGenerate {
		t.Errorf("Expected source=generate, got %s", cfg.Graph.Source)
	}
	if cfg.Graph.Nodes != 10000 || cfg.Graph.Links != 5000 {
		t.Errorf("Expected 10000 nodes / 5000 links, got %d / %d", cfg.Graph.Nodes, cfg.Graph.Links)
	}
	if cfg.SaveDelay() != 5*time.Second {
		t.Errorf("Expected save delay 5s, got %s", cfg.SaveDelay())
	}
	if !cfg.Journal.Enabled {
		t.Error("Expected journal.enabled=true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected log.level=info, got %s", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigGet(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key      string
		expected string
	}{
		{"picker.batch_size", "100"},
		{"picker.max_batches", "3"},
		{"picker.height", "12"},
		{"picker.placeholder", "Select node"},
		{"picker.scroll_tolerance", "0.5"},
		{"graph.source", "generate"},
		{"graph.nodes", "10000"},
		{"graph.links", "5000"},
		{"graph.seed", "0"},
		{"graph.file", ""},
		{"graph.command", ""},
		{"status.save_delay_ms", "5000"},
		{"journal.enabled", "true"},
		{"journal.path", ""},
		{"journal.recent_limit", "20"},
		{"log.level", "info"},
		{"log.file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestListKeys_AllGettable(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range ListKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestConfigSet(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Set("picker.batch_size", "250"))
	require.NoError(t, cfg.Set("picker.scroll_tolerance", "0.25"))
	require.NoError(t, cfg.Set("graph.source", "file"))
	require.NoError(t, cfg.Set("graph.file", "/tmp/g.yaml"))
	require.NoError(t, cfg.Set("graph.seed", "42"))
	require.NoError(t, cfg.Set("journal.enabled", "false"))
	require.NoError(t, cfg.Set("log.level", "debug"))

	assert.Equal(t, 250, cfg.Picker.BatchSize)
	assert.Equal(t, 0.25, cfg.Picker.ScrollTolerance)
	assert.Equal(t, SourceFile, cfg.Graph.Source)
	assert.Equal(t, "/tmp/g.yaml", cfg.Graph.File)
	assert.Equal(t, uint64(42), cfg.Graph.Seed)
	assert.False(t, cfg.Journal.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfigSet_Errors(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key, value, contains string
	}{
		{"picker", "1", "invalid key format"},
		{"nope.key", "1", "unknown section"},
		{"picker.nope", "1", "unknown field"},
		{"picker.batch_size", "lots", "invalid value"},
		{"journal.enabled", "maybe", "invalid value"},
		{"log.level", "loud", "invalid value"},
		{"graph.seed", "-1", "invalid value"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := cfg.Set(tt.key, tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidate_Clamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Picker.BatchSize = 1
	cfg.Picker.MaxBatches = 1000
	cfg.Picker.Height = 0
	cfg.Picker.Placeholder = ""
	cfg.Picker.ScrollTolerance = 5
	cfg.Journal.RecentLimit = 0

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Picker.BatchSize)
	assert.Equal(t, 20, cfg.Picker.MaxBatches)
	assert.Equal(t, 3, cfg.Picker.Height)
	assert.Equal(t, "Select node", cfg.Picker.Placeholder)
	assert.Equal(t, 0.5, cfg.Picker.ScrollTolerance)
	assert.Equal(t, 20, cfg.Journal.RecentLimit)

	cfg.Picker.BatchSize = 5000
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1000, cfg.Picker.BatchSize)
}

func TestValidate_MaxBatchesCoversHeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Picker.BatchSize = 10
	cfg.Picker.MaxBatches = 2
	cfg.Picker.Height = 30

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.Picker.MaxBatches)
	assert.Greater(t, cfg.Picker.MaxBatches*cfg.Picker.BatchSize, cfg.Picker.Height+cfg.Picker.BatchSize)

	cfg.Picker.MaxBatches = 7
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 7, cfg.Picker.MaxBatches, "a larger bound is kept")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad source", func(c *Config) { c.Graph.Source = "http" }, "graph.source"},
		{"file without path", func(c *Config) { c.Graph.Source = SourceFile }, "graph.file"},
		{"command without cmd", func(c *Config) { c.Graph.Source = SourceCommand }, "graph.command"},
		{"negative nodes", func(c *Config) { c.Graph.Nodes = -1 }, "graph.nodes"},
		{"negative links", func(c *Config) { c.Graph.Links = -1 }, "graph.links"},
		{"negative delay", func(c *Config) { c.Status.SaveDelayMs = -1 }, "save_delay_ms"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Picker.BatchSize)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
picker:
  batch_size: 50
  height: 20
graph:
  source: command
  command: "ls -1"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Picker.BatchSize)
	assert.Equal(t, 20, cfg.Picker.Height)
	assert.Equal(t, 3, cfg.Picker.MaxBatches, "unset keys keep defaults")
	assert.Equal(t, SourceCommand, cfg.Graph.Source)
	assert.Equal(t, "ls -1", cfg.Graph.Command)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("picker: [1, 2"), 0o644))
	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")

	require.NoError(t, os.WriteFile(path, []byte("graph:\n  source: ftp\n"), 0o644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Picker.BatchSize = 200
	cfg.Graph.Seed = 9

	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("NODEPICK_DEBUG", "1")
	t.Setenv("NODEPICK_BATCH_SIZE", "64")
	t.Setenv("NODEPICK_GRAPH_SOURCE", "command")
	t.Setenv("NODEPICK_GRAPH_COMMAND", "seq 1 10")
	t.Setenv("NODEPICK_JOURNAL", "false")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 64, cfg.Picker.BatchSize)
	assert.Equal(t, SourceCommand, cfg.Graph.Source)
	assert.Equal(t, "seq 1 10", cfg.Graph.Command)
	assert.False(t, cfg.Journal.Enabled)
}

func TestApplyEnvOverrides_LogLevelWinsOverDebug(t *testing.T) {
	t.Setenv("NODEPICK_DEBUG", "true")
	t.Setenv("NODEPICK_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NODEPICK_TEST_ENV_VALUE=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("NODEPICK_TEST_ENV_VALUE") })

	err := LoadEnvFiles(filepath.Join(dir, "missing.env"), envPath)
	require.NoError(t, err)
	assert.Equal(t, "from-file", os.Getenv("NODEPICK_TEST_ENV_VALUE"))
}

func TestLoadEnvFiles_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NODEPICK_TEST_ENV_KEEP=file\n"), 0o644))
	t.Setenv("NODEPICK_TEST_ENV_KEEP", "process")

	require.NoError(t, LoadEnvFiles(envPath))
	assert.Equal(t, "process", os.Getenv("NODEPICK_TEST_ENV_KEEP"))
}

func TestLoadEnvFiles_Malformed(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOT VALID LINE WITH 'quote\n"), 0o644))

	err := LoadEnvFiles(envPath)
	if err != nil {
		assert.True(t, strings.Contains(err.Error(), envPath))
	}
}
