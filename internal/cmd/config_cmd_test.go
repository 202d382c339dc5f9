package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/nodepick/internal/config"
)

func TestListConfig(t *testing.T) {
	isolateEnv(t)

	out := captureStdout(t, func() {
		require.NoError(t, listConfig(config.DefaultConfig()))
	})

	for _, key := range config.ListKeys() {
		assert.Contains(t, out, key+" = ")
	}
	assert.Contains(t, out, "picker.batch_size = 100")
	assert.Contains(t, out, "graph.file = (not set)")
	assert.Contains(t, out, "Config file: "+config.DefaultPaths().ConfigFile())
}

func TestGetConfig(t *testing.T) {
	isolateEnv(t)
	cfg := config.DefaultConfig()

	out := captureStdout(t, func() {
		require.NoError(t, getConfig(cfg, "picker.max_batches"))
	})
	assert.Equal(t, "3\n", out)

	out = captureStdout(t, func() {
		require.NoError(t, getConfig(cfg, "journal.path"))
	})
	assert.Equal(t, "(not set)\n", out)

	assert.Error(t, getConfig(cfg, "picker.nope"))
}

func TestSetConfig_Persists(t *testing.T) {
	dir := isolateEnv(t)
	configPath = filepath.Join(dir, "nested", "config.yaml")

	out := captureStdout(t, func() {
		require.NoError(t, setConfig("picker.batch_size", "200"))
	})
	assert.Contains(t, out, "picker.batch_size = 200")
	assert.Contains(t, out, "Saved to: "+configPath)

	cfg, err := config.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Picker.BatchSize)
}

func TestSetConfig_PrintsClampedValue(t *testing.T) {
	dir := isolateEnv(t)
	configPath = filepath.Join(dir, "config.yaml")

	out := captureStdout(t, func() {
		require.NoError(t, setConfig("picker.batch_size", "5000"))
	})
	assert.Contains(t, out, "picker.batch_size = 1000")
}

func TestSetConfig_IgnoresEnvOverrides(t *testing.T) {
	dir := isolateEnv(t)
	configPath = filepath.Join(dir, "config.yaml")
	t.Setenv("NODEPICK_BATCH_SIZE", "50")

	captureStdout(t, func() {
		require.NoError(t, setConfig("log.level", "debug"))
	})

	cfg, err := config.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 100, cfg.Picker.BatchSize)
}

func TestSetConfig_Errors(t *testing.T) {
	dir := isolateEnv(t)
	configPath = filepath.Join(dir, "config.yaml")

	assert.Error(t, setConfig("picker.unknown", "1"))
	assert.Error(t, setConfig("picker.batch_size", "many"))

	err := setConfig("graph.source", "file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph.file is required")
}

func TestRunConfig_UsesConfigFlag(t *testing.T) {
	dir := isolateEnv(t)
	writeConfig(t, dir, "picker:\n  height: 20\n")

	out := captureStdout(t, func() {
		require.NoError(t, runConfig(configCmd, []string{"picker.height"}))
	})
	assert.Equal(t, "20\n", out)
}
