package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// isolateEnv points every XDG directory at a temp dir, clears NODEPICK_*
// overrides, and disables colors for the test.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, name := range []string{
		"NODEPICK_DEBUG",
		"NODEPICK_LOG_LEVEL",
		"NODEPICK_BATCH_SIZE",
		"NODEPICK_GRAPH_SOURCE",
		"NODEPICK_GRAPH_FILE",
		"NODEPICK_GRAPH_COMMAND",
		"NODEPICK_JOURNAL",
	} {
		t.Setenv(name, "")
	}
	t.Setenv("COLUMNS", "80")

	oldPath := configPath
	configPath = ""
	disableColors()
	t.Cleanup(func() {
		configPath = oldPath
		if shouldDisableColors() {
			disableColors()
		} else {
			enableColors()
		}
	})
	return dir
}

// writeConfig writes a config file and selects it with --config.
func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	configPath = path
	return path
}

type historyGlobals struct {
	limit int
	clear bool
}

func withHistoryGlobals(t *testing.T, g historyGlobals) {
	t.Helper()
	old := historyGlobals{limit: historyLimit, clear: historyClear}
	historyLimit = g.limit
	historyClear = g.clear
	t.Cleanup(func() {
		historyLimit = old.limit
		historyClear = old.clear
	})
}

type nodesGlobals struct {
	page   int
	back   int
	export string
}

func withNodesGlobals(t *testing.T, g nodesGlobals) {
	t.Helper()
	old := nodesGlobals{page: nodesPage, back: nodesBack, export: nodesExport}
	nodesPage = g.page
	nodesBack = g.back
	nodesExport = g.export
	t.Cleanup(func() {
		nodesPage = old.page
		nodesBack = old.back
		nodesExport = old.export
	})
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()
	_ = w.Close()
	os.Stdout = old
	out := <-outC
	_ = r.Close()
	return out
}
