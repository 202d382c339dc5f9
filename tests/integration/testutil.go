// Package integration provides end-to-end tests that drive the nodepick
// application model against real graph sources and a real journal.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/nodepick/internal/app"
	"github.com/runger/nodepick/internal/config"
	"github.com/runger/nodepick/internal/journal"
)

// maxSteps bounds how many messages a single Send may process.
const maxSteps = 1000

// TestEnv holds all resources for an integration test.
type TestEnv struct {
	T       *testing.T
	Journal *journal.Store
	Paths   *config.Paths
	TempDir string
}

// SetupTestEnv creates a temp directory and a journal inside it.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tempDir := t.TempDir()
	paths := &config.Paths{
		ConfigDir: filepath.Join(tempDir, "config"),
		DataDir:   filepath.Join(tempDir, "data"),
		CacheDir:  filepath.Join(tempDir, "cache"),
	}
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("failed to create directories: %v", err)
	}

	store, err := journal.Open(paths.JournalFile())
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &TestEnv{T: t, Journal: store, Paths: paths, TempDir: tempDir}
}

// WriteFile writes content under the env's temp dir and returns the path.
func (e *TestEnv) WriteFile(name, content string) string {
	e.T.Helper()
	path := filepath.Join(e.TempDir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		e.T.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// Start builds the application for gc and runs it through its first load.
func (e *TestEnv) Start(gc config.GraphConfig, pc config.PickerConfig) *Driver {
	e.T.Helper()
	m := app.New(app.Options{
		Loader:    app.GraphLoader(gc),
		Source:    gc.Source,
		Journal:   e.Journal,
		Picker:    pc,
		SaveDelay: time.Millisecond,
	})
	d := &Driver{t: e.T, model: m}
	d.Send(tea.WindowSizeMsg{Width: 100, Height: 40})
	d.run(m.Init())
	return d
}

// Recent returns the journal's newest entries.
func (e *TestEnv) Recent(limit int) []journal.Entry {
	e.T.Helper()
	entries, err := e.Journal.Recent(context.Background(), limit)
	if err != nil {
		e.T.Fatalf("failed to read journal: %v", err)
	}
	return entries
}

// Driver runs a Bubble Tea model synchronously: every command a message
// returns is executed and its messages are fed back into Update. Spinner
// ticks are dropped so the loop terminates.
type Driver struct {
	t     *testing.T
	model tea.Model
	quit  bool
}

// Send delivers msg and everything it causes.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	d.process([]tea.Msg{msg})
}

// Keys sends each key in order.
func (d *Driver) Keys(keys ...tea.KeyType) {
	d.t.Helper()
	for _, k := range keys {
		d.Send(tea.KeyMsg{Type: k})
	}
}

// Runes sends a rune key.
func (d *Driver) Runes(s string) {
	d.t.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// Model returns the current application model.
func (d *Driver) Model() app.Model {
	d.t.Helper()
	m, ok := d.model.(app.Model)
	if !ok {
		d.t.Fatalf("unexpected model type %T", d.model)
	}
	return m
}

// View renders the current model.
func (d *Driver) View() string {
	return d.model.View()
}

// Quit reports whether the model asked to quit.
func (d *Driver) Quit() bool {
	return d.quit
}

func (d *Driver) run(cmd tea.Cmd) {
	d.t.Helper()
	d.process(collect(cmd))
}

func (d *Driver) process(queue []tea.Msg) {
	d.t.Helper()
	for steps := 0; len(queue) > 0; steps++ {
		if steps >= maxSteps {
			d.t.Fatalf("model did not settle after %d messages", maxSteps)
		}
		msg := queue[0]
		queue = queue[1:]

		switch msg.(type) {
		case spinner.TickMsg:
			continue
		case tea.QuitMsg:
			d.quit = true
			continue
		}

		next, cmd := d.model.Update(msg)
		d.model = next
		queue = append(queue, collect(cmd)...)
	}
}

// collect runs cmd and returns every message it produces, flattening
// batches and sequences.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}
