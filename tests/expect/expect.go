//go:build !windows

// Package expect drives the nodepick picker in a pseudo-terminal using
// go-expect.
package expect

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sync"
	"syscall"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/creack/pty"
)

// Key constants for special keys (ANSI escape sequences)
const (
	KeyUp     = "\x1b[A"
	KeyDown   = "\x1b[B"
	KeyPgDown = "\x1b[6~"
	KeyEscape = "\x1b"
	KeyEnter  = "\r"
	KeyTab    = "\t"
	KeyCtrlC  = "\x03"
)

// Terminal size given to every session.
const (
	termRows = 40
	termCols = 120
)

var (
	buildOnce sync.Once
	buildPath string
	buildErr  error
)

// Binary builds nodepick once per test run and returns its path.
func Binary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "nodepick-expect-")
		if err != nil {
			buildErr = err
			return
		}
		buildPath = filepath.Join(dir, "nodepick")
		cmd := exec.Command("go", "build", "-o", buildPath, "./cmd/nodepick")
		cmd.Dir = moduleRoot()
		cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("go build failed: %w\n%s", err, out)
		}
	})
	if buildErr != nil {
		t.Fatal(buildErr)
	}
	return buildPath
}

// Env returns an environment whose XDG directories live under a temp dir.
// The config file gets body when it is not empty.
func Env(t *testing.T, config string) []string {
	t.Helper()
	home := t.TempDir()
	env := append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, "config"),
		"XDG_DATA_HOME="+filepath.Join(home, "data"),
		"XDG_CACHE_HOME="+filepath.Join(home, "cache"),
		"TERM=xterm-256color",
	)
	if config != "" {
		dir := filepath.Join(home, "config", "nodepick")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(config), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return env
}

// PickerSession is a running `nodepick pick` attached to a pty.
type PickerSession struct {
	Console *expect.Console
	Timeout time.Duration
	cmd     *exec.Cmd
	done    chan error
}

// NewPickerSession starts `nodepick pick args...` with the pty as its
// controlling terminal.
func NewPickerSession(bin string, env []string, timeout time.Duration, args ...string) (*PickerSession, error) {
	console, err := expect.NewConsole(expect.WithDefaultTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create console: %w", err)
	}
	if err := pty.Setsize(console.Tty(), &pty.Winsize{Rows: termRows, Cols: termCols}); err != nil {
		console.Close()
		return nil, fmt.Errorf("failed to size pty: %w", err)
	}

	cmd := exec.Command(bin, append([]string{"pick"}, args...)...) //nolint:gosec // G204: test binary
	cmd.Stdin = console.Tty()
	cmd.Stdout = console.Tty()
	cmd.Stderr = console.Tty()
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true, Ctty: 0}

	if err := cmd.Start(); err != nil {
		console.Close()
		return nil, fmt.Errorf("failed to start picker: %w", err)
	}

	s := &PickerSession{Console: console, Timeout: timeout, cmd: cmd, done: make(chan error, 1)}
	go func() { s.done <- cmd.Wait() }()
	return s, nil
}

// SendKey sends a key or raw text.
func (s *PickerSession) SendKey(key string) error {
	_, err := s.Console.Send(key)
	return err
}

// Expect waits for an exact string match in the output.
func (s *PickerSession) Expect(str string) (string, error) {
	return s.Console.ExpectString(str)
}

// ExpectRegex waits for a regex pattern match in the output.
func (s *PickerSession) ExpectRegex(pattern string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex: %w", err)
	}
	return s.Console.Expect(expect.Regexp(re))
}

// Wait waits for the picker to exit.
func (s *PickerSession) Wait() error {
	select {
	case err := <-s.done:
		return err
	case <-time.After(s.Timeout):
		return errors.New("picker did not exit")
	}
}

// Close kills the picker if it is still running and releases the pty.
func (s *PickerSession) Close() error {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	return s.Console.Close()
}

// Run runs a non-interactive nodepick command and returns its output.
func Run(bin string, env []string, args ...string) (string, error) {
	cmd := exec.Command(bin, args...) //nolint:gosec // G204: test binary
	cmd.Env = append(env, "NO_COLOR=1")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// SkipIfShort skips the test if running in short mode.
func SkipIfShort(t interface {
	Skip(args ...interface{})
	Short() bool
}, reason string) {
	if t.Short() {
		t.Skip("skipping in short mode: " + reason)
	}
}

func moduleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
