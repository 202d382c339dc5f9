//go:build !windows

package cmd

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// openTTY opens the controlling terminal. The picker draws on it so that
// stdout stays free for --print.
func openTTY() (*os.File, error) {
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("no TTY available: %w", err)
	}
	return f, nil
}

// ttyWidth returns the width of f in columns, or 0 if unknown.
func ttyWidth(f *os.File) int {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}

// stdoutWidth returns the width of stdout, or 0 when it is not a terminal.
func stdoutWidth() int {
	return ttyWidth(os.Stdout)
}

// acquireLock takes an exclusive advisory lock on path. The returned func
// releases it.
func acquireLock(path string) (func(), error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open lock file: %w", err)
	}

	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = unix.Close(fd)
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, errors.New("another nodepick picker is running")
		}
		return nil, fmt.Errorf("cannot lock %s: %w", path, err)
	}

	return func() {
		_ = unix.Flock(fd, unix.LOCK_UN)
		_ = unix.Close(fd)
	}, nil
}
