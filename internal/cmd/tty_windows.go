//go:build windows

package cmd

import "os"

// openTTY returns nil on Windows; the picker uses stdin and stdout.
func openTTY() (*os.File, error) {
	return nil, nil
}

// ttyWidth returns 0 on Windows; the width check is skipped.
func ttyWidth(*os.File) int {
	return 0
}

// stdoutWidth returns 0 on Windows; width detection falls back to $COLUMNS.
func stdoutWidth() int {
	return 0
}

// acquireLock is a no-op on Windows.
func acquireLock(string) (func(), error) {
	return func() {}, nil
}
