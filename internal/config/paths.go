// Package config provides configuration management for nodepick.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "nodepick"

// Paths holds the directories nodepick reads from and writes to.
type Paths struct {
	// ConfigDir holds config.yaml (~/.config/nodepick)
	ConfigDir string

	// DataDir holds the selection journal and logs (~/.local/share/nodepick)
	DataDir string

	// CacheDir holds the picker lock file (~/.cache/nodepick)
	CacheDir string
}

// DefaultPaths returns the default paths based on the XDG Base Directory
// spec. On Windows, it uses %APPDATA% and %LOCALAPPDATA% instead.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}
		return &Paths{
			ConfigDir: filepath.Join(appData, appName),
			DataDir:   filepath.Join(localAppData, appName),
			CacheDir:  filepath.Join(localAppData, appName, "cache"),
		}
	}

	return &Paths{
		ConfigDir: filepath.Join(xdgDir("XDG_CONFIG_HOME", home, ".config"), appName),
		DataDir:   filepath.Join(xdgDir("XDG_DATA_HOME", home, ".local", "share"), appName),
		CacheDir:  filepath.Join(xdgDir("XDG_CACHE_HOME", home, ".cache"), appName),
	}
}

func xdgDir(env, home string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// EnvFile returns the path to the optional .env overrides file.
func (p *Paths) EnvFile() string {
	return filepath.Join(p.ConfigDir, ".env")
}

// JournalFile returns the path to the SQLite selection journal.
func (p *Paths) JournalFile() string {
	return filepath.Join(p.DataDir, "journal.db")
}

// LogDir returns the path to the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.DataDir, "logs")
}

// LogFile returns the path to the log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "nodepick.log")
}

// LockFile returns the path to the picker's advisory lock.
func (p *Paths) LockFile() string {
	return filepath.Join(p.CacheDir, "picker.lock")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir, p.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return os.Getenv("USERPROFILE")
		}
		return os.Getenv("HOME")
	}
	return home
}
