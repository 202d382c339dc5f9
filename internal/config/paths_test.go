package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths()

	if paths.ConfigDir == "" {
		t.Error("ConfigDir is empty")
	}
	if paths.DataDir == "" {
		t.Error("DataDir is empty")
	}
	if paths.CacheDir == "" {
		t.Error("CacheDir is empty")
	}

	if !filepath.IsAbs(paths.ConfigDir) {
		t.Errorf("ConfigDir should be absolute: %s", paths.ConfigDir)
	}
	if !filepath.IsAbs(paths.DataDir) {
		t.Errorf("DataDir should be absolute: %s", paths.DataDir)
	}
}

func TestDefaultPaths_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}

	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")

	paths := DefaultPaths()

	if paths.ConfigDir != "/custom/config/nodepick" {
		t.Errorf("ConfigDir should respect XDG_CONFIG_HOME: %s", paths.ConfigDir)
	}
	if !strings.HasPrefix(paths.DataDir, "/custom/data") {
		t.Errorf("DataDir should respect XDG_DATA_HOME: %s", paths.DataDir)
	}
	if !strings.HasPrefix(paths.CacheDir, "/custom/cache") {
		t.Errorf("CacheDir should respect XDG_CACHE_HOME: %s", paths.CacheDir)
	}
}

func TestPaths_Files(t *testing.T) {
	p := &Paths{ConfigDir: "/c", DataDir: "/d", CacheDir: "/k"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", p.ConfigFile(), filepath.Join("/c", "config.yaml")},
		{"env", p.EnvFile(), filepath.Join("/c", ".env")},
		{"journal", p.JournalFile(), filepath.Join("/d", "journal.db")},
		{"logdir", p.LogDir(), filepath.Join("/d", "logs")},
		{"logfile", p.LogFile(), filepath.Join("/d", "logs", "nodepick.log")},
		{"lock", p.LockFile(), filepath.Join("/k", "picker.lock")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestPaths_EnsureDirectories(t *testing.T) {
	root := t.TempDir()
	p := &Paths{
		ConfigDir: filepath.Join(root, "config"),
		DataDir:   filepath.Join(root, "data"),
		CacheDir:  filepath.Join(root, "cache"),
	}

	if err := p.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir, p.LogDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}
