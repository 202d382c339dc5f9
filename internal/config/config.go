package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/runger/nodepick/internal/window"
)

// Config represents the nodepick configuration.
type Config struct {
	Picker  PickerConfig  `yaml:"picker"`
	Graph   GraphConfig   `yaml:"graph"`
	Status  StatusConfig  `yaml:"status"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
}

// PickerConfig holds node picker settings.
type PickerConfig struct {
	BatchSize       int     `yaml:"batch_size"`       // Items materialized per scroll step
	MaxBatches      int     `yaml:"max_batches"`      // Window bound, in batches
	Height          int     `yaml:"height"`           // Visible rows when open
	Placeholder     string  `yaml:"placeholder"`      // Header text with nothing selected
	ScrollTolerance float64 `yaml:"scroll_tolerance"` // Slack for top/bottom detection, in rows
}

// GraphConfig selects where the diagram comes from.
type GraphConfig struct {
	Source  string `yaml:"source"`  // generate, file, or command
	Nodes   int    `yaml:"nodes"`   // generate: node count
	Links   int    `yaml:"links"`   // generate: link count
	Seed    uint64 `yaml:"seed"`    // generate: color seed (0 = random)
	File    string `yaml:"file"`    // file: YAML graph path
	Command string `yaml:"command"` // command: prints one node key per line
}

// StatusConfig holds saving-status settings.
type StatusConfig struct {
	SaveDelayMs int `yaml:"save_delay_ms"` // Delay before a model change reads as saved
}

// JournalConfig holds selection journal settings.
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`      // Record confirmed selections
	Path        string `yaml:"path"`         // SQLite path (overrides default)
	RecentLimit int    `yaml:"recent_limit"` // Default row count for `nodepick history`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (overrides default)
}

// Graph sources.
const (
	SourceGenerate = "generate"
	SourceFile     = "file"
	SourceCommand  = "command"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Picker: PickerConfig{
			BatchSize:       100,
			MaxBatches:      3,
			Height:          12,
			Placeholder:     "Select node",
			ScrollTolerance: 0.5,
		},
		Graph: GraphConfig{
			Source: SourceGenerate,
			Nodes:  10000,
			Links:  5000,
		},
		Status: StatusConfig{
			SaveDelayMs: 5000,
		},
		Journal: JournalConfig{
			Enabled:     true,
			RecentLimit: 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SaveDelay returns the saving delay as a duration.
func (c *Config) SaveDelay() time.Duration {
	return time.Duration(c.Status.SaveDelayMs) * time.Millisecond
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPaths().ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, the defaults are used.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ReadFile reads path over the defaults without applying environment
// overrides or validating. A missing file yields the defaults.
func ReadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveToFile(DefaultPaths().ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFiles loads KEY=VALUE pairs from the given .env files into the
// process environment. Missing files are skipped; variables that are
// already set are left alone.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies NODEPICK_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NODEPICK_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("NODEPICK_LOG_LEVEL"); v != "" && isValidLogLevel(v) {
		c.Log.Level = v
	}
	if v := os.Getenv("NODEPICK_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Picker.BatchSize = n
		}
	}
	if v := os.Getenv("NODEPICK_GRAPH_SOURCE"); v != "" {
		c.Graph.Source = v
	}
	if v := os.Getenv("NODEPICK_GRAPH_FILE"); v != "" {
		c.Graph.File = v
	}
	if v := os.Getenv("NODEPICK_GRAPH_COMMAND"); v != "" {
		c.Graph.Command = v
	}
	if v := os.Getenv("NODEPICK_JOURNAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Journal.Enabled = b
		}
	}
}

// Validate validates the configuration. Out-of-range picker sizes are
// clamped rather than rejected.
func (c *Config) Validate() error {
	c.Picker.BatchSize = clamp(c.Picker.BatchSize, 10, 1000)
	c.Picker.MaxBatches = clamp(c.Picker.MaxBatches, 2, 20)
	c.Picker.Height = clamp(c.Picker.Height, 3, 100)
	// The window must hold more than one screen plus a batch, or scrolling
	// at either edge undoes itself.
	c.Picker.MaxBatches = max(c.Picker.MaxBatches, window.MinBatchesForView(c.Picker.Height, c.Picker.BatchSize))
	if c.Picker.Placeholder == "" {
		c.Picker.Placeholder = DefaultConfig().Picker.Placeholder
	}
	if c.Picker.ScrollTolerance <= 0 || c.Picker.ScrollTolerance >= 1 {
		c.Picker.ScrollTolerance = DefaultConfig().Picker.ScrollTolerance
	}

	switch c.Graph.Source {
	case SourceGenerate:
		if c.Graph.Nodes < 0 {
			return errors.New("graph.nodes must be >= 0")
		}
		if c.Graph.Links < 0 {
			return errors.New("graph.links must be >= 0")
		}
	case SourceFile:
		if c.Graph.File == "" {
			return errors.New("graph.file is required when graph.source is file")
		}
	case SourceCommand:
		if c.Graph.Command == "" {
			return errors.New("graph.command is required when graph.source is command")
		}
	default:
		return fmt.Errorf("graph.source must be generate, file, or command (got: %s)", c.Graph.Source)
	}

	if c.Status.SaveDelayMs < 0 {
		return errors.New("status.save_delay_ms must be >= 0")
	}

	if c.Journal.RecentLimit <= 0 {
		c.Journal.RecentLimit = DefaultConfig().Journal.RecentLimit
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
