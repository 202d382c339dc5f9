package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runger/nodepick/internal/config"
)

// Command groups shown in help output.
const (
	groupCore  = "core"
	groupSetup = "setup"
)

// configPath is the --config flag; empty means the XDG default.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "nodepick",
	Short: "pick nodes from large diagrams in the terminal",
	Long: `nodepick - pick nodes from large diagrams in the terminal
  - a dropdown that loads nodes in batches as you scroll
  - a panel with the selected node and its links
  - a journal of everything you picked`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyColorMode()
		return config.LoadEnvFiles(".env", config.DefaultPaths().EnvFile())
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/nodepick/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Core Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the config from --config or the default path.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPaths().ConfigFile()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// configFile returns the config path in effect.
func configFile() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPaths().ConfigFile()
}
