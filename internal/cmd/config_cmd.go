package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/nodepick/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config [key] [value]",
	Short:   "Get or set configuration values",
	GroupID: groupSetup,
	Long: `Get or set nodepick configuration values.

Without arguments, lists all configuration keys.
With one argument, shows the value of that key.
With two arguments, sets the key to the value.

Configuration is stored in ~/.config/nodepick/config.yaml (XDG compliant).
NODEPICK_* variables from the environment, ./.env or
~/.config/nodepick/.env override the file.

Keys are in the format: section.key
Sections: picker, graph, status, journal, log

Examples:
  nodepick config                          # List all keys
  nodepick config picker.batch_size        # Get the batch size
  nodepick config picker.batch_size 200    # Load 200 nodes per scroll step
  nodepick config graph.source file        # Read the graph from graph.file`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch len(args) {
	case 0:
		return listConfig(cfg)
	case 1:
		return getConfig(cfg, args[0])
	case 2:
		return setConfig(args[0], args[1])
	}

	return nil
}

func listConfig(cfg *config.Config) error {
	fmt.Printf("%sConfiguration Keys%s\n", colorBold, colorReset)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println()

	var failedKeys []string
	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			failedKeys = append(failedKeys, key)
			continue
		}

		displayValue := value
		if displayValue == "" {
			displayValue = colorDim + "(not set)" + colorReset
		}

		fmt.Printf("  %s%s%s = %s\n", colorCyan, key, colorReset, displayValue)
	}

	if len(failedKeys) > 0 {
		fmt.Printf("\n%sWarning:%s Failed to retrieve keys: %s\n", colorYellow, colorReset, strings.Join(failedKeys, ", "))
	}

	fmt.Println()
	fmt.Printf("Config file: %s\n", configFile())

	return nil
}

func getConfig(cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Printf("%s(not set)%s\n", colorDim, colorReset)
	} else {
		fmt.Println(value)
	}

	return nil
}

func setConfig(key, value string) error {
	// Start from the file alone so environment overrides are not persisted.
	path := configFile()
	cfg, err := config.ReadFile(path)
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.SaveToFile(path); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	fmt.Printf("%s%s%s = %s\n", colorCyan, key, colorReset, stored)
	fmt.Printf("Saved to: %s\n", path)

	return nil
}
