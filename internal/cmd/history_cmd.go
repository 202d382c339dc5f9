package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/nodepick/internal/config"
	"github.com/runger/nodepick/internal/journal"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show recently picked nodes",
	GroupID: groupCore,
	Long: `Show the nodes you confirmed in the picker, oldest first.

Selections are recorded in a local SQLite journal
(~/.local/share/nodepick/journal.db unless journal.path is set).

Examples:
  nodepick history            # Show the last journal.recent_limit picks
  nodepick history -n 50      # Show the last 50 picks
  nodepick history --clear    # Forget every recorded pick`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum number of selections to show (default journal.recent_limit)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all recorded selections")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := journalPath(cfg, config.DefaultPaths())
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Println("No selections recorded yet.")
		return nil
	}

	store, err := journal.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if historyClear {
		n, err := store.Clear(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear journal: %w", err)
		}
		fmt.Printf("Cleared %d selection(s)\n", n)
		return nil
	}

	limit := historyLimit
	if limit <= 0 {
		limit = cfg.Journal.RecentLimit
	}

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to query journal: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No selections recorded yet.")
		return nil
	}

	// Recent is newest first; print oldest at top.
	for i := len(entries) - 1; i >= 0; i-- {
		printEntry(entries[i])
	}

	fmt.Println()
	fmt.Printf("%sShowing %d selection(s)%s\n", colorDim, len(entries), colorReset)

	return nil
}

func printEntry(e journal.Entry) {
	timestamp := e.SelectedAt.Local().Format("2006-01-02 15:04:05")

	fmt.Printf("%s%s%s  %s%s%s", colorDim, timestamp, colorReset, colorCyan, e.NodeKey, colorReset)
	if e.Source != "" {
		fmt.Printf("  %s(%s)%s", colorDim, e.Source, colorReset)
	}
	fmt.Println()
}

// journalPath returns journal.path, or the XDG default.
func journalPath(cfg *config.Config, paths *config.Paths) string {
	if cfg.Journal.Path != "" {
		return cfg.Journal.Path
	}
	return paths.JournalFile()
}
