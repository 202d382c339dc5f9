package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/nodepick/internal/app"
	"github.com/runger/nodepick/internal/config"
	"github.com/runger/nodepick/internal/journal"
	"github.com/runger/nodepick/internal/logging"
)

// minTermWidth is the narrowest terminal the picker will draw in.
const minTermWidth = 40

var (
	pickFlags     graphFlags
	pickPrint     bool
	pickNoJournal bool
)

var pickCmd = &cobra.Command{
	Use:     "pick",
	Short:   "Open the node picker",
	GroupID: groupCore,
	Long: `Open the interactive node picker on the controlling terminal.

The dropdown holds at most picker.max_batches batches of
picker.batch_size nodes. Scrolling to either edge loads the next
or previous batch and drops one from the far end.

Keys:
  enter/space  open the dropdown, or pick the highlighted node
  up/down      move (k/j), pgup/pgdown, home/end
  esc          close the dropdown
  +  -         grow the node font, shrink the focused link font
  tab          focus the next link of the selected node
  x            clear the selection
  r            reload the graph
  q            quit

Examples:
  nodepick pick                        # 10000 generated nodes
  nodepick pick --nodes 300 --seed 7   # small, reproducible graph
  nodepick pick --file graph.yaml      # nodes and links from YAML
  nodepick pick --command 'kubectl get pods -o name' --print`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	addGraphFlags(pickCmd, &pickFlags)
	pickCmd.Flags().BoolVar(&pickPrint, "print", false, "print the selected node key to stdout on exit")
	pickCmd.Flags().BoolVar(&pickNoJournal, "no-journal", false, "do not record selections")
}

func runPick(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := pickFlags.apply(cmd, cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if os.Getenv("TERM") == "dumb" {
		return errors.New("the picker needs a capable terminal (TERM=dumb)")
	}

	tty, err := openTTY()
	if err != nil {
		return err
	}
	if tty != nil {
		defer tty.Close()
		if w := ttyWidth(tty); w > 0 && w < minTermWidth {
			return fmt.Errorf("terminal too narrow: %d columns, need %d", w, minTermWidth)
		}
	}

	paths := config.DefaultPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	release, err := acquireLock(paths.LockFile())
	if err != nil {
		return err
	}
	defer release()

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = paths.LogFile()
	}
	logger, closeLog, err := logging.NewFile(logPath, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%sWarning:%s logging disabled: %v\n", colorYellow, colorReset, err)
	}
	defer func() { _ = closeLog() }()

	var recorder app.Recorder
	if cfg.Journal.Enabled && !pickNoJournal {
		store, err := journal.Open(journalPath(cfg, paths))
		if err != nil {
			logger.Warn("journal unavailable", "error", err)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	model := app.New(app.Options{
		Loader:    app.GraphLoader(cfg.Graph),
		Source:    cfg.Graph.Source,
		Journal:   recorder,
		Logger:    logger,
		Picker:    cfg.Picker,
		SaveDelay: cfg.SaveDelay(),
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if tty != nil {
		lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())
		opts = append(opts, tea.WithInput(tty), tea.WithOutput(tty))
	}

	logger.Info("picker started",
		"version", Version,
		"source", cfg.Graph.Source,
		"batch_size", cfg.Picker.BatchSize,
		"max_batches", cfg.Picker.MaxBatches,
	)

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	m, ok := final.(app.Model)
	if !ok {
		return fmt.Errorf("unexpected model type %T", final)
	}
	selected := m.Selected()
	logger.Info("picker exited", "selected", selected)

	if pickPrint && selected != "" {
		fmt.Fprintln(cmd.OutOrStdout(), selected)
	}
	return nil
}
