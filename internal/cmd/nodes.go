package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/nodepick/internal/app"
	"github.com/runger/nodepick/internal/graph"
	"github.com/runger/nodepick/internal/sanitize"
	"github.com/runger/nodepick/internal/window"
)

// nodesLoadTimeout bounds graph loading for the nodes command.
const nodesLoadTimeout = 30 * time.Second

var (
	nodesFlags  graphFlags
	nodesPage   int
	nodesBack   int
	nodesExport string
)

var nodesCmd = &cobra.Command{
	Use:     "nodes",
	Short:   "Print the picker window without opening the TUI",
	GroupID: groupCore,
	Long: `Load the graph and print the nodes the picker would hold after
scrolling. --page applies that many bottom-edge loads, then --back
applies that many top-edge loads. --export writes the loaded graph as
a YAML file that --file can read back, instead of printing the window.

Examples:
  nodepick nodes                      # the first batch
  nodepick nodes --page 5             # after scrolling down five times
  nodepick nodes --page 5 --back 2    # then back up twice
  nodepick nodes --file graph.yaml
  nodepick nodes --nodes 500 --seed 7 --export graph.yaml`,
	Args: cobra.NoArgs,
	RunE: runNodes,
}

func init() {
	addGraphFlags(nodesCmd, &nodesFlags)
	nodesCmd.Flags().IntVar(&nodesPage, "page", 0, "number of batches to load at the bottom")
	nodesCmd.Flags().IntVar(&nodesBack, "back", 0, "number of batches to load at the top, after --page")
	nodesCmd.Flags().StringVar(&nodesExport, "export", "", "write the graph to this YAML file instead of printing the window")
}

func runNodes(cmd *cobra.Command, args []string) error {
	if nodesPage < 0 || nodesBack < 0 {
		return errors.New("--page and --back must be >= 0")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := nodesFlags.apply(cmd, cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), nodesLoadTimeout)
	defer cancel()

	g, err := app.GraphLoader(cfg.Graph)(ctx)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	if nodesExport != "" {
		return exportGraph(g, nodesExport)
	}

	sel := window.New(window.Options{
		BatchSize:   cfg.Picker.BatchSize,
		MaxBatches:  cfg.Picker.MaxBatches,
		Placeholder: cfg.Picker.Placeholder,
		Tolerance:   cfg.Picker.ScrollTolerance,
	})
	sel.SetItems(g.Items())

	for range nodesPage {
		if !sel.LoadMore().Changed() {
			break
		}
	}
	for range nodesBack {
		if !sel.LoadPrevious().Changed() {
			break
		}
	}

	printWindow(sel, terminalWidth())
	return nil
}

func exportGraph(g *graph.Graph, path string) error {
	data, err := graph.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: user-requested output file
		return fmt.Errorf("failed to write graph: %w", err)
	}
	fmt.Printf("Exported %d nodes and %d links to %s\n", g.Len(), len(g.Links()), path)
	return nil
}

func printWindow(sel *window.Selector, width int) {
	start, end := sel.Bounds()
	if start == end {
		fmt.Printf("%sWindow:%s empty (%d nodes)\n", colorBold, colorReset, sel.Len())
		return
	}

	fmt.Printf("%sWindow:%s items %d-%d of %d (batch %d, at most %d of %d)\n",
		colorBold, colorReset, start+1, end, sel.Len(),
		sel.BatchIndex(), sel.MaxBatches(), sel.BatchSize())
	fmt.Println(strings.Repeat("-", 40))

	labelWidth := max(width-8, 10)
	for i, it := range sel.Window() {
		label := sanitize.Truncate(sanitize.Label(it.DisplayLabel()), labelWidth)
		fmt.Printf("%s%6d%s  %s\n", colorDim, start+i+1, colorReset, label)
	}
}
