package cmd

import (
	"github.com/spf13/cobra"

	"github.com/runger/nodepick/internal/config"
)

// graphFlags are the graph source flags shared by pick and nodes. Only
// flags set on the command line override the config.
type graphFlags struct {
	source    string
	file      string
	command   string
	nodes     int
	links     int
	seed      uint64
	batchSize int
}

func addGraphFlags(c *cobra.Command, f *graphFlags) {
	fl := c.Flags()
	fl.StringVar(&f.source, "source", "", "graph source: generate, file, or command")
	fl.StringVar(&f.file, "file", "", "YAML graph file (implies --source file)")
	fl.StringVar(&f.command, "command", "", "command printing one node key per line (implies --source command)")
	fl.IntVar(&f.nodes, "nodes", 0, "number of generated nodes")
	fl.IntVar(&f.links, "links", 0, "number of generated links")
	fl.Uint64Var(&f.seed, "seed", 0, "color seed for generated nodes (0 = random)")
	fl.IntVar(&f.batchSize, "batch-size", 0, "nodes loaded per scroll step")
}

// apply copies the flags that were set into cfg and revalidates it.
func (f *graphFlags) apply(c *cobra.Command, cfg *config.Config) error {
	changed := c.Flags().Changed

	if changed("file") {
		cfg.Graph.File = f.file
		cfg.Graph.Source = config.SourceFile
	}
	if changed("command") {
		cfg.Graph.Command = f.command
		cfg.Graph.Source = config.SourceCommand
	}
	if changed("source") {
		cfg.Graph.Source = f.source
	}
	if changed("nodes") {
		cfg.Graph.Nodes = f.nodes
	}
	if changed("links") {
		cfg.Graph.Links = f.links
	}
	if changed("seed") {
		cfg.Graph.Seed = f.seed
	}
	if changed("batch-size") {
		cfg.Picker.BatchSize = f.batchSize
	}

	return cfg.Validate()
}
