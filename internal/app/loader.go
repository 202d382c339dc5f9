package app

import (
	"context"
	"fmt"

	"github.com/runger/nodepick/internal/config"
	"github.com/runger/nodepick/internal/graph"
)

// GraphLoader returns the Loader for the configured graph source.
func GraphLoader(gc config.GraphConfig) Loader {
	switch gc.Source {
	case config.SourceFile:
		path := gc.File
		return func(context.Context) (*graph.Graph, error) {
			return graph.LoadFile(path)
		}
	case config.SourceCommand:
		cmdline := gc.Command
		return func(ctx context.Context) (*graph.Graph, error) {
			return graph.LoadCommand(ctx, cmdline)
		}
	case config.SourceGenerate, "":
		opts := graph.GenerateOptions{Nodes: gc.Nodes, Links: gc.Links, Seed: gc.Seed}
		return func(context.Context) (*graph.Graph, error) {
			return graph.Generate(opts), nil
		}
	default:
		source := gc.Source
		return func(context.Context) (*graph.Graph, error) {
			return nil, fmt.Errorf("unknown graph source %q", source)
		}
	}
}
