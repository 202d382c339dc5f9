package graph

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"github.com/runger/nodepick/internal/sanitize"
)

// Default generator sizes.
const (
	DefaultNodeCount = 10000
	DefaultLinkCount = 5000
)

// maxCommandOutput caps what LoadCommand will read from a child process.
const maxCommandOutput = 64 << 20

// GenerateOptions configures Generate.
type GenerateOptions struct {
	Nodes int
	Links int
	Seed  uint64 // 0 picks a random seed
}

// Generate builds a synthetic graph: nodes "Node 1".."Node N" with random
// colors, and link i joining "Node i" to "Node i+N/2". Links that would
// point past the last node are not created.
func Generate(opts GenerateOptions) *Graph {
	if opts.Nodes < 0 {
		opts.Nodes = 0
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	nodes := make([]Node, opts.Nodes)
	for i := range nodes {
		nodes[i] = Node{Key: nodeKey(i + 1), Color: RandomColor(rng)}
	}

	half := opts.Nodes / 2
	var links []Link
	for i := 1; i <= opts.Links; i++ {
		to := i + half
		if to > opts.Nodes {
			break
		}
		links = append(links, Link{
			From: nodeKey(i),
			To:   nodeKey(to),
			Text: fmt.Sprintf("Link %d", i),
		})
	}

	// Every generated link names generated nodes.
	g, _ := New(nodes, links)
	return g
}

func nodeKey(n int) string {
	return fmt.Sprintf("Node %d", n)
}

// RandomColor returns a random "#rrggbb" color.
func RandomColor(rng *rand.Rand) string {
	return fmt.Sprintf("#%06x", rng.IntN(0x1000000))
}

// file is the on-disk YAML layout read by LoadFile.
type file struct {
	Nodes []Node `yaml:"nodes"`
	Links []Link `yaml:"links"`
}

// LoadFile reads a graph from a YAML file:
//
//	nodes:
//	  - {key: "Node 1", color: "#ff0000"}
//	links:
//	  - {from: "Node 1", to: "Node 2", text: "Link 1"}
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML graph document.
func Parse(data []byte) (*Graph, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse graph: %w", err)
	}
	for i := range f.Nodes {
		f.Nodes[i].Key = sanitize.Label(f.Nodes[i].Key)
		if f.Nodes[i].Key == "" {
			return nil, fmt.Errorf("node %d: empty key", i)
		}
	}
	return New(f.Nodes, f.Links)
}

// Marshal encodes g in the format read by Parse.
func Marshal(g *Graph) ([]byte, error) {
	return yaml.Marshal(file{Nodes: g.nodes, Links: g.links})
}

// LoadCommand runs cmdline and turns each non-blank output line into a
// node. The command line is split with shell quoting rules but is not run
// through a shell. The resulting graph has no links.
func LoadCommand(ctx context.Context, cmdline string) (*Graph, error) {
	argv, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // G204: command comes from the user's own config or flags
	cmd.Stdout = &limitedWriter{w: &stdout, n: maxCommandOutput}
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("command %q failed: %w: %s", argv[0], err, msg)
		}
		return nil, fmt.Errorf("command %q failed: %w", argv[0], err)
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	var nodes []Node
	sc := bufio.NewScanner(&stdout)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		key := sanitize.Label(sc.Text())
		if key == "" {
			continue
		}
		nodes = append(nodes, Node{Key: key, Color: RandomColor(rng)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read command output: %w", err)
	}
	return New(nodes, nil)
}

// limitedWriter discards everything past n bytes.
type limitedWriter struct {
	w *bytes.Buffer
	n int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if room := l.n - l.w.Len(); room > 0 {
		if len(p) > room {
			l.w.Write(p[:room])
		} else {
			l.w.Write(p)
		}
	}
	return len(p), nil
}
