package graph

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var colorRE = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestGenerate_Defaults(t *testing.T) {
	g := Generate(GenerateOptions{Nodes: DefaultNodeCount, Links: DefaultLinkCount, Seed: 1})

	require.Equal(t, 10000, g.Len())
	require.Len(t, g.Links(), 5000)

	first := g.Nodes()[0]
	assert.Equal(t, "Node 1", first.Key)
	assert.Regexp(t, colorRE, first.Color)
	assert.Equal(t, "Node 10000", g.Nodes()[9999].Key)

	l := g.Links()[0]
	assert.Equal(t, Link{From: "Node 1", To: "Node 5001", Text: "Link 1"}, l)
	last := g.Links()[4999]
	assert.Equal(t, "Node 5000", last.From)
	assert.Equal(t, "Node 10000", last.To)
	assert.Equal(t, "Link 5000", last.Text)
}

func TestGenerate_SeedIsDeterministic(t *testing.T) {
	a := Generate(GenerateOptions{Nodes: 50, Seed: 7})
	b := Generate(GenerateOptions{Nodes: 50, Seed: 7})
	assert.Equal(t, a.Nodes(), b.Nodes())
}

func TestGenerate_LinksStopAtLastNode(t *testing.T) {
	g := Generate(GenerateOptions{Nodes: 10, Links: 100, Seed: 1})
	assert.Len(t, g.Links(), 5)
	for _, l := range g.Links() {
		assert.True(t, g.HasNode(l.To))
	}
}

func TestGenerate_Empty(t *testing.T) {
	g := Generate(GenerateOptions{Seed: 1})
	assert.Zero(t, g.Len())
	assert.Empty(t, g.Items())
}

func TestNew_UnknownLinkEndpoint(t *testing.T) {
	_, err := New([]Node{{Key: "a"}}, []Link{{From: "a", To: "b"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownNode))
	assert.Contains(t, err.Error(), `"b"`)
}

func TestGraph_Adjacency(t *testing.T) {
	g, err := New(
		[]Node{{Key: "a"}, {Key: "b"}, {Key: "c"}},
		[]Link{{From: "a", To: "b", Text: "ab"}, {From: "a", To: "c"}, {From: "c", To: "b"}},
	)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, g.Outgoing("a"))
	assert.Equal(t, []int{0, 2}, g.Incoming("b"))
	assert.Empty(t, g.Outgoing("b"))

	l, ok := g.Link(0)
	require.True(t, ok)
	assert.Equal(t, "ab", l.Text)
	_, ok = g.Link(3)
	assert.False(t, ok)
}

func TestGraph_Items(t *testing.T) {
	g := Generate(GenerateOptions{Nodes: 3, Seed: 1})
	items := g.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Node 2", items[1].ID)
	assert.Equal(t, "Node 2", items[1].Label)
}

func TestIncreaseNodeFont(t *testing.T) {
	g := Generate(GenerateOptions{Nodes: 2, Seed: 1})

	size, err := g.IncreaseNodeFont("Node 1")
	require.NoError(t, err)
	assert.Equal(t, 28, size)

	size, err = g.IncreaseNodeFont("Node 1")
	require.NoError(t, err)
	assert.Equal(t, 56, size)

	n, _ := g.Node("Node 1")
	assert.Equal(t, 56, n.EffectiveFontSize())

	_, err = g.IncreaseNodeFont("nope")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestDecreaseLinkFont(t *testing.T) {
	g := Generate(GenerateOptions{Nodes: 4, Links: 1, Seed: 1})

	size, err := g.DecreaseLinkFont(0)
	require.NoError(t, err)
	assert.Equal(t, 8, size)

	for i := 0; i < 10; i++ {
		size, err = g.DecreaseLinkFont(0)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, size)

	_, err = g.DecreaseLinkFont(5)
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	doc := `
nodes:
  - key: "Node A"
    color: "#ff0000"
  - key: "  Node B  "
    color: "#00ff00"
links:
  - from: "Node A"
    to: "Node B"
    text: "A to B"
`
	g, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.HasNode("Node B"))
	assert.Equal(t, []int{0}, g.Outgoing("Node A"))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("nodes: [unterminated"))
	assert.Error(t, err)

	_, err = Parse([]byte("nodes:\n  - key: \"\"\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("nodes:\n  - key: a\nlinks:\n  - {from: a, to: z}\n"))
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestLoadFile_RoundTrip(t *testing.T) {
	g := Generate(GenerateOptions{Nodes: 6, Links: 3, Seed: 3})
	_, err := g.IncreaseNodeFont("Node 2")
	require.NoError(t, err)

	data, err := Marshal(g)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), loaded.Nodes())
	assert.Equal(t, g.Links(), loaded.Links())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCommand(t *testing.T) {
	if _, err := exec.LookPath("printf"); err != nil {
		t.Skip("printf not available")
	}

	g, err := LoadCommand(context.Background(), `printf 'alpha\n\n  beta \n\033[31mgamma\033[0m\n'`)
	require.NoError(t, err)

	keys := make([]string, 0, g.Len())
	for _, n := range g.Nodes() {
		keys = append(keys, n.Key)
		assert.Regexp(t, colorRE, n.Color)
	}
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, keys)
	assert.Empty(t, g.Links())
}

func TestLoadCommand_Errors(t *testing.T) {
	_, err := LoadCommand(context.Background(), "")
	assert.Error(t, err)

	_, err = LoadCommand(context.Background(), `echo "unterminated`)
	assert.Error(t, err)

	_, err = LoadCommand(context.Background(), "definitely-not-a-real-binary-nodepick")
	assert.Error(t, err)
}
