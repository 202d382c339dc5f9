// Package graph holds the diagram model: nodes, the links between them,
// and the edits a user can make to their text.
package graph

import (
	"errors"
	"fmt"

	"github.com/runger/nodepick/internal/window"
)

// Default font sizes, in points, used when a node or link has none set.
const (
	DefaultNodeFontSize = 14
	DefaultLinkFontSize = 16
)

// ErrUnknownNode is returned when a key does not name a node in the graph.
var ErrUnknownNode = errors.New("unknown node")

// Node is a vertex of the diagram.
type Node struct {
	Key      string `yaml:"key"`
	Color    string `yaml:"color"`
	FontSize int    `yaml:"font_size,omitempty"`
}

// Link is a directed, labelled edge.
type Link struct {
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Text     string `yaml:"text"`
	FontSize int    `yaml:"font_size,omitempty"`
}

// Graph is an ordered set of nodes plus links. It is not safe for
// concurrent mutation.
type Graph struct {
	nodes []Node
	links []Link
	index map[string]int
	out   map[string][]int // node key -> link indexes leaving it
	in    map[string][]int // node key -> link indexes entering it
}

// New builds a graph. Node order is preserved; with duplicate keys the
// last node wins lookups. Every link must join two known nodes.
func New(nodes []Node, links []Link) (*Graph, error) {
	g := &Graph{
		nodes: nodes,
		links: links,
		index: make(map[string]int, len(nodes)),
		out:   map[string][]int{},
		in:    map[string][]int{},
	}
	for i, n := range nodes {
		g.index[n.Key] = i
	}
	for i, l := range links {
		if _, ok := g.index[l.From]; !ok {
			return nil, fmt.Errorf("link %d from %q: %w", i, l.From, ErrUnknownNode)
		}
		if _, ok := g.index[l.To]; !ok {
			return nil, fmt.Errorf("link %d to %q: %w", i, l.To, ErrUnknownNode)
		}
		g.out[l.From] = append(g.out[l.From], i)
		g.in[l.To] = append(g.in[l.To], i)
	}
	return g, nil
}

// Nodes returns the nodes in order. Callers must not modify the slice.
func (g *Graph) Nodes() []Node { return g.nodes }

// Links returns the links in order. Callers must not modify the slice.
func (g *Graph) Links() []Link { return g.links }

// Len is the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node looks up a node by key.
func (g *Graph) Node(key string) (Node, bool) {
	i, ok := g.index[key]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// HasNode reports whether key names a node.
func (g *Graph) HasNode(key string) bool {
	_, ok := g.index[key]
	return ok
}

// Link returns the link at index i.
func (g *Graph) Link(i int) (Link, bool) {
	if i < 0 || i >= len(g.links) {
		return Link{}, false
	}
	return g.links[i], true
}

// Outgoing returns the indexes of links leaving key.
func (g *Graph) Outgoing(key string) []int { return g.out[key] }

// Incoming returns the indexes of links entering key.
func (g *Graph) Incoming(key string) []int { return g.in[key] }

// Items is the item-source snapshot for a node picker.
func (g *Graph) Items() []window.Item {
	items := make([]window.Item, len(g.nodes))
	for i, n := range g.nodes {
		items[i] = window.Item{ID: n.Key, Label: n.Key}
	}
	return items
}

// IncreaseNodeFont doubles the font size of the node's label and returns
// the new size.
func (g *Graph) IncreaseNodeFont(key string) (int, error) {
	i, ok := g.index[key]
	if !ok {
		return 0, fmt.Errorf("increase font of %q: %w", key, ErrUnknownNode)
	}
	size := g.nodes[i].FontSize
	if size <= 0 {
		size = DefaultNodeFontSize
	}
	g.nodes[i].FontSize = size * 2
	return g.nodes[i].FontSize, nil
}

// DecreaseLinkFont halves the font size of link i's label and returns the
// new size. Sizes never drop below 1.
func (g *Graph) DecreaseLinkFont(i int) (int, error) {
	if i < 0 || i >= len(g.links) {
		return 0, fmt.Errorf("decrease font: link %d out of range", i)
	}
	size := g.links[i].FontSize
	if size <= 0 {
		size = DefaultLinkFontSize
	}
	g.links[i].FontSize = max(size/2, 1)
	return g.links[i].FontSize, nil
}

// EffectiveFontSize returns the effective font size of a node.
func (n Node) EffectiveFontSize() int {
	if n.FontSize <= 0 {
		return DefaultNodeFontSize
	}
	return n.FontSize
}

// EffectiveFontSize returns the effective font size of a link.
func (l Link) EffectiveFontSize() int {
	if l.FontSize <= 0 {
		return DefaultLinkFontSize
	}
	return l.FontSize
}
