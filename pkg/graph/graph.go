package graph

import (
	"fmt"

	"github.com/aretw0/riseflow/pkg/domain"
)

// Graph is a read-only mapping of node ids to nodes.
// It keeps declaration order, which is the natural order used for tie-breaking.
// Safe for concurrent use since it is never mutated after New.
type Graph struct {
	nodes map[string]domain.Node
	order []string
	root  string
}

// Option configures a Graph.
type Option func(*Graph)

// WithRoot overrides the root node id (default: "home").
func WithRoot(id string) Option {
	return func(g *Graph) {
		g.root = id
	}
}

// New builds a graph from nodes in declaration order.
// It rejects empty and duplicate ids; edge targets are checked by Validate.
func New(nodes []domain.Node, opts ...Option) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]domain.Node, len(nodes)),
		order: make([]string, 0, len(nodes)),
		root:  domain.RootNodeID,
	}
	for _, opt := range opts {
		opt(g)
	}

	for i, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node #%d missing ID", i)
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node ID: %s", n.ID)
		}
		g.nodes[n.ID] = n.Clone()
		g.order = append(g.order, n.ID)
	}

	if _, ok := g.nodes[g.root]; !ok {
		return nil, fmt.Errorf("root node %q: %w", g.root, domain.ErrNodeNotFound)
	}
	return g, nil
}

// Root returns the root node id.
func (g *Graph) Root() string {
	return g.root
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Lookup returns the node for id, or an error wrapping domain.ErrNodeNotFound.
func (g *Graph) Lookup(id string) (domain.Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return domain.Node{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return n.Clone(), nil
}

// Resolve returns the node for id, falling back to the root node.
func (g *Graph) Resolve(id string) domain.Node {
	if n, ok := g.nodes[id]; ok {
		return n.Clone()
	}
	return g.nodes[g.root].Clone()
}

// Title returns the node title, or the id itself when the node is unknown.
func (g *Graph) Title(id string) string {
	if n, ok := g.nodes[id]; ok {
		return n.Title
	}
	return id
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].Clone())
	}
	return out
}

// IDs returns all node ids in declaration order.
func (g *Graph) IDs() []string {
	return append([]string(nil), g.order...)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}
