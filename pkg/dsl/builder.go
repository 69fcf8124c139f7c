package dsl

import (
	"fmt"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/graph"
)

// Builder manages the graph construction.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
	opts  []graph.Option
}

// New creates a new graph builder.
func New(opts ...graph.Option) *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
		opts:  opts,
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID: id,
		},
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles the nodes into a validated Graph.
func (b *Builder) Build() (*graph.Graph, error) {
	nodes := make([]domain.Node, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id].node)
	}

	g, err := graph.New(nodes, b.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	if err := graph.Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// MustBuild is like Build but panics on error. Intended for static flows and tests.
func (b *Builder) MustBuild() *graph.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
