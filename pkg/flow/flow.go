// Package flow ships the RISE whole-school behaviour flow.
package flow

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/aretw0/riseflow/internal/compiler"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/graph"
)

//go:embed rise.yaml
var riseYAML []byte

// Load parses a flow definition and returns a validated graph.
func Load(data []byte) (*graph.Graph, error) {
	nodes, root, err := compiler.NewParser().Parse(data)
	if err != nil {
		return nil, err
	}

	var opts []graph.Option
	if root != "" {
		opts = append(opts, graph.WithRoot(root))
	}

	g, err := graph.New(nodes, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid flow: %w", err)
	}
	if err := graph.Validate(g); err != nil {
		return nil, fmt.Errorf("invalid flow: %w", err)
	}
	return g, nil
}

var defaultGraph = sync.OnceValues(func() (*graph.Graph, error) {
	return Load(riseYAML)
})

// Default returns the shipped RISE graph. It is built once per process.
// Panics if the embedded definition is invalid, which tests rule out.
func Default() *graph.Graph {
	g, err := defaultGraph()
	if err != nil {
		panic(fmt.Sprintf("embedded RISE flow: %v", err))
	}
	return g
}

// Source returns the raw embedded definition.
func Source() []byte {
	return append([]byte(nil), riseYAML...)
}

// QuickJumps maps each staff role to the node where its part of the flow starts.
func QuickJumps() map[domain.Role]string {
	return map[domain.Role]string{
		domain.RoleClassroomTeacher: "start-class",
		domain.RoleHeadTeacher:      "ht-intake",
		domain.RoleDeputyPrincipal:  "dp-intake",
	}
}
