package graph

import (
	"fmt"
	"strings"
)

// ValidationError lists every problem found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("found %d errors:\n- %s", len(e.Problems), strings.Join(e.Problems, "\n- "))
}

// Validate crawls the graph from the root and reports dangling edge targets,
// plus nodes without a title. Cycles are allowed.
func Validate(g *Graph) error {
	var problems []string

	for _, id := range g.order {
		if strings.TrimSpace(g.nodes[id].Title) == "" {
			problems = append(problems, fmt.Sprintf("node '%s' has an empty title", id))
		}
	}

	visited := map[string]bool{g.root: true}
	queue := []string{g.root}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		node, ok := g.nodes[currentID]
		if !ok {
			continue
		}

		for _, e := range node.Edges {
			if e.To == "" {
				problems = append(problems, fmt.Sprintf("edge '%s' of '%s' has no target", e.Label, currentID))
				continue
			}
			if _, ok := g.nodes[e.To]; !ok {
				problems = append(problems, fmt.Sprintf("missing node '%s' (edge '%s' of '%s')", e.To, e.Label, currentID))
				continue
			}
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Unreachable returns the ids that cannot be reached from the root,
// in declaration order. Unreachable nodes are legal (deep links still work).
func Unreachable(g *Graph) []string {
	visited := map[string]bool{g.root: true}
	queue := []string{g.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range g.nodes[id].Edges {
			if _, ok := g.nodes[e.To]; ok && !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	var out []string
	for _, id := range g.order {
		if !visited[id] {
			out = append(out, id)
		}
	}
	return out
}
