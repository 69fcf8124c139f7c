package dsl

import "github.com/aretw0/riseflow/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node domain.Node
}

// Role sets the staff role the node is scoped to.
func (n *NodeBuilder) Role(r domain.Role) *NodeBuilder {
	n.node.Role = r
	return n
}

// Title sets the node heading.
func (n *NodeBuilder) Title(title string) *NodeBuilder {
	n.node.Title = title
	return n
}

// Body sets the paragraph text.
func (n *NodeBuilder) Body(body string) *NodeBuilder {
	n.node.Body = body
	return n
}

// Bullets appends bullet points.
func (n *NodeBuilder) Bullets(items ...string) *NodeBuilder {
	n.node.Bullets = append(n.node.Bullets, items...)
	return n
}

// Note sets the highlighted note.
func (n *NodeBuilder) Note(note string) *NodeBuilder {
	n.node.Note = note
	return n
}

// Go adds a choice leading to the target node.
func (n *NodeBuilder) Go(label, target string) *NodeBuilder {
	n.node.Edges = append(n.node.Edges, domain.Edge{Label: label, To: target})
	return n
}

// Emphasize adds a highlighted choice leading to the target node.
func (n *NodeBuilder) Emphasize(label, target string) *NodeBuilder {
	n.node.Edges = append(n.node.Edges, domain.Edge{Label: label, To: target, Emphasis: true})
	return n
}

// Build returns the underlying domain.Node.
func (n *NodeBuilder) Build() domain.Node {
	return n.node.Clone()
}
