package domain

import "strings"

// RootNodeID is the designated entry node of every flow.
const RootNodeID = "home"

// Edge is a labeled transition to another node.
// Emphasis only affects presentation.
type Edge struct {
	Label    string `json:"label" yaml:"label"`
	To       string `json:"to" yaml:"to"`
	Emphasis bool   `json:"emphasis,omitempty" yaml:"emphasis,omitempty"`
}

// Node is a single step in the decision flow.
type Node struct {
	ID      string   `json:"id" yaml:"id"`
	Role    Role     `json:"role" yaml:"role"`
	Title   string   `json:"title" yaml:"title"`
	Body    string   `json:"body,omitempty" yaml:"body,omitempty"`
	Bullets []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
	Note    string   `json:"note,omitempty" yaml:"note,omitempty"`

	// Edges keeps declaration order; hosts present choices in this order.
	Edges []Edge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// SearchText is the text the search index scores against:
// title, body and bullets joined by single spaces.
func (n Node) SearchText() string {
	return n.Title + " " + n.Body + " " + strings.Join(n.Bullets, " ")
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (n Node) Clone() Node {
	c := n
	if n.Bullets != nil {
		c.Bullets = append([]string(nil), n.Bullets...)
	}
	if n.Edges != nil {
		c.Edges = append([]Edge(nil), n.Edges...)
	}
	return c
}
