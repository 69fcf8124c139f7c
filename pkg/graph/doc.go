// Package graph holds the immutable node graph of a flow.
//
// A Graph is built once, from a static definition, and never mutated. Lookups
// from untrusted sources (stored stacks, location fragments) should go through
// Resolve, which falls back to the root node instead of failing.
package graph
