// Package search ranks flow nodes against a free-text query.
//
// Matching is word-level substring containment: a node scores one point for
// every word of its text that contains at least one query term. There is no
// fuzzy matching.
package search

import (
	"sort"
	"strings"

	"github.com/aretw0/riseflow/pkg/domain"
)

// MaxResults caps the number of nodes returned by Search.
const MaxResults = 12

// Result is a node with its relevance score.
type Result struct {
	Node  domain.Node `json:"node"`
	Score int         `json:"score"`
}

type entry struct {
	node  domain.Node
	words []string
}

// Index holds the lower-cased words of every node, in the graph's natural order.
// Build it once per graph; it is read-only afterwards.
type Index struct {
	entries []entry
}

// NewIndex indexes nodes in the given order. That order breaks score ties.
func NewIndex(nodes []domain.Node) *Index {
	ix := &Index{entries: make([]entry, 0, len(nodes))}
	for _, n := range nodes {
		ix.entries = append(ix.entries, entry{
			node:  n.Clone(),
			words: strings.Fields(strings.ToLower(n.SearchText())),
		})
	}
	return ix
}

// Terms lower-cases the query and splits it on whitespace.
// A query with no terms yields nil, which callers treat as "no search".
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Rank scores every node, drops zero scores, sorts by descending score
// (stable, so ties keep natural order) and truncates to MaxResults.
func (ix *Index) Rank(query string) []Result {
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}

	results := make([]Result, 0)
	for _, e := range ix.entries {
		score := 0
		for _, word := range e.words {
			if matchesAny(word, terms) {
				score++
			}
		}
		if score > 0 {
			results = append(results, Result{Node: e.node.Clone(), Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// Search returns the ranked nodes for query. An empty or blank query returns nil.
func (ix *Index) Search(query string) []domain.Node {
	ranked := ix.Rank(query)
	if ranked == nil {
		return nil
	}
	nodes := make([]domain.Node, len(ranked))
	for i, r := range ranked {
		nodes[i] = r.Node
	}
	return nodes
}

func matchesAny(word string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(word, t) {
			return true
		}
	}
	return false
}
