package navigation

import (
	"fmt"

	"github.com/aretw0/riseflow/pkg/domain"
)

// NodeSet answers membership questions about node ids.
// *graph.Graph satisfies it.
type NodeSet interface {
	Has(id string) bool
}

// Stack is the ordered history of visited node ids.
// It is never empty and every entry is a member of its NodeSet.
type Stack struct {
	nodes NodeSet
	root  string
	ids   []string
}

// NewStack returns a stack holding only root.
func NewStack(nodes NodeSet, root string) *Stack {
	return &Stack{nodes: nodes, root: root, ids: []string{root}}
}

// RestoreStack rebuilds a stack from stored ids.
// Any unknown id invalidates the whole sequence; callers fall back to NewStack.
func RestoreStack(nodes NodeSet, root string, ids []string) (*Stack, error) {
	if len(ids) == 0 {
		return nil, domain.ErrEmptyStack
	}
	for _, id := range ids {
		if !nodes.Has(id) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
		}
	}
	return &Stack{nodes: nodes, root: root, ids: append([]string(nil), ids...)}, nil
}

// Current returns the last entry.
func (s *Stack) Current() string {
	return s.ids[len(s.ids)-1]
}

// IDs returns a copy of the entries, oldest first.
func (s *Stack) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len is the number of entries, at least 1.
func (s *Stack) Len() int {
	return len(s.ids)
}

// CanBack reports whether Back would change the stack.
func (s *Stack) CanBack() bool {
	return len(s.ids) > 1
}

// Push appends id. Unknown ids leave the stack untouched.
func (s *Stack) Push(id string) error {
	if !s.nodes.Has(id) {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	s.ids = append(s.ids, id)
	return nil
}

// Truncate keeps entries [0..index].
func (s *Stack) Truncate(index int) error {
	if index < 0 || index >= len(s.ids) {
		return fmt.Errorf("%w: %d (len %d)", domain.ErrInvalidIndex, index, len(s.ids))
	}
	s.ids = s.ids[:index+1:index+1]
	return nil
}

// Back drops the current entry. The root entry is never popped.
func (s *Stack) Back() bool {
	if !s.CanBack() {
		return false
	}
	s.ids = s.ids[: len(s.ids)-1 : len(s.ids)-1]
	return true
}

// Reset replaces the stack with the root alone.
func (s *Stack) Reset() {
	s.ids = []string{s.root}
}

// Replace discards the history and starts over at id.
func (s *Stack) Replace(id string) error {
	if !s.nodes.Has(id) {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	s.ids = []string{id}
	return nil
}
