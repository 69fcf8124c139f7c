package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/riseflow/pkg/domain"
)

// ErrUnknownMove is returned for an Op the session does not understand.
var ErrUnknownMove = errors.New("unknown move")

// Move is a navigation request as remote hosts (HTTP, MCP) send it.
//
//	go      push ID
//	follow  take the Index-th choice of the current node
//	back    pop
//	jump    truncate to breadcrumb Index
//	reset   start over at the root
//	home    push the root
//	quick   push the entry node of Role
type Move struct {
	Op    string `json:"op"`
	ID    string `json:"id,omitempty"`
	Index int    `json:"index,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Validate checks the move without a session.
func (m Move) Validate() error {
	switch m.Op {
	case "go":
		if m.ID == "" {
			return fmt.Errorf("%w: go needs an id", ErrUnknownMove)
		}
	case "follow", "back", "jump", "reset", "home":
	case "quick":
		if _, err := domain.ParseRole(m.Role); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMove, m.Op)
	}
	return nil
}

// Apply performs the move. Moves the stack rejects (a bad index, back at the
// root) are not errors; only an unknown node id for "go" is.
func (m Move) Apply(ctx context.Context, h *Handle) error {
	if err := m.Validate(); err != nil {
		return err
	}
	switch m.Op {
	case "go":
		if !h.Graph().Has(m.ID) {
			return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, m.ID)
		}
		h.Go(ctx, m.ID)
	case "follow":
		h.Follow(ctx, m.Index)
	case "back":
		h.Back(ctx)
	case "jump":
		h.Jump(ctx, m.Index)
	case "reset":
		h.Reset(ctx)
	case "home":
		h.Home(ctx)
	case "quick":
		role, _ := domain.ParseRole(m.Role)
		h.QuickJump(ctx, role)
	}
	return nil
}
