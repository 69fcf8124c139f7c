package navigation

import (
	"context"

	"github.com/aretw0/riseflow/pkg/domain"
)

// ChangeKind tells observers which part of the session changed.
type ChangeKind int

const (
	ChangeStack ChangeKind = iota + 1
	ChangeQuery
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeStack:
		return "stack"
	case ChangeQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Change is a snapshot of the session taken right after a mutation.
type Change struct {
	Kind    ChangeKind
	Op      domain.NavigationOp // set for ChangeStack
	Stack   []string
	Current string
	Query   string
}

// Observer is notified after every session mutation.
// Observers must not return errors to the session: failures are theirs to absorb.
type Observer interface {
	Observe(ctx context.Context, change Change)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ctx context.Context, change Change)

func (f ObserverFunc) Observe(ctx context.Context, change Change) {
	f(ctx, change)
}
