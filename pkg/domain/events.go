package domain

import (
	"context"
	"time"
)

// NavigationOp names the stack mutation that produced an event.
type NavigationOp string

const (
	OpPush     NavigationOp = "push"
	OpBack     NavigationOp = "back"
	OpTruncate NavigationOp = "truncate"
	OpReset    NavigationOp = "reset"
	OpDeepLink NavigationOp = "deeplink"
)

// NavigationEvent is emitted after every successful stack mutation.
type NavigationEvent struct {
	Timestamp time.Time    `json:"timestamp"`
	Op        NavigationOp `json:"op"`
	From      string       `json:"from"`
	To        string       `json:"to"`
	Depth     int          `json:"depth"`
}

// SearchEvent is emitted whenever the query changes.
type SearchEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query"`
	Terms     int       `json:"terms"`
	Results   int       `json:"results"`
}

// PersistenceEvent reports a swallowed storage failure.
type PersistenceEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Op        string    `json:"op"` // "load" or "save"
	Key       string    `json:"key"`
	Err       error     `json:"-"`
}

// LifecycleHooks defines callbacks for observability. Nil hooks are skipped.
type LifecycleHooks struct {
	OnNavigate           func(context.Context, *NavigationEvent)
	OnSearch             func(context.Context, *SearchEvent)
	OnPersistenceFailure func(context.Context, *PersistenceEvent)
}
