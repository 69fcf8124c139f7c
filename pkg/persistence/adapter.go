package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/riseflow/internal/logging"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/navigation"
	"github.com/aretw0/riseflow/pkg/ports"
)

const (
	StackKey = "rise:stack"
	QueryKey = "rise:q"
)

// Adapter reads and writes session values through a KVStore.
type Adapter struct {
	store  ports.KVStore
	prefix string
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithHooks registers the OnPersistenceFailure hook.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Adapter) {
		a.hooks = hooks
	}
}

// WithSession namespaces keys as "<id>/rise:stack". The empty id uses bare keys.
func WithSession(id string) Option {
	return func(a *Adapter) {
		a.prefix = KeyPrefix(id)
	}
}

// KeyPrefix returns the key namespace of a session.
func KeyPrefix(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	return sessionID + "/"
}

// New creates an adapter over store.
func New(store ports.KVStore, opts ...Option) *Adapter {
	a := &Adapter{
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the full store key for name.
func (a *Adapter) Key(name string) string {
	return a.prefix + name
}

// Load decodes the value stored under key, or returns def if it is missing,
// unreadable or not valid JSON for T.
func Load[T any](ctx context.Context, a *Adapter, key string, def T) T {
	full := a.Key(key)
	data, err := a.store.Get(ctx, full)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return def
		}
		a.failed(ctx, "load", full, err)
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		a.failed(ctx, "load", full, err)
		return def
	}
	return v
}

// Save encodes v under key. Failures are logged and otherwise ignored.
func Save[T any](ctx context.Context, a *Adapter, key string, v T) {
	full := a.Key(key)
	data, err := json.Marshal(v)
	if err != nil {
		a.failed(ctx, "save", full, err)
		return
	}
	if err := a.store.Set(ctx, full, data); err != nil {
		a.failed(ctx, "save", full, err)
	}
}

// Seed loads the stored stack and query. The stack is not validated here:
// navigation.WithStack discards ids the graph does not know.
func (a *Adapter) Seed(ctx context.Context) (stack []string, query string) {
	stack = Load[[]string](ctx, a, StackKey, nil)
	query = Load(ctx, a, QueryKey, "")
	return stack, query
}

// Options turns the stored values into session seeds.
func (a *Adapter) Options(ctx context.Context) []navigation.Option {
	stack, query := a.Seed(ctx)
	return []navigation.Option{navigation.WithStack(stack), navigation.WithQuery(query)}
}

// Observe writes through the part of the session that changed.
func (a *Adapter) Observe(ctx context.Context, change navigation.Change) {
	switch change.Kind {
	case navigation.ChangeStack:
		Save(ctx, a, StackKey, change.Stack)
	case navigation.ChangeQuery:
		Save(ctx, a, QueryKey, change.Query)
	}
}

// Clear removes both stored values.
func (a *Adapter) Clear(ctx context.Context) error {
	return errors.Join(
		a.store.Delete(ctx, a.Key(StackKey)),
		a.store.Delete(ctx, a.Key(QueryKey)),
	)
}

func (a *Adapter) failed(ctx context.Context, op, key string, err error) {
	a.logger.Warn("Persistence unavailable, using defaults", "op", op, "key", key, "err", err)
	if a.hooks.OnPersistenceFailure != nil {
		a.hooks.OnPersistenceFailure(ctx, &domain.PersistenceEvent{
			Timestamp: time.Now(),
			Op:        op,
			Key:       key,
			Err:       err,
		})
	}
}
