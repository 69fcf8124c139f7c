package riseflow

import (
	"context"
	"log/slog"

	"github.com/aretw0/riseflow/internal/logging"
	"github.com/aretw0/riseflow/pkg/adapters/memory"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/flow"
	"github.com/aretw0/riseflow/pkg/graph"
	"github.com/aretw0/riseflow/pkg/install"
	"github.com/aretw0/riseflow/pkg/navigation"
	"github.com/aretw0/riseflow/pkg/ports"
	"github.com/aretw0/riseflow/pkg/session"
)

// Engine is the high-level entry point for the riseflow library.
// It owns the read-only graph and hands out navigation sessions.
type Engine struct {
	graph     *graph.Graph
	store     ports.KVStore
	locker    ports.DistributedLocker
	installer ports.Installer
	jumps     map[domain.Role]string
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	sessions  *session.Manager
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGraph replaces the shipped RISE flow.
func WithGraph(g *graph.Graph) Option {
	return func(e *Engine) {
		e.graph = g
	}
}

// WithStore sets where sessions are persisted (default: in memory).
func WithStore(store ports.KVStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serialises sessions across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithInstaller exposes the host's install prompt on sessions.
func WithInstaller(i ports.Installer) Option {
	return func(e *Engine) {
		e.installer = i
	}
}

// WithQuickJumps overrides the role shortcuts.
func WithQuickJumps(jumps map[domain.Role]string) Option {
	return func(e *Engine) {
		e.jumps = jumps
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine. Without options it serves the shipped RISE flow
// from memory.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.graph == nil {
		eng.graph = flow.Default()
		if eng.jumps == nil {
			eng.jumps = flow.QuickJumps()
		}
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.installer == nil {
		eng.installer = install.Unavailable{}
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	mgrOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithHooks(eng.hooks),
		session.WithQuickJumps(eng.jumps),
	}
	if eng.locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.graph, eng.store, mgrOpts...)

	return eng
}

// Session is a navigation session bound to storage and, optionally, a location.
type Session struct {
	*session.Handle
	installer ports.Installer
}

// Start restores (or creates) a session. Observers, typically a renderer, are
// notified before the store and the location are written.
func (e *Engine) Start(ctx context.Context, sessionID string, loc ports.Location, observers ...navigation.Observer) *Session {
	return &Session{
		Handle:    e.sessions.Open(ctx, sessionID, loc, observers...),
		installer: e.installer,
	}
}

// CanInstall reports whether the host currently offers installation.
func (s *Session) CanInstall() bool {
	return s.installer.IsAvailable()
}

// Install shows the host's install prompt.
func (s *Session) Install(ctx context.Context) (ports.InstallOutcome, error) {
	return s.installer.Prompt(ctx)
}

// Graph returns the graph sessions navigate.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Lookup returns the node with the given id.
func (e *Engine) Lookup(id string) (domain.Node, error) {
	return e.graph.Lookup(id)
}

// Search ranks nodes against q without touching any session.
func (e *Engine) Search(q string) []domain.Node {
	return e.sessions.Index().Search(q)
}

// Sessions returns the session manager for hosts serving many users.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Store returns the session store.
func (e *Engine) Store() ports.KVStore {
	return e.store
}
