package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/riseflow/internal/logging"
	"github.com/aretw0/riseflow/pkg/deeplink"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/graph"
	"github.com/aretw0/riseflow/pkg/navigation"
	"github.com/aretw0/riseflow/pkg/persistence"
	"github.com/aretw0/riseflow/pkg/ports"
	"github.com/aretw0/riseflow/pkg/search"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	graph *graph.Graph
	index *search.Index
	store ports.KVStore
	jumps map[domain.Role]string
	hooks domain.LifecycleHooks

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL bounds how long a distributed lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager and the sessions it opens.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks registers lifecycle hooks on every opened session.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithQuickJumps configures role shortcuts on every opened session.
func WithQuickJumps(jumps map[domain.Role]string) Option {
	return func(m *Manager) {
		m.jumps = jumps
	}
}

// NewManager creates a Session Manager for graph g over store.
func NewManager(g *graph.Graph, store ports.KVStore, opts ...Option) *Manager {
	m := &Manager{
		graph:   g,
		index:   search.NewIndex(g.Nodes()),
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle is an opened session with its persistence and deep-link bindings.
type Handle struct {
	*navigation.Session
	ID    string
	store *persistence.Adapter
	link  *deeplink.Synchronizer
}

// LocationChanged re-reads the deep link after external navigation.
// Without a location it does nothing.
func (h *Handle) LocationChanged(ctx context.Context) bool {
	if h.link == nil {
		return false
	}
	return h.link.Refresh(ctx)
}

// Clear deletes the stored values of the session.
func (h *Handle) Clear(ctx context.Context) error {
	return h.store.Clear(ctx)
}

// Open restores a session from storage without taking its lock.
// Observers run before persistence and deep-link writes, in the given order.
// loc may be nil for hosts without a location fragment.
func (m *Manager) Open(ctx context.Context, sessionID string, loc ports.Location, observers ...navigation.Observer) *Handle {
	store := persistence.New(m.store,
		persistence.WithSession(sessionID),
		persistence.WithLogger(m.logger),
		persistence.WithHooks(m.hooks),
	)

	opts := append(store.Options(ctx),
		navigation.WithIndex(m.index),
		navigation.WithLogger(m.logger.With("session_id", sessionID)),
		navigation.WithHooks(m.hooks),
		navigation.WithQuickJumps(m.jumps),
	)
	sess := navigation.NewSession(m.graph, opts...)

	for _, o := range observers {
		sess.Subscribe(o)
	}
	sess.Subscribe(store)

	h := &Handle{Session: sess, ID: sessionID, store: store}
	if loc != nil {
		h.link = deeplink.New(loc, deeplink.WithLogger(m.logger))
		h.link.Bind(ctx, sess)
	}
	return h
}

// WithSession opens a session and runs fn while holding its lock.
// observers are registered before the deep link is applied, so they also
// see a stack replaced by loc.
func (m *Manager) WithSession(ctx context.Context, sessionID string, loc ports.Location, fn func(context.Context, *Handle) error, observers ...navigation.Observer) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return fn(ctx, m.Open(ctx, sessionID, loc, observers...))
	})
}

// Snapshot is the stored state of a session. Stack is resolved the way
// Open resolves it, so it is never empty and Current is its last entry.
type Snapshot struct {
	ID      string   `json:"id"`
	Stack   []string `json:"stack"`
	Current string   `json:"current"`
	Query   string   `json:"query"`
}

// Inspect reads a session's stored values without opening it.
// A missing or unusable stored stack is reported as the root alone.
func (m *Manager) Inspect(ctx context.Context, sessionID string) (*Snapshot, error) {
	ids, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	if i := sort.SearchStrings(ids, sessionID); i == len(ids) || ids[i] != sessionID {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	store := persistence.New(m.store, persistence.WithSession(sessionID), persistence.WithLogger(m.logger))
	stored, query := store.Seed(ctx)

	stack, err := navigation.RestoreStack(m.graph, m.graph.Root(), stored)
	if err != nil {
		m.logger.Debug("Inspect: discarding stored stack", "session_id", sessionID, "stack", stored, "err", err)
		stack = navigation.NewStack(m.graph, m.graph.Root())
	}
	return &Snapshot{ID: sessionID, Stack: stack.IDs(), Current: stack.Current(), Query: query}, nil
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return persistence.New(m.store, persistence.WithSession(sessionID)).Clear(ctx)
	})
}

// List returns the ids of stored sessions, sorted. Values stored without a
// session namespace are reported under the empty id.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	keys, err := m.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	seen := make(map[string]bool)
	for _, k := range keys {
		// Stored names never contain a slash, so the id is everything before the last one.
		id, name := "", k
		if i := strings.LastIndex(k, "/"); i >= 0 {
			id, name = k[:i], k[i+1:]
		}
		if name == persistence.StackKey || name == persistence.QueryKey {
			seen[id] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Graph returns the graph sessions walk.
func (m *Manager) Graph() *graph.Graph {
	return m.graph
}

// Index returns the shared search index.
func (m *Manager) Index() *search.Index {
	return m.index
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
