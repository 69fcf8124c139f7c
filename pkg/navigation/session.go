package navigation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/riseflow/internal/logging"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/graph"
	"github.com/aretw0/riseflow/pkg/search"
)

// Session is one user's walk through a graph: a navigation stack, a search
// query and the observers that mirror them elsewhere.
type Session struct {
	graph *graph.Graph
	index *search.Index
	stack *Stack
	query string
	jumps map[domain.Role]string

	observers []Observer
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	seedStack []string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithIndex shares a prebuilt search index instead of indexing the graph again.
func WithIndex(ix *search.Index) Option {
	return func(s *Session) {
		s.index = ix
	}
}

// WithStack seeds the stack from stored ids. An empty or invalid sequence is
// ignored and the session starts at the root.
func WithStack(ids []string) Option {
	return func(s *Session) {
		s.seedStack = ids
	}
}

// WithQuery seeds the search query.
func WithQuery(q string) Option {
	return func(s *Session) {
		s.query = q
	}
}

// WithQuickJumps maps roles to the entry node of their part of the flow.
func WithQuickJumps(jumps map[domain.Role]string) Option {
	return func(s *Session) {
		s.jumps = jumps
	}
}

// NewSession starts a session on g. Seeding never fails: bad seeds fall back
// to the root node.
func NewSession(g *graph.Graph, opts ...Option) *Session {
	s := &Session{
		graph:  g,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.index == nil {
		s.index = search.NewIndex(g.Nodes())
	}

	s.stack = NewStack(g, g.Root())
	if s.seedStack != nil {
		restored, err := RestoreStack(g, g.Root(), s.seedStack)
		if err != nil {
			s.logger.Debug("Discarding stored stack", "stack", s.seedStack, "err", err)
		} else {
			s.stack = restored
		}
		s.seedStack = nil
	}
	return s
}

// Subscribe registers an observer. Observers are called in registration order.
func (s *Session) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Graph returns the graph the session walks.
func (s *Session) Graph() *graph.Graph {
	return s.graph
}

// Stack returns a copy of the visited ids, oldest first.
func (s *Session) Stack() []string {
	return s.stack.IDs()
}

// CurrentID returns the id on top of the stack.
func (s *Session) CurrentID() string {
	return s.stack.Current()
}

// Current returns the node on top of the stack, or the root when it cannot be resolved.
func (s *Session) Current() domain.Node {
	return s.graph.Resolve(s.stack.Current())
}

// CanBack reports whether Back would do anything.
func (s *Session) CanBack() bool {
	return s.stack.CanBack()
}

// Go pushes id. Unknown ids are ignored and reported as false.
func (s *Session) Go(ctx context.Context, id string) bool {
	from := s.stack.Current()
	if err := s.stack.Push(id); err != nil {
		s.logger.Debug("Ignoring navigation", "op", domain.OpPush, "err", err)
		return false
	}
	s.stackChanged(ctx, domain.OpPush, from)
	return true
}

// Follow pushes the target of the current node's edge at position i.
func (s *Session) Follow(ctx context.Context, i int) bool {
	edges := s.Current().Edges
	if i < 0 || i >= len(edges) {
		s.logger.Debug("Ignoring navigation", "op", domain.OpPush, "edge", i, "edges", len(edges))
		return false
	}
	return s.Go(ctx, edges[i].To)
}

// Back pops the current node. At the root it does nothing.
func (s *Session) Back(ctx context.Context) bool {
	from := s.stack.Current()
	if !s.stack.Back() {
		return false
	}
	s.stackChanged(ctx, domain.OpBack, from)
	return true
}

// Jump truncates the stack to the breadcrumb at index.
func (s *Session) Jump(ctx context.Context, index int) bool {
	from := s.stack.Current()
	if err := s.stack.Truncate(index); err != nil {
		s.logger.Debug("Ignoring navigation", "op", domain.OpTruncate, "err", err)
		return false
	}
	s.stackChanged(ctx, domain.OpTruncate, from)
	return true
}

// Reset returns to the root, discarding history.
func (s *Session) Reset(ctx context.Context) {
	from := s.stack.Current()
	s.stack.Reset()
	s.stackChanged(ctx, domain.OpReset, from)
}

// Home pushes the root node, keeping history.
func (s *Session) Home(ctx context.Context) bool {
	return s.Go(ctx, s.graph.Root())
}

// QuickJump pushes the entry node configured for role.
func (s *Session) QuickJump(ctx context.Context, role domain.Role) bool {
	id, ok := s.jumps[role]
	if !ok {
		s.logger.Debug("No quick jump for role", "role", role)
		return false
	}
	return s.Go(ctx, id)
}

// QuickJumps returns the configured role shortcuts.
func (s *Session) QuickJumps() map[domain.Role]string {
	return s.jumps
}

// Replace discards history and starts over at id. Used for inbound deep links.
func (s *Session) Replace(ctx context.Context, id string) bool {
	from := s.stack.Current()
	if err := s.stack.Replace(id); err != nil {
		s.logger.Debug("Ignoring navigation", "op", domain.OpDeepLink, "err", err)
		return false
	}
	s.stackChanged(ctx, domain.OpDeepLink, from)
	return true
}

// Query returns the current search text.
func (s *Session) Query() string {
	return s.query
}

// SetQuery updates the search text. Setting the same text again is a no-op.
func (s *Session) SetQuery(ctx context.Context, q string) {
	if q == s.query {
		return
	}
	s.query = q

	if s.hooks.OnSearch != nil {
		s.hooks.OnSearch(ctx, &domain.SearchEvent{
			Timestamp: time.Now(),
			Query:     q,
			Terms:     len(search.Terms(q)),
			Results:   len(s.index.Search(q)),
		})
	}

	s.notify(ctx, Change{
		Kind:    ChangeQuery,
		Stack:   s.stack.IDs(),
		Current: s.stack.Current(),
		Query:   q,
	})
}

// Results returns the nodes matching the current query.
func (s *Session) Results() []domain.Node {
	return s.index.Search(s.query)
}

// Breadcrumbs returns the stack with titles, oldest first.
func (s *Session) Breadcrumbs() []domain.Breadcrumb {
	ids := s.stack.IDs()
	crumbs := make([]domain.Breadcrumb, len(ids))
	for i, id := range ids {
		crumbs[i] = domain.Breadcrumb{Index: i, ID: id, Title: s.graph.Title(id)}
	}
	return crumbs
}

// View assembles what a renderer shows. Search results take over the display
// only when the query is set and something matched.
func (s *Session) View() domain.View {
	results := s.Results()
	return domain.View{
		Node:        s.Current(),
		Query:       s.query,
		Results:     results,
		Searching:   s.query != "" && len(results) > 0,
		Breadcrumbs: s.Breadcrumbs(),
		CanBack:     s.stack.CanBack(),
	}
}

// ShareLink returns base with its fragment replaced by the current node id.
func (s *Session) ShareLink(base string) string {
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + s.stack.Current()
}

func (s *Session) stackChanged(ctx context.Context, op domain.NavigationOp, from string) {
	change := Change{
		Kind:    ChangeStack,
		Op:      op,
		Stack:   s.stack.IDs(),
		Current: s.stack.Current(),
		Query:   s.query,
	}

	s.logger.Debug("Navigated", "op", op, "from", from, "to", change.Current, "depth", len(change.Stack))
	s.notify(ctx, change)

	if s.hooks.OnNavigate != nil {
		s.hooks.OnNavigate(ctx, &domain.NavigationEvent{
			Timestamp: time.Now(),
			Op:        op,
			From:      from,
			To:        change.Current,
			Depth:     len(change.Stack),
		})
	}
}

func (s *Session) notify(ctx context.Context, change Change) {
	for _, o := range s.observers {
		o.Observe(ctx, change)
	}
}
