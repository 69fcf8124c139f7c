package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/riseflow"
	"github.com/aretw0/riseflow/internal/logging"
	mermaid "github.com/aretw0/riseflow/internal/presentation/graph"
	"github.com/aretw0/riseflow/pkg/deeplink"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/navigation"
	"github.com/aretw0/riseflow/pkg/runner"
	"github.com/aretw0/riseflow/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// State is the response body of every session endpoint.
type State struct {
	SessionID string      `json:"session_id"`
	Fragment  string      `json:"fragment"`
	Changed   bool        `json:"changed"`
	View      domain.View `json:"view"`
}

// NavigateRequest is the body of POST /sessions/{sid}/navigate.
type NavigateRequest = session.Move

// QueryRequest is the body of PUT /sessions/{sid}/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// Server serves the flow and its sessions over HTTP.
type Server struct {
	Engine   *riseflow.Engine
	Streams  *StreamManager
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine *riseflow.Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/graph", s.GetGraph)
	r.Get("/nodes/{id}", s.GetNode)
	r.Get("/search", s.Search)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{sid}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/navigate", s.Navigate)
			r.Put("/query", s.SetQuery)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "riseflow-http",
		"version": riseflow.Version,
		"nodes":   s.Engine.Graph().Len(),
	})
}

// GetGraph handles GET /graph. With ?format=mermaid it returns a diagram,
// overlaid with a session's trail when ?session= is given.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g := s.Engine.Graph()

	if r.URL.Query().Get("format") != "mermaid" {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"root":  g.Root(),
			"nodes": g.Nodes(),
		})
		return
	}

	var overlay *mermaid.GraphOverlay
	if sid := r.URL.Query().Get("session"); sid != "" {
		snap, err := s.Engine.Sessions().Inspect(r.Context(), sid)
		if err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
		overlay = &mermaid.GraphOverlay{
			VisitedNodes: snap.Stack,
			CurrentNode:  snap.Current,
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, mermaid.GenerateMermaid(g.Nodes(), g.Root(), overlay))
}

// GetNode handles GET /nodes/{id}.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	node, err := s.Engine.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, node)
}

// Search handles GET /search?q=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q, err := runner.SanitizeInput(r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	results := s.Engine.Search(q)
	if results == nil {
		results = []domain.Node{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"query": q, "results": results})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Sessions().List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sessions": ids})
}

// CreateSession handles POST /sessions. The new session starts at the root,
// or at ?fragment= when it names a node.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sid := uuid.NewString()
	s.do(w, r, sid, http.StatusCreated, nil)
}

// GetSession handles GET /sessions/{sid}. ?fragment= applies a deep link.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, chi.URLParam(r, "sid"), http.StatusOK, nil)
}

// DeleteSession handles DELETE /sessions/{sid}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := s.Engine.Sessions().Delete(r.Context(), sid); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Navigate handles POST /sessions/{sid}/navigate.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	var body NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := body.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.ID != "" {
		id, err := runner.SanitizeInput(body.ID)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		body.ID = id
	}
	s.do(w, r, chi.URLParam(r, "sid"), http.StatusOK, body.Apply)
}

// SetQuery handles PUT /sessions/{sid}/query.
func (s *Server) SetQuery(w http.ResponseWriter, r *http.Request) {
	var body QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	q, err := runner.SanitizeInput(body.Query)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.do(w, r, chi.URLParam(r, "sid"), http.StatusOK, func(ctx context.Context, h *session.Handle) error {
		h.SetQuery(ctx, q)
		return nil
	})
}

// sessionOp mutates a session. Rejected moves are not errors: the response
// simply reports changed=false.
type sessionOp func(ctx context.Context, h *session.Handle) error

// do runs op on the session under its lock and answers with the resulting state.
func (s *Server) do(w http.ResponseWriter, r *http.Request, sid string, status int, op sessionOp) {
	fragment, err := runner.SanitizeInput(r.URL.Query().Get("fragment"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	loc := deeplink.NewMemoryLocation(fragment)

	var (
		state   State
		changed bool
	)
	track := navigation.ObserverFunc(func(context.Context, navigation.Change) {
		changed = true
	})
	err = s.Engine.Sessions().WithSession(r.Context(), sid, loc, func(ctx context.Context, h *session.Handle) error {
		if op != nil {
			if err := op(ctx, h); err != nil {
				return err
			}
		}
		frag, _ := loc.Fragment()
		state = State{SessionID: sid, Fragment: frag, Changed: changed, View: h.View()}
		return nil
	}, track)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	if state.Changed {
		if data, err := json.Marshal(state); err == nil {
			s.Streams.Broadcast(sid, string(data))
		}
	}
	s.logger.Debug("Session request", "session_id", sid, "path", r.URL.Path, "node_id", state.View.Node.ID, "changed", state.Changed)
	s.writeJSON(w, status, state)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNodeNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// StreamManager fans session updates out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
}

// NewStreamManager returns a manager with no subscribers.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a buffered channel for sessionID. Call the returned
// function to unsubscribe; it closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast delivers msg to every subscriber of sessionID. Slow clients lose messages.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscribeEvents handles GET /sessions/{sid}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	sid := chi.URLParam(r, "sid")
	ch, cancel := s.Streams.Subscribe(sid)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE client connected", "session_id", sid)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sid)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
