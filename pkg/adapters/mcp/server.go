package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/riseflow"
	"github.com/aretw0/riseflow/internal/logging"
	mermaid "github.com/aretw0/riseflow/internal/presentation/graph"
	"github.com/aretw0/riseflow/pkg/deeplink"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/navigation"
	"github.com/aretw0/riseflow/pkg/runner"
	"github.com/aretw0/riseflow/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	graphURI   = "riseflow://graph"
	mermaidURI = "riseflow://graph.mmd"
)

// SearchArgs are the arguments of search_nodes.
type SearchArgs struct {
	Query string `json:"query"`
}

// SearchResponse lists matching nodes, best first.
type SearchResponse struct {
	Query   string        `json:"query" jsonschema_description:"The query as searched"`
	Results []domain.Node `json:"results" jsonschema_description:"At most 12 matching nodes"`
}

// NodeArgs are the arguments of get_node.
type NodeArgs struct {
	ID string `json:"id"`
}

// NavigateArgs are the arguments of navigate.
type NavigateArgs struct {
	SessionID string `json:"session_id"`
	Fragment  string `json:"fragment,omitempty"`
	session.Move
}

// QueryArgs are the arguments of set_query.
type QueryArgs struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// SessionResponse aligns with the HTTP session state.
type SessionResponse struct {
	SessionID string      `json:"session_id" jsonschema_description:"Session the view belongs to"`
	Fragment  string      `json:"fragment" jsonschema_description:"Shareable deep link fragment"`
	Changed   bool        `json:"changed" jsonschema_description:"Whether the call moved the session or changed its query"`
	View      domain.View `json:"view" jsonschema_description:"Current node, breadcrumbs and search results"`
}

// Server exposes the flow to MCP clients.
type Server struct {
	engine    *riseflow.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *riseflow.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine: engine,
		logger: logger,
		mcpServer: server.NewMCPServer("riseflow-mcp", riseflow.Version,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, true),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("search_nodes",
		mcp.WithDescription("Search the behaviour flow. Words of the query are matched against node titles, bodies and bullets."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free text, e.g. 'late phone'")),
		mcp.WithOutputSchema[SearchResponse](),
	), mcp.NewStructuredToolHandler(s.handleSearch))

	s.mcpServer.AddTool(mcp.NewTool("get_node",
		mcp.WithDescription("Get one node of the flow with its choices."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id, e.g. 'ht-intake'")),
		mcp.WithOutputSchema[domain.Node](),
	), mcp.NewStructuredToolHandler(s.handleGetNode))

	s.mcpServer.AddTool(mcp.NewTool("list_nodes",
		mcp.WithDescription("List every node id and title in flow order."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		g := s.engine.Graph()
		out := make([]map[string]string, 0, g.Len())
		for _, n := range g.Nodes() {
			out = append(out, map[string]string{"id": n.ID, "title": n.Title, "role": n.Role.String()})
		}
		data, _ := json.Marshal(out)
		return mcp.NewToolResultText(string(data)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Move a stored navigation session and return its view."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to move; created on first use")),
		mcp.WithString("op", mcp.Required(), mcp.Description("go, follow, back, jump, reset, home or quick")),
		mcp.WithString("id", mcp.Description("Target node for go")),
		mcp.WithNumber("index", mcp.Description("Choice index for follow, breadcrumb index for jump")),
		mcp.WithString("role", mcp.Description("ct, ht or dp for quick")),
		mcp.WithString("fragment", mcp.Description("Deep link applied before the move, e.g. '#dp-intake'")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleNavigate))

	s.mcpServer.AddTool(mcp.NewTool("set_query",
		mcp.WithDescription("Set the search text of a session. An empty query clears it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to update")),
		mcp.WithString("query", mcp.Description("Search text")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetQuery))
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest, args SearchArgs) (SearchResponse, error) {
	q, err := runner.SanitizeInput(args.Query)
	if err != nil {
		s.logger.Warn("MCP search: input rejected", "err", err, "size", len(args.Query))
		return SearchResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	results := s.engine.Search(q)
	if results == nil {
		results = []domain.Node{}
	}
	return SearchResponse{Query: q, Results: results}, nil
}

func (s *Server) handleGetNode(ctx context.Context, request mcp.CallToolRequest, args NodeArgs) (domain.Node, error) {
	return s.engine.Lookup(args.ID)
}

func (s *Server) handleNavigate(ctx context.Context, request mcp.CallToolRequest, args NavigateArgs) (SessionResponse, error) {
	if err := args.Move.Validate(); err != nil {
		return SessionResponse{}, err
	}
	return s.withSession(ctx, args.SessionID, args.Fragment, args.Move.Apply)
}

func (s *Server) handleSetQuery(ctx context.Context, request mcp.CallToolRequest, args QueryArgs) (SessionResponse, error) {
	q, err := runner.SanitizeInput(args.Query)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.withSession(ctx, args.SessionID, "", func(ctx context.Context, h *session.Handle) error {
		h.SetQuery(ctx, q)
		return nil
	})
}

func (s *Server) withSession(ctx context.Context, sid, fragment string, fn func(context.Context, *session.Handle) error) (SessionResponse, error) {
	if sid == "" {
		return SessionResponse{}, fmt.Errorf("session_id is required")
	}
	loc := deeplink.NewMemoryLocation(fragment)

	var (
		resp    SessionResponse
		changed bool
	)
	track := navigation.ObserverFunc(func(context.Context, navigation.Change) {
		changed = true
	})
	err := s.engine.Sessions().WithSession(ctx, sid, loc, func(ctx context.Context, h *session.Handle) error {
		if err := fn(ctx, h); err != nil {
			return err
		}
		frag, _ := loc.Fragment()
		resp = SessionResponse{SessionID: sid, Fragment: frag, Changed: changed, View: h.View()}
		return nil
	}, track)
	if err != nil {
		return SessionResponse{}, err
	}
	return resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(graphURI, "RISE behaviour flow",
		mcp.WithResourceDescription("Every node of the flow with its choices, in flow order."),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		g := s.engine.Graph()
		data, err := json.Marshal(map[string]any{"root": g.Root(), "nodes": g.Nodes()})
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(mermaidURI, "RISE behaviour flow diagram",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		g := s.engine.Graph()
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      mermaidURI,
				MIMEType: "text/plain",
				Text:     mermaid.GenerateMermaid(g.Nodes(), g.Root(), nil),
			},
		}, nil
	})
}
