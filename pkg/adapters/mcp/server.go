// Package mcp exposes the session registry as an MCP server so agent
// clients can drive navigation sessions as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/framepilot"
	"github.com/aretw0/framepilot/internal/presentation/graph"
	"github.com/aretw0/framepilot/pkg/domain"
)

// SessionList wraps the list_sessions result so it has a stable schema.
type SessionList struct {
	Sessions []domain.Snapshot `json:"sessions" jsonschema_description:"Snapshots of all active sessions"`
}

// RemoveResult reports whether remove_session actually deleted something.
type RemoveResult struct {
	SessionID string `json:"sessionId"`
	Removed   bool   `json:"removed" jsonschema_description:"False when no such session existed"`
}

// Registry is the slice of the session registry the MCP surface needs.
type Registry interface {
	Create(ctx context.Context, id string) (domain.Snapshot, error)
	Remove(ctx context.Context, id string) (bool, error)
	Dispatch(ctx context.Context, id string, ev domain.Event) (domain.Snapshot, error)
	StateOf(ctx context.Context, id string) (domain.Snapshot, error)
	List(ctx context.Context) ([]domain.Snapshot, error)
}

// Server wraps the registry and exposes it as an MCP Server.
type Server struct {
	registry  Registry
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(registry Registry) *Server {
	s := &Server{
		registry:  registry,
		mcpServer: server.NewMCPServer("framepilot-mcp", framepilot.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

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
		slog.Info("MCP Server listening (SSE)", "address", addr)
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: create_session
	createTool := mcp.NewTool("create_session",
		mcp.WithDescription("Create a navigation session at Inactive. Recreating an existing id resets it. A missing id gets a generated UUID."),
		mcp.WithString("session_id", mcp.Description("Session identifier (optional)")),
		mcp.WithOutputSchema[domain.Snapshot](),
	)
	s.mcpServer.AddTool(createTool, mcp.NewStructuredToolHandler(s.handleCreate))

	// TOOL: dispatch_event
	dispatchTool := mcp.NewTool("dispatch_event",
		mcp.WithDescription("Dispatch one navigation event to a session and return the resulting snapshot."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Event discriminant, e.g. NAECHSTER_FRAME or LADE_NEUE_LISTE")),
		mcp.WithString("frame_name", mcp.Description("Target frame for SUCHE_FRAME")),
		mcp.WithString("list", mcp.Description("JSON array of frame names for LADE_NEUE_LISTE / NOTFALL_EMPFANGEN")),
		mcp.WithBoolean("accepted", mcp.Description("User decision for USER_BESTAETIGT_NOTFALL")),
		mcp.WithString("context", mcp.Description("Target list for LADE_NEUE_LISTE: ENTITAET or ALLGEMEIN")),
		mcp.WithOutputSchema[domain.Snapshot](),
	)
	s.mcpServer.AddTool(dispatchTool, mcp.NewStructuredToolHandler(s.handleDispatch))

	// TOOL: get_session
	getTool := mcp.NewTool("get_session",
		mcp.WithDescription("Return the current snapshot of a session without mutating it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithOutputSchema[domain.Snapshot](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGet))

	// TOOL: list_sessions
	listTool := mcp.NewTool("list_sessions",
		mcp.WithDescription("List snapshots of all active sessions."),
		mcp.WithOutputSchema[SessionList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleList))

	// TOOL: remove_session
	removeTool := mcp.NewTool("remove_session",
		mcp.WithDescription("Remove a session. Removing a missing session reports removed=false, not an error."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithOutputSchema[RemoveResult](),
	)
	s.mcpServer.AddTool(removeTool, mcp.NewStructuredToolHandler(s.handleRemove))
}

func (s *Server) handleCreate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	id, _ := args["session_id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	snap, err := s.registry.Create(ctx, id)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("create failed: %w", err)
	}
	return snap, nil
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	id, _ := args["session_id"].(string)

	ev := domain.Event{}
	if v, ok := args["type"].(string); ok {
		ev.Type = domain.EventType(v)
	}
	if v, ok := args["frame_name"].(string); ok {
		ev.FrameName = v
	}
	if v, ok := args["accepted"].(bool); ok {
		ev.Accepted = v
	}
	if v, ok := args["context"].(string); ok {
		ev.Context = domain.ListContext(v)
	}
	if v, ok := args["list"].(string); ok && v != "" {
		if err := json.Unmarshal([]byte(v), &ev.List); err != nil {
			return domain.Snapshot{}, fmt.Errorf("list must be a JSON array of strings: %w", err)
		}
	}

	snap, err := s.registry.Dispatch(ctx, id, ev)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("dispatch failed: %w", err)
	}
	return snap, nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	id, _ := args["session_id"].(string)

	snap, err := s.registry.StateOf(ctx, id)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("get failed: %w", err)
	}
	return snap, nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionList, error) {
	snaps, err := s.registry.List(ctx)
	if err != nil {
		return SessionList{}, fmt.Errorf("list failed: %w", err)
	}
	return SessionList{Sessions: snaps}, nil
}

func (s *Server) handleRemove(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RemoveResult, error) {
	id, _ := args["session_id"].(string)

	removed, err := s.registry.Remove(ctx, id)
	if err != nil {
		return RemoveResult{}, fmt.Errorf("remove failed: %w", err)
	}
	return RemoveResult{SessionID: id, Removed: removed}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: framepilot://statechart
	s.mcpServer.AddResource(mcp.NewResource("framepilot://statechart", "Navigation Statechart",
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "framepilot://statechart",
				MIMEType: "text/vnd.mermaid",
				Text:     graph.GenerateMermaid(""),
			},
		}, nil
	})
}
