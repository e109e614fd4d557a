// Package mcp exposes the intercept engine over the Model Context Protocol
// so agent hosts can browse the action vocabulary and fire triggers.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/priceflex/intercept"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/registry"
)

// Engine is the slice of the intercept engine the MCP surface drives.
type Engine interface {
	Trigger(ctx context.Context, sessionID string, action domain.Action, input any) (domain.Result, error)
	Actions() *domain.ActionSet
	Bindings() []registry.Binding
}

// ActionEntry describes one vocabulary member and its current bindings.
type ActionEntry struct {
	Name        string `json:"name" jsonschema_description:"Action name"`
	Object      string `json:"object,omitempty" jsonschema_description:"Business object family the action carries, empty for none"`
	Search      bool   `json:"search,omitempty" jsonschema_description:"True when the action input is a search text"`
	Description string `json:"description,omitempty"`
	PreBound    bool   `json:"preBound" jsonschema_description:"A PRE handler is currently bound"`
	PostBound   bool   `json:"postBound" jsonschema_description:"A POST handler is currently bound"`
}

// ListActionsResponse aligns with the HTTP adapter's vocabulary listing.
type ListActionsResponse struct {
	Actions []ActionEntry `json:"actions"`
}

// TriggerResponse is the outcome of one trigger.
type TriggerResponse struct {
	Status string `json:"status" jsonschema_description:"completed, canceled or failed"`
	Value  any    `json:"value,omitempty" jsonschema_description:"The value the host should proceed with"`
}

// Server wraps the intercept engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("intercept-mcp", strings.TrimSpace(intercept.Version)),
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
		slog.Info("mcp server listening (sse)", "address", addr)
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

// corsMiddleware lets browser-embedded CRM panels reach the SSE endpoints.
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
	// TOOL: list_actions
	listTool := mcp.NewTool("list_actions",
		mcp.WithDescription("List the interceptable action vocabulary with current PRE/POST handler bindings."),
		mcp.WithOutputSchema[ListActionsResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListActions))

	// TOOL: trigger_action
	triggerTool := mcp.NewTool("trigger_action",
		mcp.WithDescription("Run a built-in action through its PRE/POST interception sequence."),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action name, e.g. quotesDetailSubmit")),
		mcp.WithString("session_id", mcp.Description("Client session ID (optional; a transient session is used when omitted)")),
		mcp.WithString("input", mcp.Description("JSON-encoded action input (optional)")),
		mcp.WithOutputSchema[TriggerResponse](),
	)
	s.mcpServer.AddTool(triggerTool, mcp.NewStructuredToolHandler(s.handleTrigger))
}

// Handler methods for structured tools

func (s *Server) handleListActions(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListActionsResponse, error) {
	return ListActionsResponse{Actions: s.listActions()}, nil
}

func (s *Server) handleTrigger(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TriggerResponse, error) {
	name, _ := args["action"].(string)
	sessionID, _ := args["session_id"].(string)

	var input any
	if raw, ok := args["input"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return TriggerResponse{}, fmt.Errorf("input is not valid JSON: %w", err)
		}
	}

	res, err := s.engine.Trigger(ctx, sessionID, domain.Action(name), input)
	if err != nil {
		return TriggerResponse{}, fmt.Errorf("trigger failed: %w", err)
	}

	return TriggerResponse{Status: string(res.Status), Value: res.Value}, nil
}

func (s *Server) listActions() []ActionEntry {
	bound := make(map[domain.Action]map[domain.Phase]bool)
	for _, b := range s.engine.Bindings() {
		if bound[b.Action] == nil {
			bound[b.Action] = make(map[domain.Phase]bool)
		}
		bound[b.Action][b.Phase] = true
	}

	actions := s.engine.Actions()
	entries := make([]ActionEntry, 0, len(actions.Names()))
	for _, name := range actions.Names() {
		info, _ := actions.Info(name)
		entries = append(entries, ActionEntry{
			Name:        string(info.Name),
			Object:      string(info.Object),
			Search:      info.Search,
			Description: info.Description,
			PreBound:    bound[name][domain.PhasePre],
			PostBound:   bound[name][domain.PhasePost],
		})
	}
	return entries
}

func (s *Server) registerResources() {
	// EXPOSE: intercept://actions
	s.mcpServer.AddResource(mcp.NewResource("intercept://actions", "Action Vocabulary",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.listActions())
		if err != nil {
			return nil, fmt.Errorf("failed to encode vocabulary: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "intercept://actions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
