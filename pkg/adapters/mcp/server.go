// Package mcp exposes a murmur engine to agents over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/internal/logging"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource holding the loaded rows.
const GraphURI = "murmur://graph"

// StepResponse is returned by the tools that advance a group.
type StepResponse struct {
	Events  []domain.Event     `json:"events" jsonschema_description:"Ordered presentation events"`
	Session *domain.Session    `json:"session,omitempty" jsonschema_description:"The session after the call"`
	Global  domain.GlobalState `json:"global" jsonschema_description:"Playthrough-wide counters"`
	Error   string             `json:"error,omitempty" jsonschema_description:"Why a pick was refused"`
}

// StateResponse describes the whole playthrough.
type StateResponse struct {
	Active   *int               `json:"active,omitempty" jsonschema_description:"Group that currently accepts choices"`
	Global   domain.GlobalState `json:"global"`
	Sessions []*domain.Session  `json:"sessions"`
}

// GroupArgs selects a group.
type GroupArgs struct {
	Group int `json:"group"`
}

// ChoiceArgs selects an offered reply in a group.
type ChoiceArgs struct {
	Group    int `json:"group"`
	Position int `json:"position"`
}

// Engine defines what the MCP server needs from the narrative engine.
type Engine interface {
	EnterOrResume(ctx context.Context, group int) ([]domain.Event, error)
	SubmitChoice(ctx context.Context, group, position int) ([]domain.Event, error)
	Session(ctx context.Context, group int) (*domain.Session, error)
	Sessions(ctx context.Context) ([]*domain.Session, error)
	Global() domain.GlobalState
	Active() (int, bool)
	Groups() []int
	Rows(group int) []domain.DialogueRow
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("murmur-mcp", strings.TrimSpace(murmur.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
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

		s.logger.Info("shutting down MCP server")
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
	s.mcpServer.AddTool(mcp.NewTool("list_groups",
		mcp.WithDescription("List the chat groups of the loaded dialogue."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.engine.Groups())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	enterTool := mcp.NewTool("enter_group",
		mcp.WithDescription("Open a group chat. Plays it until the next choice, or shows the pending choice again."),
		mcp.WithNumber("group", mcp.Required(), mcp.Description("Group to open")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(enterTool, mcp.NewStructuredToolHandler(s.handleEnter))

	choiceTool := mcp.NewTool("submit_choice",
		mcp.WithDescription("Pick one of the offered replies in the active group."),
		mcp.WithNumber("group", mcp.Required(), mcp.Description("Group the choice was offered in")),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Position of the offered reply")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(choiceTool, mcp.NewStructuredToolHandler(s.handleChoice))

	stateTool := mcp.NewTool("get_state",
		mcp.WithDescription("Get every session and the global counters."),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleState))
}

func (s *Server) handleEnter(ctx context.Context, request mcp.CallToolRequest, args GroupArgs) (StepResponse, error) {
	events, err := s.engine.EnterOrResume(ctx, args.Group)
	if err != nil {
		return StepResponse{}, fmt.Errorf("enter failed: %w", err)
	}
	return s.step(ctx, args.Group, events, nil)
}

func (s *Server) handleChoice(ctx context.Context, request mcp.CallToolRequest, args ChoiceArgs) (StepResponse, error) {
	events, err := s.engine.SubmitChoice(ctx, args.Group, args.Position)
	if err != nil && !isRejection(err) {
		return StepResponse{}, fmt.Errorf("choice failed: %w", err)
	}
	if err != nil {
		s.logger.Warn("MCP choice rejected", "group", args.Group, "position", args.Position, "err", err)
	}
	return s.step(ctx, args.Group, events, err)
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	sessions, err := s.engine.Sessions(ctx)
	if err != nil {
		return StateResponse{}, fmt.Errorf("list sessions failed: %w", err)
	}
	resp := StateResponse{
		Global:   s.engine.Global(),
		Sessions: sessions,
	}
	if group, ok := s.engine.Active(); ok {
		resp.Active = &group
	}
	return resp, nil
}

func (s *Server) step(ctx context.Context, group int, events []domain.Event, rejected error) (StepResponse, error) {
	sess, err := s.engine.Session(ctx, group)
	if err != nil {
		return StepResponse{}, fmt.Errorf("load session failed: %w", err)
	}
	resp := StepResponse{
		Events:  events,
		Session: sess,
		Global:  s.engine.Global(),
	}
	if resp.Events == nil {
		resp.Events = []domain.Event{}
	}
	if rejected != nil {
		resp.Error = rejected.Error()
	}
	return resp, nil
}

// isRejection reports whether err is a refused pick rather than an engine failure.
func isRejection(err error) bool {
	return errors.Is(err, domain.ErrInactiveSession) ||
		errors.Is(err, domain.ErrNotAwaitingChoice) ||
		errors.Is(err, domain.ErrChoiceNotOffered)
}

// graphDocument is the JSON shape of the graph resource.
type graphDocument struct {
	Groups []graphGroup `json:"groups"`
}

type graphGroup struct {
	Group int                  `json:"group"`
	Rows  []domain.DialogueRow `json:"rows"`
}

func (s *Server) graph() graphDocument {
	doc := graphDocument{Groups: []graphGroup{}}
	for _, g := range s.engine.Groups() {
		doc.Groups = append(doc.Groups, graphGroup{Group: g, Rows: s.engine.Rows(g)})
	}
	return doc
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Loaded Dialogue Rows",
		mcp.WithMIMEType("application/json"),
	), s.readGraph)
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.graph())
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
