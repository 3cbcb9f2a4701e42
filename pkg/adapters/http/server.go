// Package http exposes a murmur engine as a JSON API.
//
// Requests are checked against the embedded OpenAPI document before they reach a handler.
// Every event produced by entering a group or picking a reply is also pushed to the
// server-sent event subscribers of that group.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/murmur/internal/logging"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var openAPISpec []byte

// Engine defines what the API needs from the narrative engine.
type Engine interface {
	EnterOrResume(ctx context.Context, group int) ([]domain.Event, error)
	SubmitChoice(ctx context.Context, group, position int) ([]domain.Event, error)
	Session(ctx context.Context, group int) (*domain.Session, error)
	Sessions(ctx context.Context) ([]*domain.Session, error)
	Global() domain.GlobalState
	Active() (int, bool)
	Groups() []int
}

// Server holds the handlers of the API.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	server := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams = NewStreamManager(server.logger)

	validate, err := newValidator(openAPISpec, server.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Use(validate)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(openAPISpec)
	})
	if server.metrics != nil {
		r.Handle("/metrics", server.metrics)
	}

	r.Get("/health", server.GetHealth)
	r.Get("/groups", server.ListGroups)
	r.Get("/groups/{group}", server.GetSession)
	r.Post("/groups/{group}/enter", server.EnterGroup)
	r.Post("/groups/{group}/choices", server.SubmitChoice)
	r.Get("/state", server.GetState)
	r.Get("/events", server.SubscribeEvents)

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GroupList is the body of GET /groups.
type GroupList struct {
	Groups []int `json:"groups"`
	Active *int  `json:"active"`
}

// ChoiceRequest is the body of POST /groups/{group}/choices.
type ChoiceRequest struct {
	Position int `json:"position"`
}

// EventsResponse carries the events of one operation and the state it left behind.
type EventsResponse struct {
	Events  []domain.Event     `json:"events"`
	Session *domain.Session    `json:"session,omitempty"`
	Global  domain.GlobalState `json:"global"`
	Error   string             `json:"error,omitempty"`
}

// State is the body of GET /state.
type State struct {
	Global   domain.GlobalState `json:"global"`
	Active   *int               `json:"active"`
	Sessions []*domain.Session  `json:"sessions"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListGroups handles the GET /groups request.
func (s *Server) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups := s.Engine.Groups()
	if groups == nil {
		groups = []int{}
	}
	s.writeJSON(w, http.StatusOK, GroupList{Groups: groups, Active: s.active()})
}

// GetSession handles the GET /groups/{group} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	group, ok := s.groupParam(w, r)
	if !ok {
		return
	}
	session, err := s.Engine.Session(r.Context(), group)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

// EnterGroup handles the POST /groups/{group}/enter request.
func (s *Server) EnterGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := s.groupParam(w, r)
	if !ok {
		return
	}
	events, err := s.Engine.EnterOrResume(r.Context(), group)
	if err != nil {
		s.fail(w, r, err, events)
		return
	}
	s.respondEvents(w, r, group, events)
}

// SubmitChoice handles the POST /groups/{group}/choices request.
func (s *Server) SubmitChoice(w http.ResponseWriter, r *http.Request) {
	group, ok := s.groupParam(w, r)
	if !ok {
		return
	}

	var body ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("SubmitChoice: Invalid request body", "err", err)
		return
	}

	events, err := s.Engine.SubmitChoice(r.Context(), group, body.Position)
	if err != nil {
		s.fail(w, r, err, events)
		return
	}
	s.respondEvents(w, r, group, events)
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.Engine.Sessions(r.Context())
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	s.writeJSON(w, http.StatusOK, State{
		Global:   s.Engine.Global(),
		Active:   s.active(),
		Sessions: sessions,
	})
}

func (s *Server) respondEvents(w http.ResponseWriter, r *http.Request, group int, events []domain.Event) {
	s.Streams.Publish(group, events)

	resp := EventsResponse{Events: nonNil(events), Global: s.Engine.Global()}
	if session, err := s.Engine.Session(r.Context(), group); err == nil {
		resp.Session = session
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// fail maps engine errors to status codes. Rejections carry their diagnostic events.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, events []domain.Event) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNoProvider):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInactiveSession),
		errors.Is(err, domain.ErrNotAwaitingChoice),
		errors.Is(err, domain.ErrChoiceNotOffered):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request refused", "path", r.URL.Path, "status", status, "err", err)
	}

	s.writeJSON(w, status, EventsResponse{
		Events: nonNil(events),
		Global: s.Engine.Global(),
		Error:  err.Error(),
	})
}

func (s *Server) groupParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	var group int
	err := runtime.BindStyledParameterWithOptions("simple", "group", chi.URLParam(r, "group"), &group,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		http.Error(w, "Invalid group: "+err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return group, true
}

func (s *Server) active() *int {
	if g, ok := s.Engine.Active(); ok {
		return &g
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func nonNil(events []domain.Event) []domain.Event {
	if events == nil {
		return []domain.Event{}
	}
	return events
}
