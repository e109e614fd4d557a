// Package http serves the host-facing API: vocabulary listing, trigger
// execution, lifecycle event streaming and operational endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/registry"
)

// Engine defines the interface for the intercept engine core.
type Engine interface {
	Trigger(ctx context.Context, sessionID string, action domain.Action, input any) (domain.Result, error)
	Actions() *domain.ActionSet
	Bindings() []registry.Binding
}

// Config wires the handler. Engine is required; the Events and Metrics
// routes are omitted when nil.
type Config struct {
	Engine  Engine
	Events  *EventStream
	Metrics http.Handler
}

// ActionEntry describes one vocabulary member and its current bindings.
type ActionEntry struct {
	Name        string `json:"name"`
	Object      string `json:"object,omitempty"`
	Search      bool   `json:"search,omitempty"`
	Description string `json:"description,omitempty"`
	PreBound    bool   `json:"preBound"`
	PostBound   bool   `json:"postBound"`
}

// TriggerRequest is the POST /api/actions/{name} body.
type TriggerRequest struct {
	SessionID string          `json:"sessionId,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
}

// TriggerResponse reports one trigger outcome. Error and Kind are set only
// on failures; Value may accompany a failure when the built-in action had
// already produced a result.
type TriggerResponse struct {
	Status string `json:"status"`
	Value  any    `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

type server struct {
	engine Engine
	events *EventStream
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(cfg Config) http.Handler {
	s := &server{engine: cfg.Engine, events: cfg.Events}
	r := chi.NewRouter()

	r.Get("/healthz", s.health)
	r.Get("/api/actions", s.listActions)
	r.Post("/api/actions/{name}", s.trigger)
	if cfg.Events != nil {
		r.Get("/api/events", s.subscribeEvents)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	return r
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) listActions(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, map[string]any{"actions": entries})
}

// trigger handles POST /api/actions/{name}. Cancellation by a PRE handler is
// a protocol outcome, reported as 409; failure kinds map onto the status
// vocabulary below.
func (s *server) trigger(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body TriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, TriggerResponse{
			Status: string(domain.StatusFailed),
			Error:  "invalid request body: " + err.Error(),
		})
		return
	}

	var input any
	if len(body.Input) > 0 {
		if err := json.Unmarshal(body.Input, &input); err != nil {
			writeJSON(w, http.StatusBadRequest, TriggerResponse{
				Status: string(domain.StatusFailed),
				Error:  "invalid input payload: " + err.Error(),
			})
			return
		}
	}

	res, err := s.engine.Trigger(r.Context(), body.SessionID, domain.Action(name), input)
	if err != nil {
		kind := domain.KindOf(err)
		writeJSON(w, statusFor(kind), TriggerResponse{
			Status: string(res.Status),
			Value:  res.Value,
			Error:  err.Error(),
			Kind:   kind.String(),
		})
		return
	}

	if res.Status == domain.StatusCanceled {
		writeJSON(w, http.StatusConflict, TriggerResponse{Status: string(res.Status)})
		return
	}
	writeJSON(w, http.StatusOK, TriggerResponse{Status: string(res.Status), Value: res.Value})
}

// subscribeEvents handles GET /api/events (SSE).
func (s *server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := s.events.Subscribe(r.Context())

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case data, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindUnknownAction:
		return http.StatusNotFound
	case domain.KindNoRunner:
		return http.StatusNotImplemented
	case domain.KindHandlerFailure:
		return http.StatusBadGateway
	case domain.KindActionFailure:
		return http.StatusInternalServerError
	case domain.KindBadRecord:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
