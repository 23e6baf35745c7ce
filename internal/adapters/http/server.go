// Package http exposes the session registry over a REST surface.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/framepilot/internal/logging"
	"github.com/aretw0/framepilot/pkg/domain"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Registry is the slice of the session registry the HTTP surface needs.
type Registry interface {
	Create(ctx context.Context, id string) (domain.Snapshot, error)
	Remove(ctx context.Context, id string) (bool, error)
	Dispatch(ctx context.Context, id string, ev domain.Event) (domain.Snapshot, error)
	StateOf(ctx context.Context, id string) (domain.Snapshot, error)
	List(ctx context.Context) ([]domain.Snapshot, error)
}

// Server routes REST calls to the registry.
type Server struct {
	registry Registry
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the given Prometheus gatherer at /metrics.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler builds the full HTTP handler for the registry.
func NewHandler(registry Registry, opts ...ServerOption) http.Handler {
	s := &Server{
		registry: registry,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	r.Get("/health", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Put("/", s.putSession)
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/events", s.postEvent)
		})
	})

	return enableCORS(r)
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

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(openapiSpec)
}

// createSession handles POST /sessions. A missing id in the body gets a
// generated UUID.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"sessionId"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if body.SessionID == "" {
		body.SessionID = uuid.NewString()
	}

	snap, err := s.registry.Create(r.Context(), body.SessionID)
	if err != nil {
		s.writeRegistryError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// putSession handles PUT /sessions/{sessionID}: create-or-reset under a
// caller-chosen id.
func (s *Server) putSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.registry.Create(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeRegistryError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.registry.StateOf(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeRegistryError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	removed, err := s.registry.Remove(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeRegistryError(w, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.registry.List(r.Context())
	if err != nil {
		s.writeRegistryError(w, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

// postEvent handles POST /sessions/{sessionID}/events. The body is a raw
// event object whose "type" discriminant selects the payload shape.
func (s *Server) postEvent(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ev, err := domain.DecodeEvent(raw)
	if err != nil {
		s.writeRegistryError(w, "dispatch", err)
		return
	}

	snap, err := s.registry.Dispatch(r.Context(), chi.URLParam(r, "sessionID"), ev)
	if err != nil {
		s.writeRegistryError(w, "dispatch", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// writeRegistryError maps registry sentinels to HTTP statuses.
func (s *Server) writeRegistryError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("registry operation failed", "op", op, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
