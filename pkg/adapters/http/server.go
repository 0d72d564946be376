// Package http exposes calculator sessions over a JSON API with a websocket watch stream.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/internal/logging"
	"github.com/aretw0/keypad/pkg/domain"
	"github.com/aretw0/keypad/pkg/observability"
	"github.com/aretw0/keypad/pkg/runner"
	"github.com/aretw0/keypad/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Server serves the session API.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	apiVersion string
	upgrader   websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request durations and exposes /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// KeysRequest is the body of POST /sessions/{id}/keys.
// Keys are applied first, then the keys of Input.
type KeysRequest struct {
	Keys  []string `json:"keys"`
	Input string   `json:"input,omitempty"`
}

// NewServer creates a Server backed by the session manager.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions:   sessions,
		Logger:     logging.NewNop(),
		apiVersion: "unknown",
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.Logger)
	sessions.Observe(s.broadcast)
	if doc, err := LoadSpec(context.Background()); err != nil {
		s.Logger.Error("Invalid embedded OpenAPI document", "err", err)
	} else if doc.Info != nil {
		s.apiVersion = doc.Info.Version
	}
	return s
}

// NewHandler creates the HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware(routePattern))
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(RawSpec())
	})

	r.Get("/sessions", s.ListSessions)
	r.Post("/sessions", s.CreateSession)
	r.Get("/sessions/{id}", s.GetSession)
	r.Delete("/sessions/{id}", s.DeleteSession)
	r.Post("/sessions/{id}/keys", s.PressKeys)
	r.Post("/sessions/{id}/reset", s.ResetSession)
	r.Get("/sessions/{id}/watch", s.WatchSession)

	return enableCORS(r)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Create(r.Context())
	if err != nil {
		s.fail(w, "CreateSession", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// PressKeys handles POST /sessions/{id}/keys.
func (s *Server) PressKeys(w http.ResponseWriter, r *http.Request) {
	var body KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		s.Logger.Warn("PressKeys: Invalid request body", "err", err)
		return
	}

	keys, err := collectKeys(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid input: %v", err))
		s.Logger.Warn("PressKeys: Input rejected", "err", err)
		return
	}
	if len(keys) == 0 {
		s.writeError(w, http.StatusBadRequest, "no keys")
		return
	}

	id := chi.URLParam(r, "id")
	view, err := s.Sessions.Press(r.Context(), id, keys...)
	if err != nil {
		s.fail(w, "PressKeys", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// collectKeys sanitizes every key with the same policy as the REPL.
func collectKeys(body KeysRequest) ([]string, error) {
	keys := make([]string, 0, len(body.Keys))
	for _, k := range body.Keys {
		clean, err := runner.SanitizeInput(k)
		if err != nil {
			return nil, err
		}
		if clean != "" {
			keys = append(keys, clean)
		}
	}
	if body.Input != "" {
		clean, err := runner.SanitizeInput(body.Input)
		if err != nil {
			return nil, err
		}
		keys = append(keys, runner.Tokenize(clean)...)
	}
	return keys, nil
}

// ResetSession handles POST /sessions/{id}/reset.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "ResetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// DeleteSession handles DELETE /sessions/{id}. Watchers are disconnected.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// WatchSession handles GET /sessions/{id}/watch.
// The current view is sent first, then one view per change until the client
// disconnects or the session is deleted.
func (s *Server) WatchSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	updates, cancel := s.Streams.Subscribe(id)
	defer cancel()

	view, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.fail(w, "WatchSession", err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("WatchSession: Upgrade failed", "session_id", id, "err", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(view); err != nil {
		return
	}

	// Reads only detect the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.Logger.Debug("Watcher closed unexpectedly", "session_id", id, "err", err)
				}
				return
			}
		}
	}()

	s.Logger.Info("Watcher connected", "session_id", id)
	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case msg, ok := <-updates:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session deleted"),
					time.Now().Add(writeWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "keypad-http",
		"version":     keypad.Version,
		"api_version": s.apiVersion,
	})
}

// broadcast runs under the session lock, see session.Manager.Apply.
func (s *Server) broadcast(view session.View) {
	payload, err := json.Marshal(view)
	if err != nil {
		s.Logger.Error("Failed to encode view for watchers", "session_id", view.SessionID, "err", err)
		return
	}
	s.Streams.Broadcast(view.SessionID, payload)
}

// fail maps err to a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.Logger.Error(op+" failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}
