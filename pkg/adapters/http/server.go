package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a running controller over HTTP.
type Server struct {
	Controller     ports.Controller
	Intents        ports.IntentSetter
	Gatherer       prometheus.Gatherer
	Logger         *slog.Logger
	StreamInterval time.Duration
}

// Option configures the handler.
type Option func(*Server)

// WithIntentSetter enables POST /v1/command.
func WithIntentSetter(s ports.IntentSetter) Option {
	return func(srv *Server) {
		srv.Intents = s
	}
}

// WithGatherer serves the given Prometheus registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(srv *Server) {
		srv.Gatherer = g
	}
}

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(srv *Server) {
		if logger != nil {
			srv.Logger = logger
		}
	}
}

// NewHandler creates the diagnostics API for ctrl.
//
//	GET  /healthz
//	GET  /metrics
//	GET  /v1/feedback
//	GET  /v1/modes
//	GET  /v1/stream (WebSocket)
//	POST /v1/command
//	POST /v1/release
func NewHandler(ctrl ports.Controller, opts ...Option) http.Handler {
	server := &Server{
		Controller:     ctrl,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		StreamInterval: defaultStreamInterval,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/healthz", server.Health)
	if server.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Get("/feedback", server.Feedback)
		r.Get("/modes", server.Modes)
		r.Get("/stream", server.Stream)
		r.Post("/command", server.Command)
		r.Post("/release", server.Release)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz. It reports the active mode so that probes can
// tell a started controller from one that is still booting.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	snap := s.Controller.Snapshot()
	status := http.StatusOK
	state := "ok"
	if snap.Mode == "" {
		status = http.StatusServiceUnavailable
		state = "starting"
	}
	s.writeJSON(w, status, map[string]any{
		"status":  state,
		"mode":    snap.Mode,
		"latched": snap.Latched,
	})
}

// Feedback handles GET /v1/feedback.
func (s *Server) Feedback(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Controller.Snapshot())
}

// Modes handles GET /v1/modes.
func (s *Server) Modes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Controller.Modes())
}

// CommandRequest is the body of POST /v1/command.
type CommandRequest struct {
	Mode     domain.ModeName `json:"mode"`
	Velocity [3]float64      `json:"velocity"`
}

// Command handles POST /v1/command.
func (s *Server) Command(w http.ResponseWriter, r *http.Request) {
	if s.Intents == nil {
		http.Error(w, "Commands are not enabled", http.StatusNotImplemented)
		return
	}
	var body CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Command: Invalid request body", "error", err)
		return
	}
	if body.Mode != "" && !s.known(body.Mode) {
		http.Error(w, "Unknown mode: "+string(body.Mode), http.StatusBadRequest)
		return
	}

	s.Intents.SetIntent(domain.UserIntent{Mode: body.Mode, Velocity: body.Velocity})
	s.writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true})
}

// Release handles POST /v1/release. The release is applied between two ticks,
// so the response reports the latch as last published.
func (s *Server) Release(w http.ResponseWriter, r *http.Request) {
	snap := s.Controller.Snapshot()
	if !snap.Latched {
		s.writeJSON(w, http.StatusConflict, map[string]any{
			"error": domain.ErrNotLatched.Error(),
			"mode":  snap.Mode,
		})
		return
	}
	s.Controller.RequestRelease()
	s.writeJSON(w, http.StatusAccepted, map[string]any{"mode": snap.Mode})
}

func (s *Server) known(name domain.ModeName) bool {
	return slices.ContainsFunc(s.Controller.Modes(), func(m domain.ModeInfo) bool {
		return m.Name == name
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		s.Logger.Error("response encode failed", "error", err)
	}
}
