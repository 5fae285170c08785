package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
	"github.com/couchcryptid/fmi-weather-bridge/internal/entity"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// StateSource serves the bridge's latest data. The refresh coordinator
// implements it.
type StateSource interface {
	ReadinessChecker
	Snapshot() (domain.WeatherSnapshot, bool)
	BestTime() domain.BestTimeResult
	Lightning() []domain.LightningObservation
	States() []entity.State
}

// Server exposes health, readiness, metrics, and data HTTP endpoints.
type Server struct {
	httpServer *http.Server
	source     StateSource
	logger     *slog.Logger
}

// NewServer creates the bridge HTTP server.
func NewServer(addr string, source StateSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source: source,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/weather", s.handleWeather)
	mux.HandleFunc("GET /api/v1/lightning", s.handleLightning)
	mux.HandleFunc("GET /api/v1/states", s.handleStates)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.source.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleWeather(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.source.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no weather snapshot available yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot":  snap,
		"best_time": s.source.BestTime(),
	})
}

func (s *Server) handleLightning(w http.ResponseWriter, _ *http.Request) {
	strikes := s.source.Lightning()
	if strikes == nil {
		strikes = []domain.LightningObservation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"strikes": strikes})
}

func (s *Server) handleStates(w http.ResponseWriter, _ *http.Request) {
	states := s.source.States()
	if len(states) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no entity states available yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
