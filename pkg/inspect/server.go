package inspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the inspect server.
type Config struct {
	// Address is the listen address (default ":6390").
	Address string

	// Namespace is the Prometheus metrics namespace (default "ripple").
	Namespace string

	// StreamInterval is how often the WebSocket stream emits a snapshot
	// (default 1s).
	StreamInterval time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns the default inspect server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:        ":6390",
		Namespace:      "ripple",
		StreamInterval: time.Second,
	}
}

// Server serves runtime counters over HTTP.
type Server struct {
	source   Source
	config   *Config
	registry *prometheus.Registry
	upgrader websocket.Upgrader

	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a Server reporting on source.
func NewServer(source Source, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	} else {
		defaults := DefaultConfig()
		if config.Address == "" {
			config.Address = defaults.Address
		}
		if config.Namespace == "" {
			config.Namespace = defaults.Namespace
		}
		if config.StreamInterval <= 0 {
			config.StreamInterval = defaults.StreamInterval
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector(source, config.Namespace))

	return &Server{
		source:   source,
		config:   config,
		registry: registry,
		logger:   logger,
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/stats", s.handleStats)
	r.Get("/live", s.handleLive)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspect server listening", "addr", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Stats()); err != nil {
		s.logger.Error("inspect: encoding stats", "err", err)
	}
}

// handleLive upgrades to a WebSocket and streams a stats snapshot every
// StreamInterval until the client goes away.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("inspect: websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	// Reads are discarded; they only surface the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.config.StreamInterval)
	defer ticker.Stop()

	// First snapshot immediately so clients have data before the first
	// interval elapses.
	if err := conn.WriteJSON(s.source.Stats()); err != nil {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteJSON(s.source.Stats()); err != nil {
				return
			}
		}
	}
}
