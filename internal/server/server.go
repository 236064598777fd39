// Package server assembles the HTTP surface: routing, middleware, health,
// metrics, and static front-end serving.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shelfd/shelfd/internal/version"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by packages that expose REST routes.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Options configures the server.
type Options struct {
	Addr        string
	StaticDir   string   // Directory served for non-API paths; empty disables.
	RateRPS     int      // Per-IP sustained requests per second on /api/.
	RateBurst   int      // Per-IP burst allowance.
	CORSOrigins []string // Allowed origins; "*" allows any.
}

// Server is the shelfd HTTP server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *zap.Logger
	staticDir  string
}

// New creates a Server, mounts the given route registrars, and wires the
// middleware chain around the mux.
func New(opts Options, logger *zap.Logger, registrars ...RouteRegistrar) *Server {
	mux := http.NewServeMux()

	s := &Server{
		mux:       mux,
		logger:    logger,
		staticDir: opts.StaticDir,
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)
	for _, reg := range registrars {
		reg.RegisterRoutes(mux)
	}

	promReg := prometheus.NewRegistry()
	metrics := newRequestMetrics(promReg)
	mux.Handle("GET /metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

	// Everything the mux doesn't match: JSON 404 for API paths, static
	// front-end files otherwise.
	mux.HandleFunc("/", s.handleFallback)

	rps := opts.RateRPS
	if rps <= 0 {
		rps = 10
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = rps
	}

	var handler http.Handler = mux
	handler = withRateLimit(newIPLimiter(rps, burst), handler)
	handler = withCORS(opts.CORSOrigins, handler)
	handler = withSecurityHeaders(handler)
	handler = withMetrics(metrics, handler)
	handler = withAccessLog(logger, handler)
	handler = withRequestID(handler)
	handler = withRecovery(logger, handler)

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("X-Shelfd-Version", version.Short())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "shelfd",
		"version": version.Map(),
	})
}

// handleFallback handles every path the mux didn't match.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || s.staticDir == "" {
		writeError(w, http.StatusNotFound, msgRouteNotFound)
		return
	}

	// Resolve inside the static dir only; the path has been cleaned by the mux.
	name := filepath.Join(s.staticDir, filepath.FromSlash(strings.TrimPrefix(r.URL.Path, "/")))
	info, err := os.Stat(name)
	if err == nil && info.IsDir() {
		name = filepath.Join(name, "index.html")
		info, err = os.Stat(name)
	}
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, msgRouteNotFound)
		return
	}

	http.ServeFile(w, r, name)
}
