package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/penguin-scatter/internal/app"
	"github.com/couchcryptid/penguin-scatter/internal/domain"
	"github.com/couchcryptid/penguin-scatter/internal/observability"
)

// maxHoverBody bounds the PUT /hover request body.
const maxHoverBody = 4 << 10

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Chart is the state and rendering surface the server exposes.
type Chart interface {
	ReadinessChecker
	Render(w io.Writer) error
	SVG() ([]byte, error)
	State() domain.LoadState
	HoverState() domain.HoverState
	Hover(category string) domain.HoverState
	Unhover() domain.HoverState
	Load(ctx context.Context) error
}

// Server exposes the chart page, the hover endpoints, and the health,
// readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	chart      Chart
	reloads    *rate.Limiter
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the HTTP server and registers its routes.
func NewServer(addr string, chart Chart, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		chart:   chart,
		reloads: rate.NewLimiter(rate.Every(10*time.Second), 1),
		logger:  logger,
		metrics: metrics,
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      alice.New(s.recoverPanic, s.instrument).Then(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /chart.svg", s.handleSVG)
	mux.HandleFunc("GET /hover", s.handleGetHover)
	mux.HandleFunc("PUT /hover", s.handlePutHover)
	mux.HandleFunc("DELETE /hover", s.handleDeleteHover)
	mux.HandleFunc("POST /reload", s.handleReload)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(chart))
	mux.Handle("GET /metrics", promhttp.Handler())

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

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	var chart bytes.Buffer
	if err := s.chart.Render(&chart); err != nil {
		s.logger.Error("render chart", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	var page bytes.Buffer
	//nolint:gosec // the fragment is generated SVG with escaped text
	if err := pageTemplate.Execute(&page, pageData{Chart: template.HTML(chart.String())}); err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = page.WriteTo(w)
}

func (s *Server) handleSVG(w http.ResponseWriter, _ *http.Request) {
	b, err := s.chart.SVG()
	if errors.Is(err, domain.ErrNotLoaded) {
		w.Header().Set("Retry-After", "1")
		http.Error(w, indicator(s.chart.State()), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		s.logger.Error("render chart", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b)
}

// hoverRequest is the PUT /hover body.
type hoverRequest struct {
	Category string `json:"category"`
}

// hoverResponse reports the hover state after a request.
type hoverResponse struct {
	State    string `json:"state"`
	Category string `json:"category,omitempty"`
}

func newHoverResponse(h domain.HoverState) hoverResponse {
	c, ok := h.Category()
	if !ok {
		return hoverResponse{State: "idle"}
	}
	return hoverResponse{State: "focused", Category: c}
}

func (s *Server) handleGetHover(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newHoverResponse(s.chart.HoverState()))
}

func (s *Server) handlePutHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxHoverBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid hover request: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newHoverResponse(s.chart.Hover(req.Category)))
}

func (s *Server) handleDeleteHover(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newHoverResponse(s.chart.Unhover()))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if !s.reloads.Allow() {
		w.Header().Set("Retry-After", "10")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "reload already requested recently"})
		return
	}
	if err := s.chart.Load(r.Context()); err != nil {
		s.logger.Warn("reload failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	state := s.chart.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"version": state.Dataset.Version,
		"report":  state.Dataset.Report,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// indicator is the plain-text stand-in for the chart while it cannot be drawn.
func indicator(state domain.LoadState) string {
	if state.Phase == domain.Failed && state.Err != nil {
		return app.ErrorIndicator + ": " + state.Err.Error()
	}
	return app.LoadingIndicator
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
