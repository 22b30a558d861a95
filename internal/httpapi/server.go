// Package httpapi serves the dashboard views as a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mlbvalue-mcp/internal/dashboard"
	"mlbvalue-mcp/internal/dataset"
	"mlbvalue-mcp/internal/metrics"
	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// Options configures the HTTP adapter.
type Options struct {
	// MCP, when set, is mounted at /mcp (streamable HTTP transport).
	MCP     http.Handler
	Metrics *Metrics
	// RequestTimeout bounds each API call; zero disables the bound.
	RequestTimeout time.Duration
}

// Server is the HTTP front of a dashboard.Service.
type Server struct {
	svc      *dashboard.Service
	validate *validator.Validate
	metrics  *Metrics
	mcp      http.Handler
	timeout  time.Duration
	now      func() time.Time
}

// New creates the adapter. A nil Metrics gets a fresh registry.
func New(svc *dashboard.Service, opts Options) *Server {
	m := opts.Metrics
	if m == nil {
		m = NewMetrics()
	}
	return &Server{
		svc:      svc,
		validate: newValidator(),
		metrics:  m,
		mcp:      opts.MCP,
		timeout:  opts.RequestTimeout,
		now:      time.Now,
	}
}

// Router builds the complete route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)

	r.Handle("/metrics", s.metrics.Handler())
	if s.mcp != nil {
		r.Handle("/mcp", s.mcp)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		if s.timeout > 0 {
			r.Use(middleware.Timeout(s.timeout))
		}
		s.RegisterRoutes(r)
	})
	return r
}

// RegisterRoutes registers the API routes on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Get("/overview", s.Overview)
	r.Route("/players", func(r chi.Router) {
		r.Get("/", s.Players)
		r.Get("/export.csv", s.ExportCSV)
		r.Get("/compare", s.Compare)
	})
	r.Get("/leaders/{metric}", s.Leaders)
	r.Get("/anomalies", s.Anomalies)
	r.Route("/teams", func(r chi.Router) {
		r.Get("/", s.Teams)
		r.Get("/psi", s.TeamPSI)
	})
	r.Get("/positions", s.Positions)
	r.Get("/inequality", s.Inequality)
	r.Get("/regression", s.Regression)
	r.Get("/tpm", s.TPM)
	r.Post("/reload", s.Reload)
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var unknown *table.UnknownColumnError
	switch {
	case errors.Is(err, dataset.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, stats.ErrInsufficientData), errors.Is(err, stats.ErrSingular):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadParam),
		errors.Is(err, dashboard.ErrInvalidFilter),
		errors.Is(err, dashboard.ErrUnknownColumn),
		errors.Is(err, metrics.ErrMissingMeasure),
		errors.As(err, &unknown):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	ev := log.Debug()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).Str("request_id", RequestIDFrom(r.Context())).Int("status", status).Msg("API call failed")

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error(), RequestID: RequestIDFrom(r.Context())})
}
