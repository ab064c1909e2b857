package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/rainfall-normals/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Runner performs one station lookup.
type Runner interface {
	sharedobs.ReadinessChecker
	Run(ctx context.Context, req domain.Request) (domain.Result, error)
}

// Server exposes the lookup API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	runner     Runner
	logger     *slog.Logger
}

// writeMargin is the time left to encode a response once the upstream
// download has used its full timeout.
const writeMargin = 10 * time.Second

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the /v1 lookup routes.
// fetchTimeout is the upstream download timeout; responses may take that long plus writeMargin.
func NewServer(addr string, runner Runner, fetchTimeout time.Duration, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: fetchTimeout + writeMargin,
			IdleTimeout:  60 * time.Second,
		},
		runner: runner,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(runner))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/regions", s.handleRegions)
	mux.HandleFunc("GET /v1/stations/{region}/{code}/rainfall", s.handleRainfall)

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

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Regions())
}

func (s *Server) handleRainfall(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported format %q", format))
		return
	}

	res, err := s.runner.Run(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrUnknownRegion),
		errors.Is(err, domain.ErrInvalidStationCode):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		s.logger.Error("lookup failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	if format == "csv" && res.Outcome.OK() {
		name := domain.ExportFileName(res.Report.Region, res.Report.StationCode)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		if err := domain.WriteCSV(w, res.Ranked); err != nil {
			s.logger.Error("write csv response", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseRequest builds a lookup request from the path and the optional
// threshold query parameters. Missing parameters keep their defaults.
func parseRequest(r *http.Request) (domain.Request, error) {
	req := domain.NewRequest(r.PathValue("region"), r.PathValue("code"))
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *int
	}{
		{"min_year", &req.MinYear},
		{"min_months", &req.MinMonths},
		{"min_years", &req.MinYears},
	} {
		raw := q.Get(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Request{}, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidRequest, p.key)
		}
		*p.dst = v
	}
	return req, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
