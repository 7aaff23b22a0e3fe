// Package api provides the HTTP API for running colony projections and
// browsing stored runs. Every endpoint is public; only simulate is rate
// limited.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/colonysim/internal/params"
	"github.com/talgya/colonysim/internal/persistence"
	"github.com/talgya/colonysim/internal/report"
	"github.com/talgya/colonysim/internal/runner"
)

// maxBodyBytes bounds a simulate request body.
const maxBodyBytes = 1 << 20

// Server serves projections over HTTP.
type Server struct {
	DB          *persistence.DB // Optional. Nil disables run storage.
	Port        int
	CORSOrigins []string
	RateLimit   int           // simulate requests per minute per IP; 0 = unlimited
	Workers     int           // Monte Carlo workers; 0 = GOMAXPROCS
	Timeout     time.Duration // Monte Carlo batch timeout; 0 = none

	started time.Time
	srv     *http.Server
}

// Handler builds the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	if s.started.IsZero() {
		s.started = time.Now()
	}

	var limiter *RateLimiter
	if s.RateLimit > 0 {
		limiter = NewRateLimiter(s.RateLimit, time.Minute)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/defaults", s.handleDefaults)
	mux.HandleFunc("/api/v1/simulate", RateLimitMiddleware(limiter, s.handleSimulate))
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunRoutes)

	return corsMiddleware(s.CORSOrigins, mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "storage", s.DB != nil, "rate_limit", s.RateLimit)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Localhost dev servers are always allowed.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range origins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"name":    "colonysim",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"storage": s.DB != nil,
	}
	if s.DB != nil {
		if n, err := s.DB.CountRuns(); err == nil {
			status["runs_stored"] = n
		}
	}
	writeJSON(w, status)
}

// handleDefaults returns the parameter schema with defaults and ranges.
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"defaults": params.Defaults(),
		"fields":   params.Fields(),
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req params.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json", "")
		return
	}

	p, err := params.FromRequest(req)
	if err != nil {
		writeRunError(w, err)
		return
	}

	resp, err := runner.Run(r.Context(), p, runner.Options{
		MonteCarlo: req.UseMonteCarlo,
		Seed:       req.Seed,
		Workers:    s.Workers,
		Timeout:    s.Timeout,
	})
	if err != nil {
		writeRunError(w, err)
		return
	}

	if s.DB != nil {
		if _, err := s.DB.SaveRun(p, resp); err != nil {
			// The projection itself succeeded; storage is best effort.
			slog.Error("failed to save run", "error", err)
		}
	}
	writeJSON(w, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "run storage disabled", "")
		return
	}
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		slog.Error("list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs", "")
		return
	}
	writeJSON(w, runs)
}

// handleRunRoutes dispatches GET /api/v1/runs/:id and /api/v1/runs/:id/chart.png.
func (s *Server) handleRunRoutes(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "run storage disabled", "")
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/runs/"), "/")
	id := parts[0]
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing run id", "")
		return
	}

	run, err := s.DB.GetRun(id)
	if errors.Is(err, persistence.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found", "")
		return
	}
	if err != nil {
		slog.Error("load run", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load run", "")
		return
	}

	if len(parts) > 1 && parts[1] == "chart.png" {
		w.Header().Set("Content-Type", "image/png")
		if err := report.WriteChart(w, run.Response); err != nil {
			slog.Error("render chart", "id", id, "error", err)
		}
		return
	}
	writeJSON(w, run)
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeRunError maps projection errors to status codes. Validation failures
// name the offending field.
func writeRunError(w http.ResponseWriter, err error) {
	var ve *params.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error(), ve.Field)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "simulation timed out", "")
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "simulation cancelled", "")
	default:
		slog.Error("simulation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "simulation failed", "")
	}
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: msg, Field: field})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
