// Package server exposes dashboard sessions over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/KaramelBytes/womenmatters/internal/chart"
	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"github.com/KaramelBytes/womenmatters/internal/filter"
	"github.com/KaramelBytes/womenmatters/internal/render"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures the API.
type Options struct {
	PreviewRows         int
	DefaultCountryCount int
}

// Server routes API requests to a Hub.
type Server struct {
	hub    *Hub
	src    *dataset.Source
	opts   Options
	logger *zap.Logger
	router *mux.Router

	cleaned *dataset.Dataset
	report  dataset.CleanReport
	options filter.Options
}

// New builds the API for hub. The dataset is loaded and cleaned here so that
// an unavailable file stops the server before it listens.
func New(src *dataset.Source, hub *Hub, opts Options, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cleaned, rep, err := src.Cleaned()
	if err != nil {
		return nil, err
	}
	s := &Server{
		hub:     hub,
		src:     src,
		opts:    opts,
		logger:  logger.Named("http"),
		cleaned: cleaned,
		report:  rep,
		options: filter.OptionsFor(cleaned),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.cors, s.instrument)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/options", s.handleOptions).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/cleaning", s.handleCleaning).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/preview", s.handlePreview).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/charts", s.handleCatalog).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}", s.handleCloseSession).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/dashboard", s.handleDashboard).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/apply", s.handleApply).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/charts/{chart}", s.handlePanel).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/ws/{id}", s.handleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router = r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// HTTPServer wraps the handler with the configured timeouts.
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
}

func (s *Server) cors(next http.Handler) http.Handler {
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

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the hijacker for WebSocket upgrades.
func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		if route == "/ws/{id}" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrChartNotFound):
		return http.StatusNotFound
	case errors.Is(err, filter.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrHubStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, dataset.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"options":  s.options,
		"defaults": filter.Defaults(s.options, s.opts.DefaultCountryCount),
	})
}

func (s *Server) handleCleaning(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.report)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	n := s.opts.PreviewRows
	if q := r.URL.Query().Get("rows"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rows must be a non-negative integer"})
			return
		}
		n = v
	}
	raw, err := s.src.Raw()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, render.NewPreview(raw, s.cleaned, n))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"charts":       chart.Catalog(),
		"key_insights": chart.KeyInsights(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.hub.CreateSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("session created", zap.String("session", view.SessionID))
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.hub.CloseSession(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := s.hub.Dashboard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	p, err := s.hub.Panel(r.Context(), vars["id"], vars["chart"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var p filter.Params
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("decode filters: %v", err)})
		return
	}
	out, err := s.hub.Apply(r.Context(), mux.Vars(r)["id"], p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
