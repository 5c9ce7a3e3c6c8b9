// Package service exposes the scoring pipeline over HTTP: a JSON scoring
// endpoint, a health check, and Prometheus metrics.
package service

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/caseflow/escalate/errors"
	"github.com/caseflow/escalate/pipeline"
)

// Server routes scoring traffic to a loaded model bundle.
type Server struct {
	scorer *pipeline.Scorer
	logger *zap.SugaredLogger

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

// New builds a server around a scorer. Each server carries its own metrics
// registry.
func New(scorer *pipeline.Scorer, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "escalate_score_requests_total",
		Help: "Scoring requests by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "escalate_score_seconds",
		Help:    "Scoring request latency.",
		Buckets: prometheus.DefBuckets,
	})
	registry.MustRegister(requests, latency)

	return &Server{
		scorer:   scorer,
		logger:   logger,
		registry: registry,
		requests: requests,
		latency:  latency,
	}
}

// Handler returns the routed HTTP handler with access logging and panic
// recovery.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/score", s.handleScore).Methods("POST")
	r.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")

	var h http.Handler = r
	h = handlers.CombinedLoggingHandler(accessLogWriter{logger: s.logger}, h)
	return handlers.RecoveryHandler()(h)
}

// accessLogWriter routes gorilla's access-log lines into zap.
type accessLogWriter struct {
	logger *zap.SugaredLogger
}

func (w accessLogWriter) Write(p []byte) (int, error) {
	w.logger.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// ListenAndServe serves until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Infow("scoring service listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

type scoreResponse struct {
	Escalated   int     `json:"escalated"`
	Probability float64 `json:"probability"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var rec pipeline.ComplaintRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		s.requests.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error()})
		return
	}

	label, prob, err := s.scorer.ScoreProba(rec)
	if err != nil {
		if errors.IsInput(err) {
			s.requests.WithLabelValues("bad_request").Inc()
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.requests.WithLabelValues("error").Inc()
		s.logger.Errorw("scoring failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal scoring error"})
		return
	}

	s.requests.WithLabelValues("ok").Inc()
	s.latency.Observe(time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, scoreResponse{Escalated: label, Probability: prob})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"bundle_version": s.scorer.Bundle().Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
