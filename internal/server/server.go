// Package server exposes the HTTP API. Handlers decode and validate
// requests, resolve the Deriv token, invoke the domain services and
// translate their errors into status codes.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"tradequest-server/internal/coach"
	"tradequest-server/internal/kv"
	"tradequest-server/internal/logger"
	"tradequest-server/internal/onboarding"
	"tradequest-server/internal/quest"
	"tradequest-server/internal/session"
	"tradequest-server/internal/store"
)

// Server handles HTTP API requests.
type Server struct {
	pipeline   *session.Pipeline
	coach      *coach.Service
	quests     *quest.Generator
	onboarding *onboarding.Processor
	store      kv.Store
	cfg        *store.Config
}

func New(pipeline *session.Pipeline, coachSvc *coach.Service, quests *quest.Generator, onboardingProc *onboarding.Processor, kvStore kv.Store, cfg *store.Config) *Server {
	return &Server{
		pipeline:   pipeline,
		coach:      coachSvc,
		quests:     quests,
		onboarding: onboardingProc,
		store:      kvStore,
		cfg:        cfg,
	}
}

// Handler builds the routing table with middleware applied. The caller
// owns the http.Server wrapping it.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/trades", s.handleGetTrades)
	mux.HandleFunc("POST /api/coach/analyze", s.handleCoachAnalyze)
	mux.HandleFunc("POST /api/coach/message", s.handleCoachMessage)
	mux.HandleFunc("POST /api/quest/generate", s.handleQuestGenerate)
	mux.HandleFunc("POST /api/onboarding/process", s.handleOnboardingProcess)

	mux.HandleFunc("GET /api/token", s.handleTokenStatus)
	mux.HandleFunc("POST /api/token", s.handleTokenSet)
	mux.HandleFunc("DELETE /api/token", s.handleTokenClear)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// corsMiddleware keeps the API usable from the browser extension, which
// sends preflighted POSTs with custom headers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Deriv-Token")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug(r.Context(), "HTTP request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
