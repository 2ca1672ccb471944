package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"tradequest-server/internal/coach"
	"tradequest-server/internal/deriv"
	"tradequest-server/internal/kv"
	"tradequest-server/internal/logger"
	"tradequest-server/internal/onboarding"
	"tradequest-server/internal/quest"
	"tradequest-server/internal/sessionlog"
	"tradequest-server/internal/types"
)

// resolveToken finds the Deriv API token for a request. Precedence:
// explicit X-Deriv-Token header, Authorization bearer, stored token,
// DERIV_API_TOKEN environment. Empty string when none is set; the
// client below turns that into ErrMissingToken.
func (s *Server) resolveToken(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get("X-Deriv-Token")); t != "" {
		return t
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); t != "" {
			return t
		}
	}
	if t, err := s.store.Get(r.Context(), kv.KeyDerivToken); err == nil && t != "" {
		return t
	}
	return strings.TrimSpace(os.Getenv("DERIV_API_TOKEN"))
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	report, err := s.pipeline.Run(r.Context(), s.resolveToken(r))
	if err != nil {
		if errors.Is(err, deriv.ErrMissingToken) {
			writeError(w, http.StatusUnauthorized, "Deriv API token required")
			return
		}
		var apiErr *deriv.APIError
		if errors.As(err, &apiErr) {
			logger.Warn(r.Context(), "Deriv API rejected the request", "code", apiErr.Code)
			writeError(w, http.StatusBadGateway, apiErr.Message)
			return
		}
		logger.ErrorWithErr(r.Context(), "Trade history fetch failed", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch trade history from Deriv")
		return
	}
	if err := sessionlog.Append(report); err != nil {
		logger.Warn(r.Context(), "Session log append failed", "error", err)
	}
	writeJSON(w, http.StatusOK, report)
}

type analyzeRequest struct {
	Trades  []types.Trade      `json:"trades"`
	Stats   types.SessionStats `json:"stats"`
	Profile *types.Profile     `json:"userProfile,omitempty"`
}

// handleCoachAnalyze always answers 200: LLM trouble degrades to the
// coach's static fallback, never to an error the dashboard has to handle.
func (s *Server) handleCoachAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile := req.Profile
	if profile == nil {
		stored, err := onboarding.LoadProfile(r.Context(), s.store)
		if err != nil {
			logger.Warn(r.Context(), "Failed to load stored profile", "error", err)
		} else {
			profile = stored
		}
	}

	analysis := s.coach.Analyze(r.Context(), req.Trades, req.Stats, profile)
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleCoachMessage(w http.ResponseWriter, r *http.Request) {
	var ev coach.MessageEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := s.coach.Message(r.Context(), ev)
	if err != nil {
		logger.ErrorWithErr(r.Context(), "Coach message generation failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate message")
		return
	}
	if msg == "" {
		writeJSON(w, http.StatusOK, map[string]any{"message": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg})
}

func (s *Server) handleQuestGenerate(w http.ResponseWriter, r *http.Request) {
	var req quest.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Profile == nil {
		stored, err := onboarding.LoadProfile(r.Context(), s.store)
		if err == nil {
			req.Profile = stored
		}
	}

	generated, err := s.quests.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, quest.ErrMissingTitle) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.ErrorWithErr(r.Context(), "Quest generation failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate quest")
		return
	}
	writeJSON(w, http.StatusOK, generated)
}

type onboardingRequest struct {
	Responses map[string]any `json:"responses"`
}

type onboardingResponse struct {
	Success  bool          `json:"success"`
	Analysis types.Profile `json:"analysis"`
}

func (s *Server) handleOnboardingProcess(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := s.onboarding.Process(r.Context(), req.Responses)
	if err != nil {
		if errors.Is(err, onboarding.ErrNoResponses) {
			writeError(w, http.StatusBadRequest, "No responses provided")
			return
		}
		logger.ErrorWithErr(r.Context(), "Onboarding processing failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to process onboarding")
		return
	}
	writeJSON(w, http.StatusOK, onboardingResponse{Success: true, Analysis: profile})
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleTokenStatus(w http.ResponseWriter, r *http.Request) {
	_, err := s.store.Get(r.Context(), kv.KeyDerivToken)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Token store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"stored": err == nil})
}

func (s *Server) handleTokenSet(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		writeError(w, http.StatusBadRequest, "Token is required")
		return
	}
	if err := s.store.Set(r.Context(), kv.KeyDerivToken, token); err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to store token", err)
		writeError(w, http.StatusInternalServerError, "Failed to store token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"stored": true})
}

func (s *Server) handleTokenClear(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), kv.KeyDerivToken); err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to clear token", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"stored": false})
}
