package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tradequest-server/internal/coach"
	"tradequest-server/internal/deriv"
	"tradequest-server/internal/kv"
	"tradequest-server/internal/llm/noop"
	"tradequest-server/internal/onboarding"
	"tradequest-server/internal/quest"
	"tradequest-server/internal/session"
	"tradequest-server/internal/store"
)

// stubSource plays the Deriv API: it records the token it was handed and
// returns a canned history or error.
type stubSource struct {
	history *deriv.History
	err     error
	token   string
}

func (s *stubSource) FetchHistory(ctx context.Context, token string, limit int) (*deriv.History, error) {
	s.token = token
	if s.err != nil {
		return nil, s.err
	}
	if strings.TrimSpace(token) == "" {
		return nil, deriv.ErrMissingToken
	}
	return s.history, nil
}

func newTestServer(t *testing.T, src *stubSource) (*Server, kv.Store) {
	t.Helper()
	t.Setenv("SESSION_LOG_DIR", t.TempDir())
	cfg := store.DefaultConfig()
	kvStore := kv.NewMemoryStore()
	completer := noop.New()
	return New(
		session.New(src, cfg.Deriv.HistoryLimit),
		coach.New(completer, cfg),
		quest.NewGenerator(completer),
		onboarding.NewProcessor(completer, kvStore),
		kvStore,
		cfg,
	), kvStore
}

func TestGetTradesReturnsReport(t *testing.T) {
	t.Setenv("DERIV_API_TOKEN", "")
	src := &stubSource{history: &deriv.History{
		Transactions: []deriv.Transaction{
			{TransactionID: 1, BuyPrice: 10, SellPrice: 15, PurchaseTime: 1000, SellTime: 1030, Shortcode: "CALL_R_100_10_S0P_0"},
		},
		Balance: &deriv.AccountBalance{Balance: 500, Currency: "USD"},
	}}
	srv, _ := newTestServer(t, src)

	req := httptest.NewRequest(http.MethodGet, "/api/trades", nil)
	req.Header.Set("X-Deriv-Token", "abc123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if src.token != "abc123" {
		t.Errorf("token passed to source = %q, want abc123", src.token)
	}

	var report struct {
		Stats struct {
			Wins int `json:"wins"`
		} `json:"stats"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if report.Stats.Wins != 1 || report.Currency != "USD" {
		t.Errorf("report = %+v", report)
	}
}

func TestGetTradesMissingTokenIs401(t *testing.T) {
	t.Setenv("DERIV_API_TOKEN", "")
	srv, _ := newTestServer(t, &stubSource{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trades", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestGetTradesUpstreamErrorIs502(t *testing.T) {
	t.Setenv("DERIV_API_TOKEN", "")
	srv, _ := newTestServer(t, &stubSource{err: &deriv.APIError{Code: "InvalidToken", Message: "The token is invalid."}})

	req := httptest.NewRequest(http.MethodGet, "/api/trades", nil)
	req.Header.Set("X-Deriv-Token", "bad")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestGetTradesUsesStoredToken(t *testing.T) {
	t.Setenv("DERIV_API_TOKEN", "")
	src := &stubSource{history: &deriv.History{}}
	srv, kvStore := newTestServer(t, src)
	if err := kvStore.Set(context.Background(), kv.KeyDerivToken, "stored-token"); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trades", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if src.token != "stored-token" {
		t.Errorf("token = %q, want stored-token", src.token)
	}
}

func TestGetTradesHeaderBeatsStoredToken(t *testing.T) {
	t.Setenv("DERIV_API_TOKEN", "")
	src := &stubSource{history: &deriv.History{}}
	srv, kvStore := newTestServer(t, src)
	_ = kvStore.Set(context.Background(), kv.KeyDerivToken, "stored-token")

	req := httptest.NewRequest(http.MethodGet, "/api/trades", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if src.token != "header-token" {
		t.Errorf("token = %q, want header-token", src.token)
	}
}

func TestCoachAnalyzeAlwaysAnswers200(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	body := `{"trades": [], "stats": {}}`
	req := httptest.NewRequest(http.MethodPost, "/api/coach/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var analysis struct {
		DisciplineScore int `json:"disciplineScore"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if analysis.DisciplineScore != 50 {
		t.Errorf("expected fallback analysis, got %s", rec.Body.String())
	}
}

func TestCoachMessageNoProviderIsNull(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	req := httptest.NewRequest(http.MethodPost, "/api/coach/message", strings.NewReader(`{"event_type":"win","amount":5}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"message":null`) {
		t.Errorf("body = %s, want null message", rec.Body.String())
	}
}

func TestQuestGenerateMissingTitleIs400(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	req := httptest.NewRequest(http.MethodPost, "/api/quest/generate", strings.NewReader(`{"questId": 1}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestQuestGenerateNoProviderIs500(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	req := httptest.NewRequest(http.MethodPost, "/api/quest/generate", strings.NewReader(`{"questId": 1, "questTitle": "Risk"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestOnboardingProcessReturnsMockWithoutProvider(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	body := `{"responses": {"q1": "I day trade forex"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/process", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success  bool `json:"success"`
		Analysis struct {
			ExperienceLevel string `json:"experience_level"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Analysis.ExperienceLevel == "" {
		t.Errorf("response = %s", rec.Body.String())
	}
}

func TestOnboardingProcessEmptyIs400(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/process", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTokenLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/token", nil))
	if !strings.Contains(rec.Body.String(), `"stored":false`) {
		t.Errorf("initial status = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(`{"token": "tok-1"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/token", nil))
	if !strings.Contains(rec.Body.String(), `"stored":true`) {
		t.Errorf("status after set = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/token", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/token", nil))
	if !strings.Contains(rec.Body.String(), `"stored":false`) {
		t.Errorf("status after clear = %s", rec.Body.String())
	}
}

func TestTokenSetEmptyIs400(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	req := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(`{"token": "  "}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPreflightGetsCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	req := httptest.NewRequest(http.MethodOptions, "/api/coach/message", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS headers on preflight")
	}
}
