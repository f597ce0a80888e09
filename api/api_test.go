package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Star2578/bap-test/internal/config"
	"github.com/Star2578/bap-test/internal/store"
	"github.com/Star2578/bap-test/model"
)

// stubModel answers every prompt with a fixed courteous response.
type stubModel struct{}

func (stubModel) Name() string { return "stub" }

func (stubModel) ModelID() string { return "stub-1" }

func (stubModel) Generate(_ context.Context, prompt string) (string, error) {
	return "Thank you for asking, I'm happy to help with that.", nil
}

func newTestServer(t *testing.T, st store.Store) *Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("BAP_API_KEY", "")
	t.Setenv("BAP_DISABLE_AUTH", "true")

	s, err := NewServer(config.Default(), st)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	s.resolveModel = func(provider string) (model.Model, error) {
		return stubModel{}, nil
	}
	return s
}

func newMemoryStore(t *testing.T) store.Store {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusOK)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field: %v", body["status"])
	}
}

func TestHandleGetCorpus(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/corpus", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Version string         `json:"version"`
		Total   int            `json:"total"`
		Counts  map[string]int `json:"counts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total == 0 || body.Version == "" {
		t.Fatalf("empty corpus in response: %+v", body)
	}
	for _, m := range []string{"bias", "accuracy", "politeness"} {
		if body.Counts[m] == 0 {
			t.Fatalf("no %s prompts reported", m)
		}
	}
}

func TestHandleEvaluate(t *testing.T) {
	st := newMemoryStore(t)
	s := newTestServer(t, st)

	payload := `{"provider":"stub","save":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body struct {
		RunID  string `json:"run_id"`
		Result struct {
			Bias       float64 `json:"bias"`
			Accuracy   float64 `json:"accuracy"`
			Politeness float64 `json:"politeness"`
			PEI        float64 `json:"PEI"`
		} `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.RunID == "" {
		t.Fatalf("save requested but no run_id returned")
	}
	for name, v := range map[string]float64{
		"bias":       body.Result.Bias,
		"accuracy":   body.Result.Accuracy,
		"politeness": body.Result.Politeness,
		"PEI":        body.Result.PEI,
	} {
		if v < 0 || v > 1 {
			t.Fatalf("%s out of range: %v", name, v)
		}
	}

	// The saved run is retrievable and carries the adapter identity.
	getReq := httptest.NewRequest(http.MethodGet, "/api/runs/"+body.RunID, nil)
	getRec := httptest.NewRecorder()
	s.router.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get run: got %d want %d", getRec.Code, http.StatusOK)
	}
	var saved struct {
		Provider string
		Model    string
	}
	if err := json.NewDecoder(getRec.Body).Decode(&saved); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if saved.Provider != "stub" {
		t.Fatalf("saved provider: got %q want %q", saved.Provider, "stub")
	}
	if saved.Model != "stub-1" {
		t.Fatalf("saved model: got %q want %q", saved.Model, "stub-1")
	}
}

func TestHandleEvaluateInvalidWeights(t *testing.T) {
	s := newTestServer(t, nil)

	payload := `{"provider":"stub","weights":{"bias":2}}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleEvaluateBadBody(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleRunsWithoutStore(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/api/runs", "/api/runs/some-id"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: got %d want %d", path, rec.Code, http.StatusServiceUnavailable)
		}
	}
}

func TestHandleGetRunNotFound(t *testing.T) {
	s := newTestServer(t, newMemoryStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/runs/absent", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleListRunsBadLimit(t *testing.T) {
	s := newTestServer(t, newMemoryStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=zero", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("BAP_API_KEY", "secret")
	t.Setenv("BAP_DISABLE_AUTH", "")

	s, err := NewServer(config.Default(), nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	{
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("missing key: got %d want %d", rec.Code, http.StatusUnauthorized)
		}
	}
	{
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("X-API-Key", "wrong")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("wrong key: got %d want %d", rec.Code, http.StatusUnauthorized)
		}
	}
	{
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("X-API-Key", "secret")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("valid key: got %d want %d", rec.Code, http.StatusOK)
		}
	}
}

func TestNewServerRequiresAuthConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("BAP_API_KEY", "")
	t.Setenv("BAP_DISABLE_AUTH", "")

	if _, err := NewServer(config.Default(), nil); err == nil {
		t.Fatalf("expected error when no auth configuration is present")
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("BAP_API_KEY", "")
	t.Setenv("BAP_DISABLE_AUTH", "true")
	t.Setenv("BAP_CORS_ORIGINS", "https://eval.example.com")

	s, err := NewServer(config.Default(), nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	{
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "https://eval.example.com")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://eval.example.com" {
			t.Fatalf("allow-origin: got %q", got)
		}
	}
	{
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "https://other.example.com")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("disallowed origin got header %q", got)
		}
	}
	{
		req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
		req.Header.Set("Origin", "https://eval.example.com")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("preflight: got %d want %d", rec.Code, http.StatusNoContent)
		}
	}
}

func TestNewServerNilConfig(t *testing.T) {
	if _, err := NewServer(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
