package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/logger"
	"github.com/insurebrain/policy-engine/internal/repository"
	"github.com/insurebrain/policy-engine/internal/services"
	"github.com/insurebrain/policy-engine/pkg/config"
)

func newTestServer(t *testing.T) (*gin.Engine, *services.Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		Environment:   "test",
		PlatformTag:   "insurebrain",
		TopN:          3,
		AuditRetryMax: 3,
	}

	store := catalog.NewStore()
	store.Publish(catalog.DefaultSnapshot())

	svcs := services.NewServices(repository.NewMemoryRepositories(), cfg, store, logger.New())

	r := gin.New()
	SetupRoutes(r, svcs, nil, cfg)
	return r, svcs
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()

	body := `{"email":"advisor@example.com","password":"s3cret-pass"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login returned no token")
	}
	return resp.Token
}

func getWithToken(r *gin.Engine, token, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	return w
}

func recommendationQuery() string {
	q := url.Values{
		"prospectName":    {"Asha Verma"},
		"age":             {"30"},
		"basicSumAssured": {"300000"},
		"policyTerm":      {"15"},

		"premiumPayingTerm": {"10"},
		"budget":            {"10000"},
	}
	return "/api/recommendations?" + q.Encode()
}

func TestRecommendationsRequireAuth(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", recommendationQuery(), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}
}

func TestRecommendationsEndToEnd(t *testing.T) {
	r, svcs := newTestServer(t)
	token := registerAndLogin(t, r)

	w := getWithToken(r, token, recommendationQuery())
	if w.Code != http.StatusOK {
		t.Fatalf("recommendations: got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []struct {
			Insurer         string  `json:"insurer"`
			Name            string  `json:"name"`
			Score           float64 `json:"score"`
			MatchPercentage int     `json:"match_percentage"`
			AIExplanation   string  `json:"ai_explanation"`
			Price           struct {
				TotalPremiumToPay string `json:"totalPremiumToPay"`
			} `json:"price"`
		} `json:"results"`
		ComparativeExplanation string `json:"comparative_explanation"`
		Session                struct {
			Hash  string `json:"hash"`
			Agent string `json:"agent"`
		} `json:"session"`
		Meta struct {
			Platform               string `json:"platform"`
			TotalPoliciesEvaluated int    `json:"total_policies_evaluated"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v\n%s", err, w.Body.String())
	}

	if len(resp.Results) == 0 {
		t.Fatal("expected at least one recommendation from the builtin catalog")
	}
	if len(resp.Results) > 3 {
		t.Errorf("results should be capped at 3, got %d", len(resp.Results))
	}
	for i, result := range resp.Results {
		if result.Score < 0 || result.Score > 1 {
			t.Errorf("result %d score out of range: %f", i, result.Score)
		}
		if result.AIExplanation == "" {
			t.Errorf("result %d has no explanation", i)
		}
		if result.Price.TotalPremiumToPay == "" {
			t.Errorf("result %d has no premium", i)
		}
	}
	if resp.Session.Hash == "" {
		t.Error("response must carry a session hash")
	}
	if resp.Session.Agent != "advisor@example.com" {
		t.Errorf("session agent: got %s", resp.Session.Agent)
	}
	if resp.Meta.Platform != "insurebrain" {
		t.Errorf("platform tag: got %s", resp.Meta.Platform)
	}
	if resp.Meta.TotalPoliciesEvaluated == 0 {
		t.Error("evaluated count should not be zero")
	}
	if resp.ComparativeExplanation == "" {
		t.Error("comparative explanation should not be empty")
	}

	// The audit record lands asynchronously; drain before reading history.
	svcs.Shutdown()

	w = getWithToken(r, token, "/api/sessions")
	if w.Code != http.StatusOK {
		t.Fatalf("sessions: got %d: %s", w.Code, w.Body.String())
	}
	var history struct {
		Sessions []struct {
			SessionHash string `json:"sessionHash"`
			Status      string `json:"status"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("parse sessions: %v", err)
	}
	if len(history.Sessions) != 1 {
		t.Fatalf("expected 1 session record, got %d", len(history.Sessions))
	}
	if history.Sessions[0].SessionHash != resp.Session.Hash {
		t.Errorf("stored hash %s does not match response hash %s",
			history.Sessions[0].SessionHash, resp.Session.Hash)
	}
}

func TestRecommendationsDeterministicHash(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerAndLogin(t, r)

	extract := func(w *httptest.ResponseRecorder) string {
		var resp struct {
			Session struct {
				Hash string `json:"hash"`
			} `json:"session"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("parse response: %v", err)
		}
		return resp.Session.Hash
	}

	first := getWithToken(r, token, recommendationQuery())
	second := getWithToken(r, token, recommendationQuery())
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("requests failed: %d, %d", first.Code, second.Code)
	}
	if extract(first) != extract(second) {
		t.Error("identical requests against the same catalog must produce the same session hash")
	}
}

func TestRecommendationsValidationError(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerAndLogin(t, r)

	w := getWithToken(r, token, "/api/recommendations?age=abc")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error struct {
			Code   string `json:"code"`
			Fields []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code: got %s", resp.Error.Code)
	}
	// Every offending field is reported, not just the first
	if len(resp.Error.Fields) < 3 {
		t.Errorf("expected field errors for prospectName, age and basicSumAssured, got %v",
			resp.Error.Fields)
	}
}

func TestRecommendationsEmptyResultIsOK(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerAndLogin(t, r)

	// No builtin policy issues at age 79
	q := url.Values{
		"prospectName":    {"Asha Verma"},
		"age":             {"79"},
		"basicSumAssured": {"300000"},
	}
	w := getWithToken(r, token, "/api/recommendations?"+q.Encode())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for a no-match outcome, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []json.RawMessage `json:"results"`
		Meta    struct {
			TotalPoliciesEvaluated int `json:"total_policies_evaluated"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected no results, got %d", len(resp.Results))
	}
	// With nothing eligible, the evaluated count falls back to the full
	// catalog size.
	if resp.Meta.TotalPoliciesEvaluated == 0 {
		t.Error("evaluated count should report the catalog size")
	}
}

func TestSessionScopedToAgent(t *testing.T) {
	r, svcs := newTestServer(t)
	token := registerAndLogin(t, r)

	w := getWithToken(r, token, recommendationQuery())
	if w.Code != http.StatusOK {
		t.Fatalf("recommendations: got %d", w.Code)
	}
	var resp struct {
		Session struct {
			Hash string `json:"hash"`
		} `json:"session"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	svcs.Shutdown()

	// A second advisor cannot read the first advisor's record
	body := `{"email":"other@example.com","password":"s3cret-pass"}`
	w2 := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w2, req)
	w2 = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w2, req)
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &login); err != nil {
		t.Fatalf("parse login: %v", err)
	}

	w3 := getWithToken(r, login.Token, "/api/sessions/"+resp.Session.Hash)
	if w3.Code != http.StatusForbidden {
		t.Errorf("expected 403 for another advisor's session, got %d", w3.Code)
	}
}

func TestCatalogReloadRequiresAdmin(t *testing.T) {
	r, _ := newTestServer(t)
	token := registerAndLogin(t, r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/catalog/reload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a non-admin advisor, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health: got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse health: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status: got %v", resp["status"])
	}
	if resp["catalog_version"] != catalog.DefaultVersion {
		t.Errorf("catalog version: got %v", resp["catalog_version"])
	}

	dbState, ok := resp["database"].(map[string]interface{})
	if !ok {
		t.Fatalf("health must report database state, got %v", resp["database"])
	}
	if dbState["status"] != "not_configured" {
		t.Errorf("database status without a database: got %v", dbState["status"])
	}
}
