package triage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	triageService "github.com/zhouzirui/care4u/backend/internal/service/triage"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(triageService.NewEngine()).RegisterRoutes(r)
	return r
}

func postTriage(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/triage", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	setupRouter().ServeHTTP(resp, req)
	return resp
}

func TestResolveFluPattern(t *testing.T) {
	resp := postTriage(t, `{"symptoms":["fever","cough","fatigue"],"severity":"mild","duration":"long"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got["type"] != "Flu Pattern" || got["severity"] != "moderate" {
		t.Fatalf("unexpected verdict %v", got)
	}
	if got["escalate"] != false {
		t.Fatalf("only high severity escalates: %v", got)
	}
	if got["summary"] != "Assessed: Flu Pattern. Severity: moderate." {
		t.Fatalf("unexpected summary %v", got["summary"])
	}
	if got["durationLabel"] != "3+ Days" {
		t.Fatalf("unexpected duration label %v", got["durationLabel"])
	}
	timeline, _ := got["timeline"].(map[string]any)
	if timeline["period"] != "7+ days" {
		t.Fatalf("unexpected timeline %v", timeline)
	}
}

func TestResolveBreathingEscalates(t *testing.T) {
	resp := postTriage(t, `{"symptoms":["breath"]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got["severity"] != "high" {
		t.Fatalf("expected high severity, got %v", got)
	}
	if got["escalate"] != true || got["emergency"] != true {
		t.Fatalf("breathing difficulty must escalate as an emergency: %v", got)
	}
}

func TestResolveDefaultsToMildShort(t *testing.T) {
	resp := postTriage(t, `{"symptoms":[]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got["type"] != "Personal Viral Profile" || got["severity"] != "mild" {
		t.Fatalf("unexpected fallback verdict %v", got)
	}
	if got["escalate"] != false || got["emergency"] != false {
		t.Fatalf("mild fallback must not escalate: %v", got)
	}
}

func TestResolveRejectsInvalidInput(t *testing.T) {
	cases := []string{
		`{"symptoms":["fever"],"severity":"extreme"}`,
		`{"symptoms":["fever"],"duration":"forever"}`,
		`not json`,
	}
	for _, body := range cases {
		if resp := postTriage(t, body); resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.Code)
		}
	}
}
