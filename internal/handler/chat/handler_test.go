package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	model "github.com/zhouzirui/care4u/backend/internal/model/chat"
	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
	chatservice "github.com/zhouzirui/care4u/backend/internal/service/chat"
)

func setupRouter(t *testing.T, responder chatservice.Responder) (*chi.Mux, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService(symptom.NewMemoryStore(symptom.Seed()), responder, chatservice.Options{
		DeliveredDelay: time.Millisecond,
		ComposingDelay: 2 * time.Millisecond,
	})
	t.Cleanup(chatSvc.Close)

	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)
	return r, chatSvc
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler) model.Session {
	t.Helper()
	resp := doJSON(r, http.MethodPost, "/conversations", map[string]any{
		"userId":   "2180601234",
		"symptoms": []string{"fever", "cough"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var session model.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	return session
}

func TestCreateSession(t *testing.T) {
	r, _ := setupRouter(t, nil)
	session := createSession(t, r)

	if session.ID == "" {
		t.Fatal("expected session id")
	}
	if len(session.Messages) != 1 || session.Messages[0].Role != model.RoleAdvisor {
		t.Fatalf("expected advisor greeting, got %+v", session.Messages)
	}
}

func TestCreateSessionMissingUser(t *testing.T) {
	r, _ := setupRouter(t, nil)
	resp := doJSON(r, http.MethodPost, "/conversations", map[string]any{"symptoms": []string{"fever"}})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateSessionInvalidBody(t *testing.T) {
	r, _ := setupRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewBufferString("{"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	r, _ := setupRouter(t, nil)
	resp := doJSON(r, http.MethodGet, "/conversations/missing", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSendMessageAcceptedThenIgnored(t *testing.T) {
	release := make(chan struct{})
	responder := chatservice.ResponderFunc(func(ctx context.Context, contextText string) (string, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return "Rest well.", nil
	})
	r, _ := setupRouter(t, responder)
	session := createSession(t, r)
	path := "/conversations/" + session.ID + "/messages"

	resp := doJSON(r, http.MethodPost, path, map[string]string{"text": "How long to recover?"})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodPost, path, map[string]string{"text": "Hello?"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 while awaiting reply, got %d", resp.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body["status"] != "ignored" {
		t.Fatalf("unexpected body %v", body)
	}

	close(release)
}

func TestSendBlankMessageIgnored(t *testing.T) {
	r, _ := setupRouter(t, nil)
	session := createSession(t, r)

	resp := doJSON(r, http.MethodPost, "/conversations/"+session.ID+"/messages", map[string]string{"text": "   "})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	r, _ := setupRouter(t, nil)
	resp := doJSON(r, http.MethodPost, "/conversations/missing/messages", map[string]string{"text": "hi"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCloseSession(t *testing.T) {
	r, _ := setupRouter(t, nil)
	session := createSession(t, r)

	resp := doJSON(r, http.MethodDelete, "/conversations/"+session.ID, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = doJSON(r, http.MethodGet, "/conversations/"+session.ID, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after close, got %d", resp.Code)
	}
	resp = doJSON(r, http.MethodDelete, "/conversations/"+session.ID, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second close, got %d", resp.Code)
	}
}
