package stream

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
	chatservice "github.com/zhouzirui/care4u/backend/internal/service/chat"
)

func setupServer(t *testing.T) (*httptest.Server, *chatservice.Service) {
	t.Helper()
	responder := chatservice.ResponderFunc(func(ctx context.Context, contextText string) (string, error) {
		return "Drink warm fluids.", nil
	})
	chatSvc := chatservice.NewService(symptom.NewMemoryStore(symptom.Seed()), responder, chatservice.Options{
		DeliveredDelay: time.Millisecond,
		ComposingDelay: 2 * time.Millisecond,
	})

	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		chatSvc.Close()
		srv.Close()
	})
	return srv, chatSvc
}

func readEventNames(t *testing.T, scanner *bufio.Scanner, until string) []string {
	t.Helper()
	var names []string
	for scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			names = append(names, name)
			if name == until {
				return names
			}
		}
	}
	t.Fatalf("stream ended before %q event, saw %v", until, names)
	return nil
}

func TestEventsStreamTurnAndTeardown(t *testing.T) {
	srv, chatSvc := setupServer(t)
	ctx := context.Background()

	session, err := chatSvc.CreateSession(ctx, "u1", []string{"fever"})
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	resp, err := http.Get(srv.URL + "/conversations/" + session.ID + "/events")
	if err != nil {
		t.Fatalf("GET events err: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}

	scanner := bufio.NewScanner(resp.Body)
	if names := readEventNames(t, scanner, "snapshot"); len(names) != 1 {
		t.Fatalf("expected snapshot first, got %v", names)
	}

	if ok, err := chatSvc.Send(ctx, session.ID, "What to eat?"); err != nil || !ok {
		t.Fatalf("Send = %v, %v", ok, err)
	}

	names := readEventNames(t, scanner, "idle")
	if names[0] != "message" {
		t.Fatalf("expected user message event first, got %v", names)
	}

	if err := chatSvc.CloseSession(ctx, session.ID); err != nil {
		t.Fatalf("CloseSession err: %v", err)
	}
	readEventNames(t, scanner, "closed")
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "event: ") {
			t.Fatalf("unexpected event after teardown: %s", scanner.Text())
		}
	}
}

func TestEventsUnknownSession(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/conversations/missing/events")
	if err != nil {
		t.Fatalf("GET events err: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
