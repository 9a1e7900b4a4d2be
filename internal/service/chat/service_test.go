package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	model "github.com/zhouzirui/care4u/backend/internal/model/chat"
	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
	chat "github.com/zhouzirui/care4u/backend/internal/service/chat"
)

func newService(responder chat.Responder) *chat.Service {
	return chat.NewService(symptom.NewMemoryStore(symptom.Seed()), responder, chat.Options{
		DeliveredDelay: time.Millisecond,
		ComposingDelay: 2 * time.Millisecond,
	})
}

func TestServiceCreateAndGetSession(t *testing.T) {
	svc := newService(nil)
	defer svc.Close()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "2180601234", []string{"breath", "unknown", "fever"})
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}
	if got.ID != session.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, session.ID)
	}
	if len(got.Symptoms) != 2 || got.Symptoms[0] != "Breathing" || got.Symptoms[1] != "Fever" {
		t.Fatalf("unexpected symptom titles: %v", got.Symptoms)
	}
	if !got.Priority {
		t.Fatal("expected priority session for breathing difficulty")
	}
}

func TestServiceCreateSessionRequiresUser(t *testing.T) {
	svc := newService(nil)
	defer svc.Close()

	if _, err := svc.CreateSession(context.Background(), "  ", nil); !errors.Is(err, chat.ErrUserRequired) {
		t.Fatalf("expected ErrUserRequired, got %v", err)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := newService(nil)
	defer svc.Close()

	if _, err := svc.GetSession(context.Background(), "missing"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Send(context.Background(), "missing", "hi"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on send, got %v", err)
	}
}

func TestServiceSendCompletesTurn(t *testing.T) {
	responder := chat.ResponderFunc(func(ctx context.Context, contextText string) (string, error) {
		return "Stay hydrated.", nil
	})
	svc := newService(responder)
	defer svc.Close()
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "u1", []string{"cough"})
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	session, err := svc.Session(created.ID)
	if err != nil {
		t.Fatalf("Session err: %v", err)
	}
	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	accepted, err := svc.Send(ctx, created.ID, "What to eat?")
	if err != nil || !accepted {
		t.Fatalf("Send = %v, %v", accepted, err)
	}

	deadline := time.After(2 * time.Second)
	for done := false; !done; {
		select {
		case ev := <-events:
			done = ev.Type == model.EventIdle
		case <-deadline:
			t.Fatal("timed out waiting for turn to complete")
		}
	}

	snap, _ := svc.GetSession(ctx, created.ID)
	last := snap.Messages[len(snap.Messages)-1]
	if last.Role != model.RoleAdvisor || last.Text != "Stay hydrated." {
		t.Fatalf("unexpected advisor reply: %+v", last)
	}
}

func TestServiceCloseSession(t *testing.T) {
	svc := newService(nil)
	defer svc.Close()
	ctx := context.Background()

	created, _ := svc.CreateSession(ctx, "u1", nil)
	session, _ := svc.Session(created.ID)

	if err := svc.CloseSession(ctx, created.ID); err != nil {
		t.Fatalf("CloseSession err: %v", err)
	}
	if !session.Snapshot().Closed {
		t.Fatal("expected session torn down")
	}
	if _, err := svc.GetSession(ctx, created.ID); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected closed session to be forgotten, got %v", err)
	}
	if err := svc.CloseSession(ctx, created.ID); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second close, got %v", err)
	}
}
