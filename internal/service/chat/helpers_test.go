package chat

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/zhouzirui/care4u/backend/internal/model/chat"
)

type manualTimer struct {
	sched   *manualScheduler
	at      time.Duration
	fn      func()
	fired   bool
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// manualScheduler fires callbacks only when the test advances its clock.
type manualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	pending []*manualTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{sched: s, at: s.now + d, fn: f}
	s.pending = append(s.pending, t)
	return t
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	remaining := s.pending[:0]
	for _, t := range s.pending {
		switch {
		case t.stopped:
		case t.at <= s.now:
			t.fired = true
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	s.pending = remaining
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			count++
		}
	}
	return count
}

type reply struct {
	text string
	err  error
}

// stubResponder hands each call to the test and waits for its reply.
type stubResponder struct {
	calls   chan string
	replies chan reply
}

func newStubResponder() *stubResponder {
	return &stubResponder{
		calls:   make(chan string, 4),
		replies: make(chan reply, 4),
	}
}

func (r *stubResponder) Respond(ctx context.Context, contextText string) (string, error) {
	r.calls <- contextText
	select {
	case rep := <-r.replies:
		return rep.text, rep.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *stubResponder) awaitCall(t *testing.T) string {
	t.Helper()
	select {
	case text := <-r.calls:
		return text
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for responder call")
		return ""
	}
}

func testOptions(sched Scheduler) Options {
	return Options{
		DeliveredDelay:   800 * time.Millisecond,
		ComposingDelay:   1500 * time.Millisecond,
		ResponderTimeout: time.Minute,
		Scheduler:        sched,
	}
}

// waitFor drains events until one of the wanted type arrives and returns
// everything seen so far, including it.
func waitFor(t *testing.T, events <-chan chat.Event, want chat.EventType) []chat.Event {
	t.Helper()
	var seen []chat.Event
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("event channel closed before %s", want)
			}
			seen = append(seen, ev)
			if ev.Type == want {
				return seen
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", want)
			return nil
		}
	}
}

func statusesFor(events []chat.Event, messageID string) []chat.DeliveryStatus {
	var statuses []chat.DeliveryStatus
	for _, ev := range events {
		switch {
		case ev.Type == chat.EventMessage && ev.Message != nil && ev.Message.ID == messageID:
			statuses = append(statuses, ev.Message.Status)
		case ev.Type == chat.EventStatus && ev.MessageID == messageID:
			statuses = append(statuses, ev.Status)
		}
	}
	return statuses
}

// historyResponder records the history each call received.
type historyResponder struct {
	*stubResponder
	histories chan []chat.Message
}

func newHistoryResponder() *historyResponder {
	return &historyResponder{
		stubResponder: newStubResponder(),
		histories:     make(chan []chat.Message, 4),
	}
}

func (r *historyResponder) RespondWithHistory(ctx context.Context, history []chat.Message, contextText string) (string, error) {
	r.histories <- history
	return r.stubResponder.Respond(ctx, contextText)
}
