package chat

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/zhouzirui/care4u/backend/internal/model/chat"
	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
)

const (
	advisorStaffName = "Dr. Advisor"
	subscriberBuffer = 32
)

// Options controls session pacing. Zero values fall back to the defaults.
type Options struct {
	// DeliveredDelay is how long a user message stays "sent".
	DeliveredDelay time.Duration
	// ComposingDelay is how long before the composing indicator shows.
	ComposingDelay time.Duration
	// ResponderTimeout bounds a single responder call.
	ResponderTimeout time.Duration
	Scheduler        Scheduler
	Now              func() time.Time
}

// DefaultOptions mirrors the pacing of the mobile client.
func DefaultOptions() Options {
	return Options{
		DeliveredDelay:   800 * time.Millisecond,
		ComposingDelay:   1500 * time.Millisecond,
		ResponderTimeout: 30 * time.Second,
		Scheduler:        RealScheduler{},
		Now:              time.Now,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DeliveredDelay <= 0 {
		o.DeliveredDelay = def.DeliveredDelay
	}
	if o.ComposingDelay <= 0 {
		o.ComposingDelay = def.ComposingDelay
	}
	if o.ResponderTimeout <= 0 {
		o.ResponderTimeout = def.ResponderTimeout
	}
	if o.Scheduler == nil {
		o.Scheduler = def.Scheduler
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	return o
}

// SessionConfig seeds a conversation.
type SessionConfig struct {
	ID       string
	UserID   string
	Symptoms []symptom.Symptom
}

// Session is the state machine behind one conversation view. Timer and
// responder completions arrive on their own goroutines; every state change
// is serialised by mu, and nothing is written once the session is closed.
type Session struct {
	id        string
	userID    string
	symptoms  []string
	priority  bool
	createdAt time.Time
	responder Responder
	opts      Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	entropy     *ulid.MonotonicEntropy
	messages    []chat.Message
	history     []chat.Message
	awaiting    bool
	composing   bool
	closed      bool
	turn        int
	timers      []Timer
	subscribers map[int]chan chat.Event
	nextSubID   int
}

// NewSession builds a session and appends the advisor greeting.
func NewSession(cfg SessionConfig, responder Responder, opts Options) *Session {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	titles := make([]string, 0, len(cfg.Symptoms))
	priority := false
	for _, item := range cfg.Symptoms {
		titles = append(titles, item.Title)
		if item.ID == symptom.Breath {
			priority = true
		}
	}

	s := &Session{
		id:          cfg.ID,
		userID:      cfg.UserID,
		symptoms:    titles,
		priority:    priority,
		createdAt:   opts.Now().UTC(),
		responder:   responder,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		subscribers: make(map[int]chan chat.Event),
	}

	s.messages = append(s.messages, chat.Message{
		ID:        s.newIDLocked(),
		Role:      chat.RoleAdvisor,
		Text:      greeting(titles),
		StaffName: advisorStaffName,
		Status:    chat.StatusRead,
		CreatedAt: s.createdAt,
	})
	return s
}

func greeting(titles []string) string {
	if len(titles) > 0 {
		return "I have your personalized health map (" + strings.Join(titles, ", ") + "). I'm currently reviewing your data. How are you feeling right now?"
	}
	return "Hello! I'm here to support your recovery journey. This is a verified university consultation link. How can I assist you today?"
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Priority reports whether the seeding symptoms include breathing difficulty.
func (s *Session) Priority() bool {
	return s.priority
}

// Send starts a new turn. It reports false and changes nothing when text is
// blank, a reply is still outstanding, or the session is closed.
func (s *Session) Send(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.mu.Lock()
	if s.closed || s.awaiting {
		s.mu.Unlock()
		return false
	}

	msg := chat.Message{
		ID:        s.newIDLocked(),
		Role:      chat.RoleUser,
		Text:      text,
		Status:    chat.StatusSent,
		CreatedAt: s.opts.Now().UTC(),
	}
	s.messages = append(s.messages, msg)
	s.awaiting = true
	s.turn++
	turn := s.turn
	s.publishLocked(chat.Event{Type: chat.EventMessage, Message: &msg})

	s.timers = append(s.timers[:0],
		s.opts.Scheduler.AfterFunc(s.opts.DeliveredDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if !s.closed {
				s.advanceLocked(msg.ID, chat.StatusDelivered)
			}
		}),
		s.opts.Scheduler.AfterFunc(s.opts.ComposingDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed || !s.awaiting || s.turn != turn {
				return
			}
			s.setComposingLocked(true)
		}),
	)

	prompt := buildContextText(s.userID, s.symptoms, text)
	history := append([]chat.Message(nil), s.history...)
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.ResponderTimeout)
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()
		reply, err := s.respond(ctx, history, prompt)
		s.finish(turn, msg, reply, err)
	}()
	return true
}

func (s *Session) respond(ctx context.Context, history []chat.Message, prompt string) (string, error) {
	if s.responder == nil {
		return "", ErrResponderUnavailable
	}
	if hr, ok := s.responder.(HistoryResponder); ok {
		return hr.RespondWithHistory(ctx, history, prompt)
	}
	return s.responder.Respond(ctx, prompt)
}

// finish completes a turn. It is the last write to the log for that turn.
// Only exchanges the responder actually answered join the history.
func (s *Session) finish(turn int, userMsg chat.Message, reply string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.turn != turn {
		return
	}

	text, ok := replyOrFallback(reply, err)
	if !ok {
		log.Printf("[chat] responder failed session=%s: %v", s.id, err)
	}

	s.stopTimersLocked()
	s.advanceLocked(userMsg.ID, chat.StatusDelivered)
	s.advanceLocked(userMsg.ID, chat.StatusRead)

	advisorMsg := chat.Message{
		ID:        s.newIDLocked(),
		Role:      chat.RoleAdvisor,
		Text:      text,
		Status:    chat.StatusRead,
		CreatedAt: s.opts.Now().UTC(),
	}
	s.messages = append(s.messages, advisorMsg)
	if ok {
		s.history = append(s.history, userMsg, advisorMsg)
	}
	s.publishLocked(chat.Event{Type: chat.EventMessage, Message: &advisorMsg})

	s.setComposingLocked(false)
	s.awaiting = false
	s.publishLocked(chat.Event{Type: chat.EventIdle})
}

// advanceLocked moves a user message forward; it never regresses.
func (s *Session) advanceLocked(id string, status chat.DeliveryStatus) {
	for i := range s.messages {
		msg := &s.messages[i]
		if msg.ID != id || msg.Role != chat.RoleUser {
			continue
		}
		if !msg.Status.Before(status) {
			return
		}
		msg.Status = status
		s.publishLocked(chat.Event{Type: chat.EventStatus, MessageID: id, Status: status})
		return
	}
}

func (s *Session) setComposingLocked(composing bool) {
	if s.composing == composing {
		return
	}
	s.composing = composing
	s.publishLocked(chat.Event{Type: chat.EventComposing, Composing: composing})
}

func (s *Session) stopTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = s.timers[:0]
}

func (s *Session) newIDLocked() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Snapshot returns a copy of the session state for rendering.
func (s *Session) Snapshot() chat.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return chat.Session{
		ID:               s.id,
		UserID:           s.userID,
		Symptoms:         append([]string(nil), s.symptoms...),
		Priority:         s.priority,
		Messages:         append([]chat.Message(nil), s.messages...),
		AwaitingResponse: s.awaiting,
		Composing:        s.composing,
		Closed:           s.closed,
		CreatedAt:        s.createdAt,
	}
}

// Subscribe returns a channel of events published after the call and a
// function that detaches it. Events are dropped for a subscriber whose
// buffer is full. The channel is closed on unsubscribe or teardown.
func (s *Session) Subscribe() (<-chan chat.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan chat.Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
}

func (s *Session) publishLocked(event chat.Event) {
	event.SessionID = s.id
	for id, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			log.Printf("[chat] dropping %s event for slow subscriber session=%s sub=%d", event.Type, s.id, id)
		}
	}
}

// Close tears the session down: pending timers are stopped, the in-flight
// responder call is cancelled, and subscribers are released. It is safe to
// call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.stopTimersLocked()
	s.cancel()

	s.publishLocked(chat.Event{Type: chat.EventClosed})
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

// Wait blocks until in-flight responder calls have returned.
func (s *Session) Wait() {
	s.wg.Wait()
}
