package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zhouzirui/care4u/backend/internal/model/chat"
	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
)

var (
	ErrUserRequired    = errors.New("user id is required")
	ErrSessionNotFound = errors.New("session not found")
)

// Service owns the live conversations of this process.
type Service struct {
	catalog   symptom.Store
	responder Responder
	opts      Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService returns an in-memory session registry. responder may be nil, in
// which case every turn completes with the fallback advisor message.
func NewService(catalog symptom.Store, responder Responder, opts Options) *Service {
	return &Service{
		catalog:   catalog,
		responder: responder,
		opts:      opts.withDefaults(),
		sessions:  make(map[string]*Session),
	}
}

// CreateSession opens a conversation for userID seeded with the selected
// symptom ids. Ids unknown to the catalog are ignored.
func (s *Service) CreateSession(_ context.Context, userID string, symptomIDs []string) (chat.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return chat.Session{}, ErrUserRequired
	}

	symptoms := make([]symptom.Symptom, 0, len(symptomIDs))
	for _, id := range symptomIDs {
		if item, ok := s.catalog.FindByID(id); ok {
			symptoms = append(symptoms, item)
		}
	}

	session := NewSession(SessionConfig{
		ID:       uuid.NewString(),
		UserID:   userID,
		Symptoms: symptoms,
	}, s.responder, s.opts)

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	log.Printf("[chat] opened session=%s user=%s symptoms=%d priority=%t", session.ID(), userID, len(symptoms), session.Priority())
	return session.Snapshot(), nil
}

// Session returns the live session for id.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetSession returns a snapshot of the session.
func (s *Service) GetSession(_ context.Context, id string) (chat.Session, error) {
	session, err := s.Session(id)
	if err != nil {
		return chat.Session{}, err
	}
	return session.Snapshot(), nil
}

// Send forwards text to the session. The boolean is false when the session
// ignored the message.
func (s *Service) Send(_ context.Context, id, text string) (bool, error) {
	session, err := s.Session(id)
	if err != nil {
		return false, err
	}
	return session.Send(text), nil
}

// CloseSession tears down a session and forgets it.
func (s *Service) CloseSession(_ context.Context, id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.Close()
	log.Printf("[chat] closed session=%s", id)
	return nil
}

// Close tears down every session and waits for in-flight responder calls.
func (s *Service) Close() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for id, session := range s.sessions {
		sessions = append(sessions, session)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
	for _, session := range sessions {
		session.Wait()
	}
}
