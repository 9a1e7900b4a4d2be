package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zhouzirui/care4u/backend/internal/model/chat"
)

// ErrResponderUnavailable is reported when a session has no responder wired.
var ErrResponderUnavailable = errors.New("responder unavailable")

// Fallback texts used as the advisor turn when the responder cannot answer.
const (
	FallbackUnavailable = "Connection to University Health Cloud interrupted. For urgent matters, please visit the medical center directly."
	FallbackEmptyReply  = "I'm sorry, I'm having trouble processing that right now. Please try again or visit the campus clinic."
)

// Responder is the advisory chat backend. Implementations may block on I/O
// and must honour ctx cancellation.
type Responder interface {
	Respond(ctx context.Context, contextText string) (string, error)
}

// HistoryResponder is a Responder that also accepts the earlier completed
// exchanges of the conversation, oldest first. Sessions prefer it when the
// responder implements it.
type HistoryResponder interface {
	Responder
	RespondWithHistory(ctx context.Context, history []chat.Message, contextText string) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, contextText string) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, contextText string) (string, error) {
	return f(ctx, contextText)
}

// buildContextText composes the prompt handed to the responder for one
// student inquiry.
func buildContextText(userID string, symptoms []string, text string) string {
	return fmt.Sprintf("[Patient: %s] [Personalized Map: %s] Student Inquiry: %s", userID, strings.Join(symptoms, ", "), text)
}

// replyOrFallback picks the advisor text for a finished responder call.
func replyOrFallback(reply string, err error) (string, bool) {
	if err != nil {
		return FallbackUnavailable, false
	}
	if strings.TrimSpace(reply) == "" {
		return FallbackEmptyReply, false
	}
	return reply, true
}
