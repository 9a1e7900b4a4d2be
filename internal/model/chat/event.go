package chat

// EventType names a change published by a live conversation.
type EventType string

const (
	EventMessage   EventType = "message"
	EventStatus    EventType = "status"
	EventComposing EventType = "composing"
	EventIdle      EventType = "idle"
	EventClosed    EventType = "closed"
)

// Event is pushed to conversation subscribers after each state change.
type Event struct {
	Type      EventType      `json:"event"`
	SessionID string         `json:"sessionId"`
	Message   *Message       `json:"message,omitempty"`
	MessageID string         `json:"messageId,omitempty"`
	Status    DeliveryStatus `json:"status,omitempty"`
	Composing bool           `json:"composing,omitempty"`
}
