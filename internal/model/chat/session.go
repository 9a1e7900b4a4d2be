package chat

import "time"

// Session is a read-only snapshot of one conversation.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Symptoms         []string  `json:"symptoms"`
	Priority         bool      `json:"priority"`
	Messages         []Message `json:"messages"`
	// AwaitingResponse is set as soon as a send is accepted and gates input;
	// Composing is the delayed typing indicator and only drives display.
	AwaitingResponse bool      `json:"awaitingResponse"`
	Composing        bool      `json:"composing"`
	Closed           bool      `json:"closed"`
	CreatedAt        time.Time `json:"createdAt"`
}
