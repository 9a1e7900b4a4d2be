package chat

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser    Role = "user"
	RoleAdvisor Role = "advisor"
)

// DeliveryStatus tracks a user message through the delivery lifecycle.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusRead      DeliveryStatus = "read"
)

var statusRank = map[DeliveryStatus]int{
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
}

// Before reports whether s precedes next in the lifecycle.
func (s DeliveryStatus) Before(next DeliveryStatus) bool {
	return statusRank[s] < statusRank[next]
}

// Message is one entry of a conversation log.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Text      string         `json:"text"`
	StaffName string         `json:"staffName,omitempty"`
	Status    DeliveryStatus `json:"status,omitempty"`
	CreatedAt time.Time      `json:"timestamp"`
}

// QuickReplies are canned inquiries offered under the message input.
func QuickReplies() []string {
	return []string{
		"How long to recover?",
		"Can I attend class?",
		"What to eat?",
		"When see doctor?",
	}
}
