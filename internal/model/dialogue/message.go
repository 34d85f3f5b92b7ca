package dialogue

import "time"

// Message roles. A transcript strictly alternates user/assistant turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a conversation. Immutable once appended.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Steps     []string  `json:"steps,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
