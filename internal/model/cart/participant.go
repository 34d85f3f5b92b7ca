package cart

import "time"

// Participant roles. Exactly one host exists per session for its
// whole lifetime.
const (
	RoleHost   = "host"
	RoleMember = "member"
)

// Participant identifies one member of a shared cart session.
type Participant struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}
