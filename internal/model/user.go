package model

import "time"

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleSupport = "support"
)

// AdminRoom is the shared room every admin/support connection joins.
const AdminRoom = "admin-room"

// IsSupportRole reports whether role is one of the privileged operator
// roles. Admin and support behave identically for routing.
func IsSupportRole(role string) bool {
	return role == RoleAdmin || role == RoleSupport
}

// UserRoom returns the dedicated room name for a regular user.
func UserRoom(userID string) string {
	return "user-" + userID
}

// UserRecord is a durable user row. UserID is caller-supplied and stable.
type UserRecord struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}
