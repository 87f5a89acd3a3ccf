package domain

import "time"

// User represents a bot user
type User struct {
	UserID     int64
	Authorized bool
	Admin      bool
	CreatedAt  time.Time
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle                 UserState = "idle"
	StateWaitingPassword      UserState = "waiting_password"
	StateWaitingAdminPassword UserState = "waiting_admin_password"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State     UserState
	MessageID int // For editing messages
}
