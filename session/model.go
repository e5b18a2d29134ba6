package session

import "time"

// Session is a stored sid → user mapping.
//
// ID is the durable record id; SessionID is the opaque token handed to the
// client. Sessions are never mutated after creation except for UpdatedAt
// bookkeeping in durable stores.
type Session struct {
	ID        string
	SessionID string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// State is the lifecycle state observed by Manager.Lookup.
type State uint8

const (
	// StateNone means no session exists for the id.
	StateNone State = iota
	// StateActive means the session resolves to a user.
	StateActive
	// StateExpired means a record exists but its lifetime has passed.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	default:
		return "none"
	}
}
