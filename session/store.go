package session

import (
	"context"
	"time"
)

// Store persists sessions keyed by SessionID.
//
// Create must fail with ErrSessionExists rather than overwrite. ttl is a
// retention hint for stores with native expiry; zero means no expiry.
// Get returns ErrSessionNotFound on a miss. Delete reports whether a record
// existed. Backend faults wrap ErrStoreUnavailable.
type Store interface {
	Create(ctx context.Context, sess *Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) (bool, error)
}

// Purger is implemented by stores that can bulk-delete expired sessions.
// PurgeExpired removes every record created strictly before cutoff and
// returns how many were removed.
type Purger interface {
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// IdentityChecker reports whether a user id references a known identity.
type IdentityChecker interface {
	IdentityExists(ctx context.Context, userID string) (bool, error)
}

// IdentityCheckerFunc adapts a function to IdentityChecker.
type IdentityCheckerFunc func(ctx context.Context, userID string) (bool, error)

// IdentityExists calls f.
func (f IdentityCheckerFunc) IdentityExists(ctx context.Context, userID string) (bool, error) {
	return f(ctx, userID)
}

// Counter is implemented by stores that can report how many session records
// they hold, expired ones included.
type Counter interface {
	EstimateActiveSessions(ctx context.Context) (int, error)
}
