package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/MrEthical07/goGate/session"
)

// SessionStore implements session.Store, session.Purger and session.Counter
// on the user_sessions table. session_id is UNIQUE, so Create never
// overwrites and Get sees at most one row.
type SessionStore struct {
	pool poolIface
}

// NewSessionStore creates a store over pool.
func NewSessionStore(pool poolIface) *SessionStore {
	return &SessionStore{pool: pool}
}

// Create inserts a record. ttl is ignored; expiry is enforced on read and
// by PurgeExpired.
func (s *SessionStore) Create(ctx context.Context, sess *session.Session, _ time.Duration) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_sessions (id, user_id, session_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		sess.ID, sess.UserID, sess.SessionID, sess.CreatedAt, sess.UpdatedAt,
	)
	if err == nil {
		return nil
	}

	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return session.ErrSessionExists
	case pgForeignKeyViolation:
		return session.ErrUnknownIdentity
	}
	return oops.Code("SESSION_CREATE_FAILED").
		With("operation", "create session").
		With("user_id", sess.UserID).
		Wrap(fmt.Errorf("%w: %w", session.ErrStoreUnavailable, err))
}

// Get returns the record for sessionID.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	sess := &session.Session{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, session_id, created_at, updated_at
		 FROM user_sessions WHERE session_id = $1
		 ORDER BY created_at LIMIT 1`,
		sessionID,
	).Scan(&sess.ID, &sess.UserID, &sess.SessionID, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, oops.Code("SESSION_GET_FAILED").
			With("operation", "get session").
			Wrap(fmt.Errorf("%w: %w", session.ErrStoreUnavailable, err))
	}
	return sess, nil
}

// Delete removes the record and reports whether one existed.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return false, oops.Code("SESSION_DELETE_FAILED").
			With("operation", "delete session").
			Wrap(fmt.Errorf("%w: %w", session.ErrStoreUnavailable, err))
	}
	return tag.RowsAffected() > 0, nil
}

// PurgeExpired deletes records created strictly before cutoff.
func (s *SessionStore) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_sessions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, oops.Code("SESSION_PURGE_FAILED").
			With("operation", "purge sessions").
			With("cutoff", cutoff).
			Wrap(fmt.Errorf("%w: %w", session.ErrStoreUnavailable, err))
	}
	return tag.RowsAffected(), nil
}

// EstimateActiveSessions counts stored rows, expired ones included.
func (s *SessionStore) EstimateActiveSessions(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM user_sessions`).Scan(&n); err != nil {
		return 0, oops.Code("SESSION_COUNT_FAILED").
			With("operation", "count sessions").
			Wrap(fmt.Errorf("%w: %w", session.ErrStoreUnavailable, err))
	}
	return n, nil
}
