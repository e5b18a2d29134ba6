package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// maxIDAttempts bounds retries when a generated id is already taken.
const maxIDAttempts = 3

// Manager drives the session lifecycle over a Store.
//
// A Manager without an expiration policy models plain session auth. Adding
// a policy models session auth with expiration, and adding an
// IdentityChecker over a durable store models session auth with
// persistence. Manager is safe for concurrent use when its Store is.
type Manager struct {
	store   Store
	policy  ExpirationPolicy
	checker IdentityChecker
	now     func() time.Time
	newID   func() (string, error)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithExpiration sets the session lifetime. d ≤ 0 means never expire.
func WithExpiration(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.policy = ExpirationPolicy{Duration: d}
	}
}

// WithIdentityChecker makes Create refuse user ids the checker does not know.
func WithIdentityChecker(c IdentityChecker) ManagerOption {
	return func(m *Manager) {
		m.checker = c
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(gen func() (string, error)) ManagerOption {
	return func(m *Manager) {
		if gen != nil {
			m.newID = gen
		}
	}
}

// NewManager returns a Manager over store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		newID: NewID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy returns the configured expiration policy.
func (m *Manager) Policy() ExpirationPolicy {
	return m.policy
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// Create issues a new session for userID and returns its id. Existing
// sessions for the same user stay valid.
//
// With an IdentityChecker, an unknown user yields ErrUnknownIdentity and no
// record. A failed write yields ErrSessionCreationFailed and no id.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}

	if m.checker != nil {
		ok, err := m.checker.IdentityExists(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrSessionCreationFailed, err)
		}
		if !ok {
			return "", ErrUnknownIdentity
		}
	}

	now := m.now().UTC()
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		sid, err := m.newID()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
		}

		sess := &Session{
			ID:        uuid.NewString(),
			SessionID: sid,
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = m.store.Create(ctx, sess, m.policy.RetentionTTL())
		if err == nil {
			return sid, nil
		}
		if !errors.Is(err, ErrSessionExists) {
			return "", fmt.Errorf("%w: %w", ErrSessionCreationFailed, err)
		}
	}

	return "", fmt.Errorf("%w: %w", ErrSessionCreationFailed, ErrSessionExists)
}

// Lookup returns the stored session and its state. The read path never
// deletes: an expired record is reported as StateExpired and left in place.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (*Session, State, error) {
	if sessionID == "" {
		return nil, StateNone, nil
	}

	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, StateNone, nil
		}
		return nil, StateNone, err
	}

	if m.policy.Expired(sess.CreatedAt, m.now()) {
		return sess, StateExpired, nil
	}
	return sess, StateActive, nil
}

// Resolve returns the user id for an active session.
func (m *Manager) Resolve(ctx context.Context, sessionID string) (string, bool, error) {
	sess, state, err := m.Lookup(ctx, sessionID)
	if err != nil || state != StateActive {
		return "", false, err
	}
	return sess.UserID, true, nil
}

// Destroy removes the session and reports whether one existed.
func (m *Manager) Destroy(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return m.store.Delete(ctx, sessionID)
}

// PurgeExpired deletes records that are provably expired now. It is a no-op
// when expiration is disabled and returns ErrPurgeUnsupported when the
// store cannot purge.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	if !m.policy.Enabled() {
		return 0, nil
	}

	purger, ok := m.store.(Purger)
	if !ok {
		return 0, ErrPurgeUnsupported
	}
	return purger.PurgeExpired(ctx, m.policy.PurgeCutoff(m.now()))
}
