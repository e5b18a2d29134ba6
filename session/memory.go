package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a process-local map. All methods are safe
// for concurrent use; operations on the same id are linearizable.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Create stores a copy of sess. ttl is ignored.
func (m *MemoryStore) Create(_ context.Context, sess *Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sess.SessionID]; exists {
		return ErrSessionExists
	}
	m.sessions[sess.SessionID] = *sess
	return nil
}

// Get returns a copy of the stored session.
func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Delete removes the mapping entirely.
func (m *MemoryStore) Delete(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return false, nil
	}
	delete(m.sessions, sessionID)
	return true, nil
}

// PurgeExpired removes sessions created strictly before cutoff.
func (m *MemoryStore) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, sess := range m.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// EstimateActiveSessions returns Len.
func (m *MemoryStore) EstimateActiveSessions(context.Context) (int, error) {
	return m.Len(), nil
}
