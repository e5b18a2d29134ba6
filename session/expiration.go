package session

import "time"

// ExpirationPolicy decides whether a session is still valid.
//
// A Duration ≤ 0 disables expiration. Otherwise a session created at c is
// valid through c+Duration inclusive and expired strictly after it.
type ExpirationPolicy struct {
	Duration time.Duration
}

// Enabled reports whether sessions expire at all.
func (p ExpirationPolicy) Enabled() bool {
	return p.Duration > 0
}

// ExpiresAt returns createdAt+Duration, or false when expiration is disabled.
func (p ExpirationPolicy) ExpiresAt(createdAt time.Time) (time.Time, bool) {
	if !p.Enabled() {
		return time.Time{}, false
	}
	return createdAt.Add(p.Duration), true
}

// Expired reports whether a session created at createdAt is expired at now.
func (p ExpirationPolicy) Expired(createdAt, now time.Time) bool {
	expiresAt, ok := p.ExpiresAt(createdAt)
	if !ok {
		return false
	}
	return now.After(expiresAt)
}

// RetentionTTL is the TTL handed to stores with native expiry. It exceeds
// Duration by one second so the backend never drops a record that could
// still resolve. Zero means keep forever.
func (p ExpirationPolicy) RetentionTTL() time.Duration {
	if !p.Enabled() {
		return 0
	}
	return p.Duration + time.Second
}

// PurgeCutoff returns the creation time before which every record is
// provably expired at now.
func (p ExpirationPolicy) PurgeCutoff(now time.Time) time.Time {
	return now.Add(-p.Duration)
}
