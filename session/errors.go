package session

import "errors"

var (
	// ErrSessionNotFound is returned by Store.Get when no record matches.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists is returned by Store.Create when the session id is taken.
	ErrSessionExists = errors.New("session id already exists")
	// ErrStoreUnavailable wraps backend faults from any store.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrCorruptSession is returned when a stored record cannot be decoded.
	ErrCorruptSession = errors.New("session record corrupt")
	// ErrSessionCreationFailed is returned by Manager.Create when the record
	// could not be persisted. No session id is returned alongside it.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrUnknownIdentity is returned by Manager.Create when the identity
	// checker does not know the user.
	ErrUnknownIdentity = errors.New("unknown identity")
	// ErrInvalidUserID is returned by Manager.Create for an empty user id.
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrPurgeUnsupported is returned when the store cannot purge.
	ErrPurgeUnsupported = errors.New("session store does not support purge")
)
