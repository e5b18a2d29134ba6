package goGate

import "errors"

var (
	// ErrEmailMissing is returned by Login when no email is given.
	ErrEmailMissing = errors.New("email missing")
	// ErrPasswordMissing is returned by Login when no password is given.
	ErrPasswordMissing = errors.New("password missing")
	// ErrUserNotFound is returned by Login when no identity has the email.
	ErrUserNotFound = errors.New("no user found for this email")
	// ErrInvalidCredentials is returned by Login when the password does not verify.
	ErrInvalidCredentials = errors.New("wrong password")
	// ErrSessionsDisabled is returned by Login and Logout when the gate does
	// not use a session strategy.
	ErrSessionsDisabled = errors.New("session authentication not enabled")
	// ErrBackendUnavailable wraps identity directory faults.
	ErrBackendUnavailable = errors.New("authentication backend unavailable")
	// ErrGateNotReady is returned when a zero Gate is used.
	ErrGateNotReady = errors.New("gate not initialized")
)
