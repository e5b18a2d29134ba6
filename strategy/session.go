package strategy

import (
	"context"
	"errors"

	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/paths"
	"github.com/MrEthical07/goGate/session"
)

// Session authenticates requests by a session cookie.
//
// The three session kinds share this type; they differ only in the
// Manager's expiration policy and store.
type Session struct {
	kind       Kind
	excluded   *paths.Set
	manager    *session.Manager
	directory  identity.Directory
	cookieName string

	// OnExpired, when set, is called each time an expired session is
	// presented.
	OnExpired func(ctx context.Context)
}

// NewSession returns a Session strategy of the given kind.
func NewSession(kind Kind, excluded *paths.Set, manager *session.Manager, directory identity.Directory, cookieName string) *Session {
	return &Session{
		kind:       kind,
		excluded:   excluded,
		manager:    manager,
		directory:  directory,
		cookieName: cookieName,
	}
}

// Kind returns the configured session kind.
func (s *Session) Kind() Kind { return s.kind }

// CookieName returns the session cookie name.
func (s *Session) CookieName() string { return s.cookieName }

// Manager returns the session lifecycle manager.
func (s *Session) Manager() *session.Manager { return s.manager }

// RequiresAuth applies the excluded-path rules.
func (s *Session) RequiresAuth(path string) bool {
	return s.excluded.RequiresAuth(path)
}

// ExtractCredential returns the session cookie value when present and
// non-empty. Without a cookie, an Authorization header still counts as
// credential material: it yields an empty session id, which never resolves,
// so the request is forbidden rather than unauthenticated.
func (s *Session) ExtractCredential(req Request) (string, bool) {
	if v, ok := req.Cookie(s.cookieName); ok && v != "" {
		return v, true
	}
	if req.Authorization != "" {
		return "", true
	}
	return "", false
}

// ResolveIdentity maps a session id to its identity. Missing, expired and
// orphaned sessions resolve to nothing, as does the empty id.
func (s *Session) ResolveIdentity(ctx context.Context, sessionID string) (*identity.Identity, error) {
	if sessionID == "" {
		return nil, nil
	}

	sess, state, err := s.manager.Lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	switch state {
	case session.StateExpired:
		if s.OnExpired != nil {
			s.OnExpired(ctx)
		}
		return nil, nil
	case session.StateNone:
		return nil, nil
	}

	ident, err := s.directory.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ident, nil
}
