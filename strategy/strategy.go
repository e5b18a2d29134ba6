// Package strategy implements the per-deployment authentication mechanisms:
// anonymous, HTTP Basic, and server-side sessions.
//
// A Strategy answers three questions for the gate: does this path need
// authentication, is there credential material on the request, and which
// identity does that material resolve to. Each variant is an independent
// struct; none embeds another.
package strategy

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MrEthical07/goGate/identity"
)

// Kind names a strategy in configuration.
type Kind string

const (
	KindNone              Kind = "none"
	KindBasic             Kind = "basic_auth"
	KindSession           Kind = "session_auth"
	KindSessionExpiration Kind = "session_exp_auth"
	KindSessionDurable    Kind = "session_db_auth"
)

// Kinds lists every accepted Kind.
func Kinds() []Kind {
	return []Kind{KindNone, KindBasic, KindSession, KindSessionExpiration, KindSessionDurable}
}

// ParseKind maps a configuration value to a Kind. Matching ignores case and
// surrounding space; the empty string selects KindNone.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindNone, nil
	}
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown auth strategy %q", s)
}

// IsSession reports whether k is one of the session variants.
func (k Kind) IsSession() bool {
	return k == KindSession || k == KindSessionExpiration || k == KindSessionDurable
}

// Request is the part of an inbound request a strategy may look at.
type Request struct {
	Path          string
	Authorization string
	Cookies       map[string]string
}

// FromHTTP builds a Request from r. Only the first cookie with a given name
// is kept.
func FromHTTP(r *http.Request) Request {
	req := Request{
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
	}
	if cookies := r.Cookies(); len(cookies) > 0 {
		req.Cookies = make(map[string]string, len(cookies))
		for _, c := range cookies {
			if _, seen := req.Cookies[c.Name]; !seen {
				req.Cookies[c.Name] = c.Value
			}
		}
	}
	return req
}

// Cookie returns the named cookie value.
func (r Request) Cookie(name string) (string, bool) {
	v, ok := r.Cookies[name]
	return v, ok
}

// Strategy is one authentication mechanism.
//
// ExtractCredential reports whether usable credential material is present;
// absence is a 401-class outcome. ResolveIdentity returns (nil, nil) when
// the material does not resolve (403-class) and an error only for backend
// faults.
type Strategy interface {
	Kind() Kind
	RequiresAuth(path string) bool
	ExtractCredential(req Request) (string, bool)
	ResolveIdentity(ctx context.Context, credential string) (*identity.Identity, error)
}
