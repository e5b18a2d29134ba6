package goGate

import (
	"net/http"

	"github.com/MrEthical07/goGate/identity"
)

// Decision is the outcome of a gate check.
type Decision uint8

const (
	// DecisionNotRequired means the path is excluded from authentication.
	DecisionNotRequired Decision = iota
	// DecisionUnauthenticated means no credential material was presented.
	DecisionUnauthenticated
	// DecisionForbidden means credential material did not resolve to an identity.
	DecisionForbidden
	// DecisionAuthenticated means an identity was resolved.
	DecisionAuthenticated
)

func (d Decision) String() string {
	switch d {
	case DecisionNotRequired:
		return "not_required"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionForbidden:
		return "forbidden"
	case DecisionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// HTTPStatus maps the decision to a response status. Allowed decisions map
// to 200.
func (d Decision) HTTPStatus() int {
	switch d {
	case DecisionUnauthenticated:
		return http.StatusUnauthorized
	case DecisionForbidden:
		return http.StatusForbidden
	default:
		return http.StatusOK
	}
}

// Verdict is the result of Gate.Check. Identity is non-nil exactly when
// Decision is DecisionAuthenticated. Err carries a backend fault that led
// to a Forbidden decision.
type Verdict struct {
	Decision Decision
	Identity *identity.Identity
	Err      error
}

// Allowed reports whether the request may proceed.
func (v Verdict) Allowed() bool {
	return v.Decision == DecisionNotRequired || v.Decision == DecisionAuthenticated
}
