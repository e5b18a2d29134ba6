package strategy

import (
	"context"

	"github.com/MrEthical07/goGate/identity"
)

// NoAuth never challenges a request.
type NoAuth struct{}

// Kind returns KindNone.
func (NoAuth) Kind() Kind { return KindNone }

// RequiresAuth is always false.
func (NoAuth) RequiresAuth(string) bool { return false }

// ExtractCredential never finds anything.
func (NoAuth) ExtractCredential(Request) (string, bool) { return "", false }

// ResolveIdentity never resolves.
func (NoAuth) ResolveIdentity(context.Context, string) (*identity.Identity, error) {
	return nil, nil
}
