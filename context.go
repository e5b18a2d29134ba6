package goGate

import (
	"context"

	"github.com/MrEthical07/goGate/identity"
)

type identityContextKey struct{}

// WithIdentity attaches the authenticated identity to ctx.
func WithIdentity(ctx context.Context, ident *identity.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromContext returns the identity attached by WithIdentity.
func IdentityFromContext(ctx context.Context) (*identity.Identity, bool) {
	if ctx == nil {
		return nil, false
	}

	ident, ok := ctx.Value(identityContextKey{}).(*identity.Identity)
	return ident, ok && ident != nil
}
