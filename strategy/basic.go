package strategy

import (
	"context"

	"github.com/MrEthical07/goGate/credentials"
	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/paths"
)

// Basic authenticates every request with an Authorization: Basic header.
type Basic struct {
	excluded *paths.Set
	resolver *identity.Resolver
}

// NewBasic returns a Basic strategy.
func NewBasic(excluded *paths.Set, resolver *identity.Resolver) *Basic {
	return &Basic{excluded: excluded, resolver: resolver}
}

// Kind returns KindBasic.
func (b *Basic) Kind() Kind { return KindBasic }

// RequiresAuth applies the excluded-path rules.
func (b *Basic) RequiresAuth(path string) bool {
	return b.excluded.RequiresAuth(path)
}

// ExtractCredential returns the raw Authorization header. Any non-empty
// header counts as credential material, even with a different scheme, so a
// malformed header is denied as Forbidden rather than Unauthenticated.
func (b *Basic) ExtractCredential(req Request) (string, bool) {
	if req.Authorization == "" {
		return "", false
	}
	return req.Authorization, true
}

// ResolveIdentity parses the header and checks the credentials. Malformed
// headers resolve to nothing.
func (b *Basic) ResolveIdentity(ctx context.Context, header string) (*identity.Identity, error) {
	creds, ok := credentials.ParseBasic(header)
	if !ok {
		return nil, nil
	}
	return b.resolver.Resolve(ctx, creds.Username, creds.Password)
}
