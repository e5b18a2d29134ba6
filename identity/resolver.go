package identity

import (
	"context"

	"github.com/MrEthical07/goGate/password"
)

// Resolver turns an email and password into an Identity.
type Resolver struct {
	Directory Directory
	Verifier  password.Verifier
}

// NewResolver returns a Resolver over dir and v.
func NewResolver(dir Directory, v password.Verifier) *Resolver {
	return &Resolver{Directory: dir, Verifier: v}
}

// Resolve returns the first identity whose email matches exactly and whose
// stored hash verifies against pass. Empty inputs, no candidates, a wrong
// password and an unreadable hash all yield (nil, nil). Only directory
// faults are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, email, pass string) (*Identity, error) {
	if email == "" || pass == "" {
		return nil, nil
	}

	candidates, err := r.Directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	candidate := candidates[0]
	ok, err := r.Verifier.Verify(pass, candidate.PasswordHash)
	if err != nil || !ok {
		return nil, nil
	}
	return &candidate, nil
}
