// Package identity models authenticated principals and resolves them from
// Basic credentials.
package identity

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Directory.FindByID when no identity matches.
var ErrNotFound = errors.New("identity not found")

// Identity is an authenticated principal. PasswordHash never leaves the
// process in JSON form.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName returns "First Last", falling back to the email address.
func (i *Identity) DisplayName() string {
	switch {
	case i.FirstName != "" && i.LastName != "":
		return i.FirstName + " " + i.LastName
	case i.FirstName != "":
		return i.FirstName
	case i.LastName != "":
		return i.LastName
	default:
		return i.Email
	}
}

// Directory is the identity lookup capability.
//
// FindByEmail returns every exact match (possibly none). FindByID returns
// ErrNotFound on a miss. Any other error is a backend fault.
type Directory interface {
	FindByEmail(ctx context.Context, email string) ([]Identity, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
	Count(ctx context.Context) (int64, error)
}

// Exists reports whether id names a known identity in dir.
func Exists(ctx context.Context, dir Directory, id string) (bool, error) {
	_, err := dir.FindByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
