package password

import (
	"errors"
	"strings"
)

// ErrUnsupportedHash is returned when no verifier recognizes the stored hash.
var ErrUnsupportedHash = errors.New("unsupported password hash")

// Verifier checks a candidate password against a stored encoded hash.
// (true, nil) is a match, (false, nil) a mismatch, and an error means the
// stored hash could not be interpreted.
type Verifier interface {
	Verify(password string, encodedHash string) (bool, error)
}

// Hasher produces encoded hashes that a matching Verifier accepts.
type Hasher interface {
	Hash(password string) (string, error)
}

// Auto dispatches verification on the stored hash format, so identities
// hashed with bcrypt and with argon2id can live in the same directory.
type Auto struct {
	Argon2 *Argon2
	Bcrypt *Bcrypt
}

// NewAuto returns an Auto verifier using default parameters for both schemes.
func NewAuto() *Auto {
	return &Auto{
		Argon2: &Argon2{},
		Bcrypt: NewBcrypt(DefaultBcryptCost),
	}
}

// Verify routes to bcrypt for "$2a$", "$2b$" and "$2y$" hashes and to
// argon2id for PHC "$argon2id$" hashes.
func (a *Auto) Verify(password string, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, "$"+algorithmID+"$"):
		if a.Argon2 == nil {
			return false, ErrUnsupportedHash
		}
		return a.Argon2.Verify(password, encodedHash)
	case isBcryptHash(encodedHash):
		if a.Bcrypt == nil {
			return false, ErrUnsupportedHash
		}
		return a.Bcrypt.Verify(password, encodedHash)
	default:
		return false, ErrUnsupportedHash
	}
}
