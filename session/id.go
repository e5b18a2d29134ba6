package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

// idSize is 128 bits of entropy.
const idSize = 16

// NewID returns a random session id: 16 bytes from crypto/rand, base64url
// without padding (22 characters).
func NewID() (string, error) {
	var raw [idSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// ParseID checks that id has the shape produced by NewID.
func ParseID(id string) ([idSize]byte, error) {
	var out [idSize]byte

	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return out, err
	}
	if len(raw) != idSize {
		return out, errors.New("invalid session id size")
	}

	copy(out[:], raw)
	return out, nil
}

// fingerprintSize is the number of SHA-256 bytes kept by Fingerprint.
const fingerprintSize = 6

// Fingerprint returns a short SHA-256 digest of id for log correlation. The
// id cannot be recovered from it.
func Fingerprint(id string) string {
	if id == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:fingerprintSize])
}
