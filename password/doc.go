// Package password verifies stored password hashes for identity resolution.
//
// # Supported formats
//
// Argon2id hashes use the PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Bcrypt hashes use the modular crypt prefixes "$2a$", "$2b$" and "$2y$".
// [Auto] picks the scheme from the stored hash, so directories may mix both.
//
// # Failure model
//
// A wrong password is (false, nil). An error is reserved for hashes that
// cannot be parsed; callers treat both as a failed login.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other goGate package.
//   - Log plaintext passwords.
package password
