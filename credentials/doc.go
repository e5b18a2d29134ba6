// Package credentials parses HTTP Basic Authorization headers into a
// username/password pair.
//
// # Failure model
//
// Every parsing failure (missing scheme prefix, malformed base64, invalid
// UTF-8, missing separator) is reported through a boolean, never an error or
// a panic. Callers treat a failed parse as "no credential".
//
// # What this package must NOT do
//
//   - Look up identities or verify passwords.
//   - Log or retain decoded credentials.
package credentials
