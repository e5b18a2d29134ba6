// Package session owns the session lifecycle: issuing opaque session ids,
// storing the sid → user mapping, and deciding whether a stored session is
// still valid under an [ExpirationPolicy].
//
// # Lifecycle
//
//	NoSession → Active → {Expired, Destroyed}
//
// [Manager.Create] is the only way into Active. [Manager.Destroy] is the only
// explicit transition to Destroyed. Expired is observed on read and never
// deletes anything; stale records stay until destroyed or removed by an
// explicit [Manager.PurgeExpired].
//
// # Stores
//
// [MemoryStore] keeps sessions for the process lifetime. [RedisStore] keeps
// them in Redis using the compact binary encoding in encoder.go. The
// PostgreSQL store lives in storage/postgres.
//
// # What this package must NOT do
//
//   - Import goGate, strategy or middleware (no upward imports).
//   - Log or return raw session ids in errors.
//   - Delete records from the resolve path.
package session
