// Package goGate is a request authentication gate for HTTP services.
//
// A [Gate] classifies every request into exactly one [Decision]: the path
// is excluded, no credential material was presented, the material did not
// resolve to an identity, or an identity was resolved. The strategy that
// produces that decision is chosen at startup:
//
//   - none: every path is open.
//   - basic_auth: the Authorization header is checked against the identity
//     directory on every request.
//   - session_auth: a session cookie names a stored session that never expires.
//   - session_exp_auth: as session_auth, but sessions expire a fixed duration
//     after creation.
//   - session_db_auth: as session_exp_auth, with sessions persisted in a
//     durable backend that is tied to the identity directory.
//
// Gate methods are safe to call from multiple goroutines after [Builder.Build].
//
// # What this package must NOT do
//
//   - Log raw session identifiers or passwords. Only [session.Fingerprint]
//     values reach the logs.
//   - Delete expired sessions on the request path. Expired records are only
//     removed by [Gate.PurgeExpiredSessions].
//   - Treat a backend fault as a successful check. Faults are Forbidden with
//     [Verdict.Err] set.
package goGate
