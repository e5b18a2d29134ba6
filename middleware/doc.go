// Package middleware adapts a goGate.Gate to net/http.
//
// # Guards
//
//   - [Guard] enforces the gate decision and rejects with 401 or 403.
//   - [Optional] attaches an identity when one resolves but never rejects.
//   - [RequireIdentity] rejects requests that reach it without an identity,
//     for handlers behind an excluded path that still need a caller.
//
// Rejections are JSON bodies of the form {"error":"Unauthorized"}.
//
// # What this package must NOT do
//
//   - Read cookies or headers itself. Credential extraction belongs to the
//     strategy behind the gate.
//   - Make decisions beyond the verdict returned by Gate.CheckHTTP.
package middleware
