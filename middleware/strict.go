package middleware

import (
	"net/http"

	goGate "github.com/MrEthical07/goGate"
)

// RequireIdentity rejects with 401 unless an earlier Guard or Optional
// attached an identity.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := goGate.IdentityFromContext(r.Context()); !ok {
			WriteError(w, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
