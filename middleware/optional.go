package middleware

import (
	"net/http"

	goGate "github.com/MrEthical07/goGate"
)

// Optional attaches the resolved identity when the gate authenticates the
// request and otherwise passes it through unchanged.
func Optional(gate *goGate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate != nil {
				if v := gate.CheckHTTP(r); v.Identity != nil {
					r = r.WithContext(goGate.WithIdentity(r.Context(), v.Identity))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
