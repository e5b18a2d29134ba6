package middleware

import (
	"encoding/json"
	"net/http"

	goGate "github.com/MrEthical07/goGate"
)

// Guard runs every request through the gate. Allowed requests continue with
// the resolved identity, if any, attached to the context.
func Guard(gate *goGate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				WriteError(w, http.StatusUnauthorized)
				return
			}

			v := gate.CheckHTTP(r)
			if !v.Allowed() {
				WriteError(w, v.Decision.HTTPStatus())
				return
			}

			if v.Identity != nil {
				r = r.WithContext(goGate.WithIdentity(r.Context(), v.Identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WriteError writes {"error": <status text>} with the given status.
func WriteError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status)})
}
