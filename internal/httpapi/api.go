// Package httpapi serves the /api/v1 endpoints in front of a goGate.Gate.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/internal/logutil"
	"github.com/MrEthical07/goGate/middleware"
)

// Prefix is the mount point of every route.
const Prefix = "/api/v1"

// API owns the routes. Build the handler with Handler.
type API struct {
	gate   *goGate.Gate
	logger zerolog.Logger
}

// New returns an API for gate. Requests are logged with logger.
func New(gate *goGate.Gate, logger zerolog.Logger) *API {
	return &API{gate: gate, logger: logger}
}

// Handler returns the router wrapped in request logging and the gate guard.
// The guard runs before routing, so an unknown protected path is denied
// before it is reported missing.
func (a *API) Handler() http.Handler {
	router := httprouter.New()
	router.HandleMethodNotAllowed = true
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusNotFound)
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed)
	})

	router.HandlerFunc(http.MethodGet, Prefix+"/status", a.status)
	router.HandlerFunc(http.MethodGet, Prefix+"/stats", a.stats)
	router.HandlerFunc(http.MethodGet, Prefix+"/unauthorized", deny(http.StatusUnauthorized))
	router.HandlerFunc(http.MethodGet, Prefix+"/forbidden", deny(http.StatusForbidden))
	router.HandlerFunc(http.MethodGet, Prefix+"/users/me", a.me)
	router.HandlerFunc(http.MethodPost, Prefix+"/auth/login", a.login)
	router.HandlerFunc(http.MethodDelete, Prefix+"/auth/logout", a.logout)

	return a.withRequestLogger(middleware.Guard(a.gate)(router))
}

func (a *API) withRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := a.logger.With().
			Str("request_id", uuid.NewString()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logutil.WithLogger(r.Context(), logger)))

		logger.Debug().
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request served")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func deny(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, status)
	}
}

func (a *API) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	out := map[string]int64{}

	if dir := a.gate.Directory(); dir != nil {
		n, err := dir.Count(r.Context())
		if err != nil {
			a.internalError(w, r, err)
			return
		}
		out["users"] = n
	} else {
		out["users"] = 0
	}

	n, ok, err := a.gate.SessionCount(r.Context())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if ok {
		out["sessions"] = int64(n)
	}

	writeJSON(w, http.StatusOK, out)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	ident, ok := goGate.IdentityFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ident)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	if !a.gate.SessionsEnabled() {
		middleware.WriteError(w, http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid form")
		return
	}

	res, err := a.gate.Login(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	switch {
	case err == nil:
	case errors.Is(err, goGate.ErrEmailMissing), errors.Is(err, goGate.ErrPasswordMissing):
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, goGate.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, goGate.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, err.Error())
		return
	default:
		a.internalError(w, r, err)
		return
	}

	http.SetCookie(w, a.gate.SessionCookie(res.SessionID))
	writeJSON(w, http.StatusOK, res.Identity)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if !a.gate.SessionsEnabled() {
		middleware.WriteError(w, http.StatusNotFound)
		return
	}

	ok, err := a.gate.LogoutHTTP(r)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if !ok {
		middleware.WriteError(w, http.StatusNotFound)
		return
	}

	http.SetCookie(w, a.gate.ClearedSessionCookie())
	writeJSON(w, http.StatusOK, struct{}{})
}

func (a *API) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log := logutil.GetOrDefault(r.Context())
	log.Error().Err(err).Msg("request failed")
	middleware.WriteError(w, http.StatusInternalServerError)
}
