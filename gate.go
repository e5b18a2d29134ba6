package goGate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/internal/logutil"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/session"
	"github.com/MrEthical07/goGate/strategy"
)

// Gate is the single per-request entry point. It is safe for concurrent use
// after Build.
type Gate struct {
	config    Config
	strategy  strategy.Strategy
	sessions  *strategy.Session
	directory identity.Directory
	verifier  password.Verifier
	metrics   *Metrics
	logger    zerolog.Logger
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Identity  *identity.Identity
	SessionID string
}

// Check decides one request:
//
//  1. an excluded path is NotRequired;
//  2. a request without credential material is Unauthenticated;
//  3. material that resolves to an identity is Authenticated, anything
//     else (including a backend fault, reported in Verdict.Err) is Forbidden.
func (g *Gate) Check(ctx context.Context, req strategy.Request) Verdict {
	if g == nil || g.strategy == nil {
		return Verdict{Decision: DecisionForbidden, Err: ErrGateNotReady}
	}

	start := time.Now()
	v := g.check(ctx, req)
	g.metrics.Observe(MetricCheckLatency, time.Since(start))
	g.metrics.Inc(decisionMetric(v.Decision))

	if v.Err != nil {
		g.metrics.Inc(MetricBackendFailure)
		g.log(ctx).Error().Err(v.Err).Str("path", req.Path).Msg("authentication backend failure")
	} else if !v.Allowed() {
		g.log(ctx).Debug().Str("path", req.Path).Stringer("decision", v.Decision).Msg("request denied")
	}

	return v
}

func (g *Gate) check(ctx context.Context, req strategy.Request) Verdict {
	if !g.strategy.RequiresAuth(req.Path) {
		return Verdict{Decision: DecisionNotRequired}
	}

	credential, ok := g.strategy.ExtractCredential(req)
	if !ok {
		return Verdict{Decision: DecisionUnauthenticated}
	}

	ident, err := g.strategy.ResolveIdentity(ctx, credential)
	if err != nil {
		return Verdict{Decision: DecisionForbidden, Err: err}
	}
	if ident == nil {
		return Verdict{Decision: DecisionForbidden}
	}
	return Verdict{Decision: DecisionAuthenticated, Identity: ident}
}

// CheckHTTP is Check for an *http.Request.
func (g *Gate) CheckHTTP(r *http.Request) Verdict {
	return g.Check(r.Context(), strategy.FromHTTP(r))
}

// Login verifies email and password and issues a session.
//
// It returns ErrEmailMissing or ErrPasswordMissing for empty inputs,
// ErrUserNotFound when no identity has the email, ErrInvalidCredentials
// when the first match does not verify, and ErrSessionsDisabled when the
// gate has no session strategy. Store faults wrap session errors.
func (g *Gate) Login(ctx context.Context, email, pass string) (*LoginResult, error) {
	if g == nil || g.strategy == nil {
		return nil, ErrGateNotReady
	}
	if g.sessions == nil {
		return nil, ErrSessionsDisabled
	}
	if email == "" {
		return nil, ErrEmailMissing
	}
	if pass == "" {
		return nil, ErrPasswordMissing
	}

	candidates, err := g.directory.FindByEmail(ctx, email)
	if err != nil {
		g.metrics.Inc(MetricBackendFailure)
		g.log(ctx).Error().Err(err).Msg("identity lookup failed")
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	if len(candidates) == 0 {
		g.metrics.Inc(MetricLoginFailure)
		return nil, ErrUserNotFound
	}

	ident := candidates[0]
	ok, err := g.verifier.Verify(pass, ident.PasswordHash)
	if err != nil {
		g.log(ctx).Warn().Err(err).Str("user_id", ident.ID).Msg("stored password hash unreadable")
	}
	if err != nil || !ok {
		g.metrics.Inc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	sid, err := g.sessions.Manager().Create(ctx, ident.ID)
	if err != nil {
		g.metrics.Inc(MetricLoginFailure)
		if !errors.Is(err, session.ErrUnknownIdentity) {
			g.metrics.Inc(MetricBackendFailure)
		}
		g.log(ctx).Error().Err(err).Str("user_id", ident.ID).Msg("session creation failed")
		return nil, err
	}

	g.metrics.Inc(MetricLoginSuccess)
	g.metrics.Inc(MetricSessionCreated)
	g.log(ctx).Info().Str("user_id", ident.ID).Str("session", session.Fingerprint(sid)).Msg("session created")

	return &LoginResult{Identity: &ident, SessionID: sid}, nil
}

// Logout destroys the session and reports whether it existed.
func (g *Gate) Logout(ctx context.Context, sessionID string) (bool, error) {
	if g == nil || g.strategy == nil {
		return false, ErrGateNotReady
	}
	if g.sessions == nil {
		return false, ErrSessionsDisabled
	}

	ok, err := g.sessions.Manager().Destroy(ctx, sessionID)
	if err != nil {
		g.metrics.Inc(MetricBackendFailure)
		g.log(ctx).Error().Err(err).Msg("session destroy failed")
		return false, err
	}
	if ok {
		g.metrics.Inc(MetricSessionDestroyed)
	}
	return ok, nil
}

// LogoutHTTP destroys the session named by the request's session cookie.
func (g *Gate) LogoutHTTP(r *http.Request) (bool, error) {
	if g == nil || g.sessions == nil {
		return false, ErrSessionsDisabled
	}
	sid, ok := g.sessions.ExtractCredential(strategy.FromHTTP(r))
	if !ok {
		return false, nil
	}
	return g.Logout(r.Context(), sid)
}

// PurgeExpiredSessions removes sessions that are provably expired. It is
// never called from the request path.
func (g *Gate) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	if g == nil || g.sessions == nil {
		return 0, ErrSessionsDisabled
	}
	n, err := g.sessions.Manager().PurgeExpired(ctx)
	if err != nil {
		return 0, err
	}
	g.metrics.Add(MetricSessionPurged, uint64(n))
	g.log(ctx).Info().Int64("purged", n).Msg("expired sessions purged")
	return n, nil
}

// SessionCookie builds the Set-Cookie value for a new session.
func (g *Gate) SessionCookie(sessionID string) *http.Cookie {
	c := &http.Cookie{
		Name:     g.config.Session.CookieName,
		Value:    sessionID,
		Path:     g.config.Session.CookiePath,
		Secure:   g.config.Session.CookieSecure,
		HttpOnly: g.config.Session.CookieHTTPOnly,
		SameSite: g.config.Session.CookieSameSite,
	}
	if g.sessions != nil {
		if policy := g.sessions.Manager().Policy(); policy.Enabled() {
			c.MaxAge = int(policy.Duration / time.Second)
		}
	}
	return c
}

// ClearedSessionCookie builds a Set-Cookie value that removes the session
// cookie from the client.
func (g *Gate) ClearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     g.config.Session.CookieName,
		Value:    "",
		Path:     g.config.Session.CookiePath,
		MaxAge:   -1,
		Secure:   g.config.Session.CookieSecure,
		HttpOnly: g.config.Session.CookieHTTPOnly,
		SameSite: g.config.Session.CookieSameSite,
	}
}

// CookieName returns the session cookie name.
func (g *Gate) CookieName() string {
	return g.config.Session.CookieName
}

// SessionsEnabled reports whether the gate uses a session strategy.
func (g *Gate) SessionsEnabled() bool {
	return g != nil && g.sessions != nil
}

// Strategy returns the configured strategy kind.
func (g *Gate) Strategy() strategy.Kind {
	if g == nil || g.strategy == nil {
		return ""
	}
	return g.strategy.Kind()
}

// Directory returns the identity directory, or nil for KindNone without one.
func (g *Gate) Directory() identity.Directory {
	return g.directory
}

// SessionCount returns how many session records the store holds when it
// can report it.
func (g *Gate) SessionCount(ctx context.Context) (int, bool, error) {
	if g == nil || g.sessions == nil {
		return 0, false, nil
	}
	counter, ok := g.sessions.Manager().Store().(session.Counter)
	if !ok {
		return 0, false, nil
	}
	n, err := counter.EstimateActiveSessions(ctx)
	return n, true, err
}

// Config returns a copy of the configuration.
func (g *Gate) Config() Config {
	return cloneConfig(g.config)
}

// Metrics returns the gate's metrics.
func (g *Gate) Metrics() *Metrics {
	return g.metrics
}

// MetricsSnapshot returns a point-in-time copy of the gate's metrics.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	return g.metrics.Snapshot()
}

// log prefers a request-scoped logger attached with logutil.WithLogger.
func (g *Gate) log(ctx context.Context) *zerolog.Logger {
	if logger, ok := logutil.FromContext(ctx); ok {
		return &logger
	}
	return &g.logger
}
