package goGate

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/goGate/strategy"
)

// DefaultCookieName is the session cookie name used when none is configured.
const DefaultCookieName = "_my_session_id"

// Config holds everything the gate needs to decide requests.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Strategy      strategy.Kind
	ExcludedPaths []string
	Session       SessionConfig
	Metrics       MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionBackend selects where sessions live.
type SessionBackend string

const (
	// BackendMemory keeps sessions in process memory.
	BackendMemory SessionBackend = "memory"
	// BackendRedis keeps sessions in Redis.
	BackendRedis SessionBackend = "redis"
	// BackendPostgres keeps sessions in the user_sessions table.
	BackendPostgres SessionBackend = "postgres"
)

// SessionConfig controls the session strategies and the session cookie.
//
// Duration applies to session_exp_auth and session_db_auth only; a value
// ≤ 0 means sessions never expire.
type SessionConfig struct {
	CookieName     string
	Duration       time.Duration
	Backend        SessionBackend
	RedisPrefix    string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultExcludedPaths are the operational endpoints left open by default.
func DefaultExcludedPaths() []string {
	return []string{
		"/api/v1/status/",
		"/api/v1/unauthorized/",
		"/api/v1/forbidden/",
		"/api/v1/stat*",
		"/api/v1/auth/login/",
	}
}

// DefaultConfig returns a Config with no authentication, the default
// excluded paths and in-memory sessions.
func DefaultConfig() Config {
	return Config{
		Strategy:      strategy.KindNone,
		ExcludedPaths: DefaultExcludedPaths(),
		Session: SessionConfig{
			CookieName:     DefaultCookieName,
			Duration:       0,
			Backend:        BackendMemory,
			RedisPrefix:    "gs",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.ExcludedPaths != nil {
		out.ExcludedPaths = append([]string(nil), cfg.ExcludedPaths...)
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first configuration error, if any.
func (c *Config) Validate() error {
	if _, err := strategy.ParseKind(string(c.Strategy)); err != nil {
		return err
	}

	for _, p := range c.ExcludedPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("excluded path %q must start with /", p)
		}
		if i := strings.Index(p, "*"); i >= 0 && i != len(p)-1 {
			return fmt.Errorf("excluded path %q may only use * as its final character", p)
		}
	}

	if !c.Strategy.IsSession() {
		return nil
	}

	if !validCookieName(c.Session.CookieName) {
		return fmt.Errorf("invalid session cookie name %q", c.Session.CookieName)
	}

	switch c.Session.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	if c.Strategy == strategy.KindSessionDurable && c.Session.Backend == BackendMemory {
		return errors.New("session_db_auth requires a durable session backend (redis or postgres)")
	}

	if c.Session.Backend == BackendRedis && c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}

	return nil
}

// validCookieName accepts RFC 6265 token characters only.
func validCookieName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte(`()<>@,;:\"/[]?={}`, c) >= 0 {
			return false
		}
	}
	return true
}
