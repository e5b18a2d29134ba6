package goGate

import (
	"testing"
	"time"

	"github.com/MrEthical07/goGate/session"
	"github.com/MrEthical07/goGate/strategy"
)

func TestBuilderSingleUse(t *testing.T) {
	b := New()
	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("second build must fail")
	}
}

func TestBuilderRequiresDirectory(t *testing.T) {
	for _, kind := range []strategy.Kind{strategy.KindBasic, strategy.KindSession} {
		if _, err := New().WithStrategy(kind).Build(); err == nil {
			t.Fatalf("%s: expected missing directory error", kind)
		}
	}
}

func TestBuilderEmptyStrategyDefaultsToNone(t *testing.T) {
	g, err := New().WithStrategy("").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if g.Strategy() != strategy.KindNone || g.SessionsEnabled() {
		t.Fatalf("expected none strategy, got %q", g.Strategy())
	}
}

func TestBuilderRedisBackendNeedsClient(t *testing.T) {
	dir, _ := seedDirectory(t)
	cfg := DefaultConfig()
	cfg.Strategy = strategy.KindSessionExpiration
	cfg.Session.Backend = BackendRedis

	if _, err := New().WithConfig(cfg).WithDirectory(dir).Build(); err == nil {
		t.Fatal("expected missing redis client error")
	}
}

func TestBuilderPostgresBackendNeedsPool(t *testing.T) {
	dir, _ := seedDirectory(t)
	cfg := DefaultConfig()
	cfg.Strategy = strategy.KindSessionDurable
	cfg.Session.Backend = BackendPostgres

	if _, err := New().WithConfig(cfg).WithDirectory(dir).Build(); err == nil {
		t.Fatal("expected missing pool error")
	}
}

func TestBuilderSessionAuthIgnoresDuration(t *testing.T) {
	dir, _ := seedDirectory(t)
	cfg := DefaultConfig()
	cfg.Strategy = strategy.KindSession
	cfg.Session.Duration = time.Second

	g, err := New().WithConfig(cfg).WithDirectory(dir).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if g.sessions.Manager().Policy().Enabled() {
		t.Fatal("session_auth sessions must never expire")
	}
}

func TestBuilderCustomSessionStore(t *testing.T) {
	dir, _ := seedDirectory(t)
	store := session.NewMemoryStore()

	g, err := New().
		WithStrategy(strategy.KindSession).
		WithDirectory(dir).
		WithSessionStore(store).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if g.sessions.Manager().Store() != session.Store(store) {
		t.Fatal("expected the supplied store to be used")
	}
}

func TestBuilderConfigIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	g, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	cfg.ExcludedPaths[0] = "/changed/"
	if g.Config().ExcludedPaths[0] == "/changed/" {
		t.Fatal("gate must not alias caller config")
	}
}
