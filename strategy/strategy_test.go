package strategy

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/paths"
	"github.com/MrEthical07/goGate/session"
)

var testExcluded = paths.NewSet([]string{"/api/v1/status/", "/api/v1/stat*"})

func seededDirectory(t *testing.T) (*identity.MemoryDirectory, identity.Identity) {
	t.Helper()
	hash, err := password.NewBcrypt(bcrypt.MinCost).Hash("pw1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	dir := identity.NewMemoryDirectory()
	ident, err := dir.Add(identity.Identity{Email: "a@b.com", PasswordHash: hash})
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	return dir, ident
}

func basicHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":                 KindNone,
		"none":             KindNone,
		"basic_auth":       KindBasic,
		" Session_Auth ":   KindSession,
		"session_exp_auth": KindSessionExpiration,
		"session_db_auth":  KindSessionDurable,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("oauth"); err == nil {
		t.Fatal("expected unknown strategy to fail")
	}
	if KindBasic.IsSession() || !KindSessionDurable.IsSession() {
		t.Fatal("IsSession misclassified kinds")
	}
}

func TestFromHTTP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/users?x=1", nil)
	r.Header.Set("Authorization", "Basic abc")
	r.AddCookie(&http.Cookie{Name: "_my_session_id", Value: "first"})
	r.AddCookie(&http.Cookie{Name: "_my_session_id", Value: "second"})

	req := FromHTTP(r)
	if req.Path != "/api/v1/users" {
		t.Fatalf("unexpected path %q", req.Path)
	}
	if req.Authorization != "Basic abc" {
		t.Fatalf("unexpected authorization %q", req.Authorization)
	}
	if v, ok := req.Cookie("_my_session_id"); !ok || v != "first" {
		t.Fatalf("Cookie() = %q, %v", v, ok)
	}
	if _, ok := FromHTTP(httptest.NewRequest(http.MethodGet, "/", nil)).Cookie("x"); ok {
		t.Fatal("expected no cookie")
	}
}

func TestNoAuth(t *testing.T) {
	var s Strategy = NoAuth{}
	if s.RequiresAuth("/api/v1/users") {
		t.Fatal("NoAuth must not require auth")
	}
	if _, ok := s.ExtractCredential(Request{Authorization: basicHeader("a@b.com", "pw1")}); ok {
		t.Fatal("NoAuth must not extract credentials")
	}
}

func TestBasicStrategy(t *testing.T) {
	dir, seeded := seededDirectory(t)
	s := NewBasic(testExcluded, identity.NewResolver(dir, password.NewAuto()))
	ctx := context.Background()

	if s.RequiresAuth("/api/v1/status") || s.RequiresAuth("/api/v1/stats") {
		t.Fatal("excluded paths must not require auth")
	}
	if !s.RequiresAuth("/api/v1/users") {
		t.Fatal("users path must require auth")
	}

	if _, ok := s.ExtractCredential(Request{}); ok {
		t.Fatal("missing header must not yield a credential")
	}

	cred, ok := s.ExtractCredential(Request{Authorization: basicHeader("a@b.com", "pw1")})
	if !ok {
		t.Fatal("expected credential")
	}
	got, err := s.ResolveIdentity(ctx, cred)
	if err != nil || got == nil || got.ID != seeded.ID {
		t.Fatalf("ResolveIdentity = %+v, %v", got, err)
	}

	for _, header := range []string{
		"Bearer token",
		"Basic !!!not-base64!!!",
		"Basic " + base64.StdEncoding.EncodeToString([]byte("no-colon")),
		basicHeader("a@b.com", "wrong"),
		basicHeader("x@b.com", "pw1"),
	} {
		cred, ok := s.ExtractCredential(Request{Authorization: header})
		if !ok {
			t.Fatalf("any non-empty header counts as credential material: %q", header)
		}
		got, err := s.ResolveIdentity(ctx, cred)
		if err != nil || got != nil {
			t.Fatalf("header %q: got %+v, %v; want nil, nil", header, got, err)
		}
	}
}

type brokenDirectory struct{ identity.Directory }

func (brokenDirectory) FindByID(context.Context, string) (*identity.Identity, error) {
	return nil, errors.New("db down")
}

func TestSessionStrategy(t *testing.T) {
	dir, seeded := seededDirectory(t)
	now := time.Unix(1000, 0)
	mgr := session.NewManager(session.NewMemoryStore(),
		session.WithExpiration(time.Minute),
		session.WithClock(func() time.Time { return now }),
	)
	s := NewSession(KindSessionExpiration, testExcluded, mgr, dir, "_my_session_id")
	var expired int
	s.OnExpired = func(context.Context) { expired++ }
	ctx := context.Background()

	if s.Kind() != KindSessionExpiration || s.CookieName() != "_my_session_id" || s.Manager() != mgr {
		t.Fatal("unexpected accessors")
	}

	if _, ok := s.ExtractCredential(Request{}); ok {
		t.Fatal("missing cookie must not yield a credential")
	}
	if _, ok := s.ExtractCredential(Request{Cookies: map[string]string{"_my_session_id": ""}}); ok {
		t.Fatal("empty cookie must not yield a credential")
	}
	cred, ok := s.ExtractCredential(Request{Authorization: "Basic Ym9iOng="})
	if !ok || cred != "" {
		t.Fatalf("authorization header without cookie: %q, %v", cred, ok)
	}
	if got, err := s.ResolveIdentity(ctx, cred); err != nil || got != nil {
		t.Fatalf("empty session id must not resolve: %+v, %v", got, err)
	}

	sid, err := mgr.Create(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	cred, ok = s.ExtractCredential(Request{Cookies: map[string]string{"_my_session_id": sid}})
	if !ok || cred != sid {
		t.Fatalf("ExtractCredential = %q, %v", cred, ok)
	}

	got, err := s.ResolveIdentity(ctx, cred)
	if err != nil || got == nil || got.Email != "a@b.com" {
		t.Fatalf("ResolveIdentity = %+v, %v", got, err)
	}

	if got, err := s.ResolveIdentity(ctx, "unknown"); err != nil || got != nil {
		t.Fatalf("unknown session: %+v, %v", got, err)
	}

	orphan, err := mgr.Create(ctx, "deleted-user")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got, err := s.ResolveIdentity(ctx, orphan); err != nil || got != nil {
		t.Fatalf("orphan session: %+v, %v", got, err)
	}

	now = now.Add(time.Minute + time.Second)
	if got, err := s.ResolveIdentity(ctx, sid); err != nil || got != nil {
		t.Fatalf("expired session: %+v, %v", got, err)
	}
	if expired != 1 {
		t.Fatalf("expected one expired callback, got %d", expired)
	}
}

func TestSessionStrategyDirectoryFault(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore())
	s := NewSession(KindSession, testExcluded, mgr, brokenDirectory{}, "sid")
	ctx := context.Background()

	sid, err := mgr.Create(ctx, "u-1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := s.ResolveIdentity(ctx, sid); err == nil {
		t.Fatal("expected directory fault to propagate")
	}
}
