package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/strategy"
)

func newGate(t *testing.T, kind strategy.Kind) *goGate.Gate {
	t.Helper()

	hash, err := password.NewBcrypt(4).Hash("pwd")
	if err != nil {
		t.Fatal(err)
	}
	dir := identity.NewMemoryDirectory()
	if _, err := dir.Add(identity.Identity{Email: "a@b.c", PasswordHash: hash}); err != nil {
		t.Fatal(err)
	}

	g, err := goGate.New().WithStrategy(kind).WithDirectory(dir).Build()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func whoami() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := goGate.IdentityFromContext(r.Context())
		if !ok {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(ident.Email))
	})
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestGuardBasic(t *testing.T) {
	h := Guard(newGate(t, strategy.KindBasic))(whoami())

	apitest.Handler(h).Get("/api/v1/users/me").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "Unauthorized")).
		End()

	apitest.Handler(h).Get("/api/v1/users/me").
		Header("Authorization", basic("a@b.c", "bad")).
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.error", "Forbidden")).
		End()

	apitest.Handler(h).Get("/api/v1/users/me").
		Header("Authorization", basic("a@b.c", "pwd")).
		Expect(t).
		Status(http.StatusOK).
		Body("a@b.c").
		End()

	apitest.Handler(h).Get("/api/v1/status").
		Expect(t).
		Status(http.StatusOK).
		Body("anonymous").
		End()
}

func TestGuardSessionCookie(t *testing.T) {
	g := newGate(t, strategy.KindSession)
	h := Guard(g)(whoami())

	res, err := g.Login(context.Background(), "a@b.c", "pwd")
	if err != nil {
		t.Fatal(err)
	}

	apitest.Handler(h).Get("/api/v1/users/me").
		Cookie(g.CookieName(), res.SessionID).
		Expect(t).
		Status(http.StatusOK).
		Body("a@b.c").
		End()

	apitest.Handler(h).Get("/api/v1/users/me").
		Cookie(g.CookieName(), "unknown").
		Expect(t).
		Status(http.StatusForbidden).
		End()
}

func TestGuardNilGate(t *testing.T) {
	apitest.Handler(Guard(nil)(whoami())).Get("/").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestOptionalAndRequireIdentity(t *testing.T) {
	g := newGate(t, strategy.KindBasic)
	h := Optional(g)(RequireIdentity(whoami()))

	apitest.Handler(h).Get("/api/v1/users/me").
		Header("Authorization", basic("a@b.c", "bad")).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	apitest.Handler(h).Get("/api/v1/users/me").
		Header("Authorization", basic("a@b.c", "pwd")).
		Expect(t).
		Status(http.StatusOK).
		Body("a@b.c").
		End()

	// excluded paths are never resolved
	apitest.Handler(h).Get("/api/v1/status").
		Header("Authorization", basic("a@b.c", "pwd")).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}
