package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/strategy"
)

const (
	email = "bob@hbtn.io"
	pwd   = "H0lberton"
)

func newHandler(t *testing.T, kind strategy.Kind) (http.Handler, *goGate.Gate) {
	t.Helper()

	hash, err := password.NewBcrypt(4).Hash(pwd)
	require.NoError(t, err)

	dir := identity.NewMemoryDirectory()
	_, err = dir.Add(identity.Identity{Email: email, PasswordHash: hash, FirstName: "Bob", LastName: "Dylan"})
	require.NoError(t, err)

	g, err := goGate.New().WithStrategy(kind).WithDirectory(dir).Build()
	require.NoError(t, err)

	return New(g, zerolog.Nop()).Handler(), g
}

func TestOpenEndpoints(t *testing.T) {
	h, _ := newHandler(t, strategy.KindSession)

	apitest.New().Handler(h).
		Get("/api/v1/status").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "OK")).
		End()

	apitest.New().Handler(h).
		Get("/api/v1/stats").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.users", float64(1))).
		Assert(jsonpath.Equal("$.sessions", float64(0))).
		End()

	apitest.New().Handler(h).
		Get("/api/v1/unauthorized").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "Unauthorized")).
		End()

	apitest.New().Handler(h).
		Get("/api/v1/forbidden").
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.error", "Forbidden")).
		End()
}

func TestLoginErrors(t *testing.T) {
	h, _ := newHandler(t, strategy.KindSession)

	cases := []struct {
		name   string
		form   map[string]string
		status int
		msg    string
	}{
		{"no email", map[string]string{"password": pwd}, http.StatusBadRequest, "email missing"},
		{"no password", map[string]string{"email": email}, http.StatusBadRequest, "password missing"},
		{"unknown", map[string]string{"email": "nobody@hbtn.io", "password": pwd}, http.StatusNotFound, "no user found for this email"},
		{"wrong password", map[string]string{"email": email, "password": "nope"}, http.StatusUnauthorized, "wrong password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := apitest.New().Handler(h).Post("/api/v1/auth/login")
			for k, v := range tc.form {
				req = req.FormData(k, v)
			}
			req.Expect(t).
				Status(tc.status).
				Assert(jsonpath.Equal("$.error", tc.msg)).
				CookieNotPresent(goGate.DefaultCookieName).
				End()
		})
	}
}

func TestLoginMeLogout(t *testing.T) {
	h, g := newHandler(t, strategy.KindSession)

	res := apitest.New().Handler(h).
		Post("/api/v1/auth/login").
		FormData("email", email).
		FormData("password", pwd).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.email", email)).
		Assert(jsonpath.NotPresent("$.PasswordHash")).
		CookiePresent(g.CookieName()).
		End()

	var sid string
	for _, c := range res.Response.Cookies() {
		if c.Name == g.CookieName() {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)

	apitest.New().Handler(h).
		Get("/api/v1/users/me").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	apitest.New().Handler(h).
		Get("/api/v1/users/me").
		BasicAuth(email, pwd).
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.error", "Forbidden")).
		End()

	apitest.New().Handler(h).
		Get("/api/v1/users/me").
		Cookie(g.CookieName(), sid).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.email", email)).
		Assert(jsonpath.Equal("$.first_name", "Bob")).
		End()

	apitest.New().Handler(h).
		Get("/api/v1/stats").
		Expect(t).
		Assert(jsonpath.Equal("$.sessions", float64(1))).
		End()

	apitest.New().Handler(h).
		Delete("/api/v1/auth/logout").
		Cookie(g.CookieName(), sid).
		Expect(t).
		Status(http.StatusOK).
		Body(`{}`).
		End()

	apitest.New().Handler(h).
		Get("/api/v1/users/me").
		Cookie(g.CookieName(), sid).
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.error", "Forbidden")).
		End()
}

func TestNoAuthStrategy(t *testing.T) {
	h, _ := newHandler(t, strategy.KindNone)

	apitest.New().Handler(h).
		Get("/api/v1/users/me").
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.error", "Not Found")).
		End()

	apitest.New().Handler(h).
		Post("/api/v1/auth/login").
		FormData("email", email).
		FormData("password", pwd).
		Expect(t).
		Status(http.StatusNotFound).
		End()

	apitest.New().Handler(h).
		Get("/api/v1/nowhere").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestBasicStrategy(t *testing.T) {
	h, _ := newHandler(t, strategy.KindBasic)

	apitest.New().Handler(h).
		Get("/api/v1/users/me").
		BasicAuth(email, pwd).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.email", email)).
		End()

	apitest.New().Handler(h).
		Get("/api/v1/users/me").
		BasicAuth(email, "nope").
		Expect(t).
		Status(http.StatusForbidden).
		End()

	// protected paths are denied before routing
	apitest.New().Handler(h).
		Get("/api/v1/nowhere").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

type brokenDirectory struct{}

func (brokenDirectory) FindByEmail(context.Context, string) ([]identity.Identity, error) {
	return nil, errors.New("connection refused")
}

func (brokenDirectory) FindByID(context.Context, string) (*identity.Identity, error) {
	return nil, errors.New("connection refused")
}

func (brokenDirectory) Count(context.Context) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestBackendFaults(t *testing.T) {
	g, err := goGate.New().
		WithStrategy(strategy.KindSession).
		WithDirectory(brokenDirectory{}).
		Build()
	require.NoError(t, err)
	h := New(g, zerolog.Nop()).Handler()

	apitest.New().Handler(h).
		Post("/api/v1/auth/login").
		FormData("email", email).
		FormData("password", pwd).
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(jsonpath.Equal("$.error", "Internal Server Error")).
		End()

	apitest.New().Handler(h).
		Get("/api/v1/stats").
		Expect(t).
		Status(http.StatusInternalServerError).
		End()

	assert.Equal(t, uint64(1), g.Metrics().Value(goGate.MetricBackendFailure))
}
