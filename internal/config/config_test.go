package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/strategy"
)

func clearLegacyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"AUTH_TYPE", "SESSION_NAME", "SESSION_DURATION", "API_HOST", "API_PORT"} {
		if v, ok := os.LookupEnv(name); ok {
			require.NoError(t, os.Unsetenv(name))
			t.Cleanup(func() { _ = os.Setenv(name, v) })
		}
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gogate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearLegacyEnv(t)

	s, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", s.Host)
	assert.Equal(t, 5000, s.Port)
	assert.Equal(t, "0.0.0.0:5000", s.Addr())
	assert.Equal(t, "none", s.Auth.Strategy)
	assert.Equal(t, goGate.DefaultExcludedPaths(), s.Auth.ExcludedPaths)
	assert.Equal(t, goGate.DefaultCookieName, s.Session.CookieName)
	assert.Equal(t, "memory", s.Session.Backend)
	assert.True(t, s.Metrics.Enabled)
	require.NoError(t, s.Validate())
}

func TestLoadYAMLFile(t *testing.T) {
	clearLegacyEnv(t)

	path := writeYAML(t, `
port: 8080
auth:
  strategy: session_exp_auth
  excluded_paths:
    - /api/v1/status/
session:
  cookie_name: sid
  duration: 60
  backend: redis
redis:
  addr: localhost:6379
`)

	s, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, s.Port)
	assert.Equal(t, []string{"/api/v1/status/"}, s.Auth.ExcludedPaths)
	assert.Equal(t, "localhost:6379", s.Redis.Addr)

	cfg, err := s.GateConfig()
	require.NoError(t, err)
	assert.Equal(t, strategy.KindSessionExpiration, cfg.Strategy)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, time.Minute, cfg.Session.Duration)
	assert.Equal(t, goGate.BackendRedis, cfg.Session.Backend)
}

func TestLoadMissingFile(t *testing.T) {
	clearLegacyEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "CONFIG_INVALID", oopsErr.Code())
}

func TestLegacyEnvironment(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("AUTH_TYPE", "session_auth")
	t.Setenv("SESSION_NAME", "_my_session_id")
	t.Setenv("SESSION_DURATION", "30")
	t.Setenv("API_HOST", "127.0.0.1")
	t.Setenv("API_PORT", "5001")

	s, err := Load(writeYAML(t, "auth:\n  strategy: basic_auth\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, "session_auth", s.Auth.Strategy, "environment overrides file")
	assert.Equal(t, 30, s.Session.Duration)
	assert.Equal(t, "127.0.0.1:5001", s.Addr())
}

func TestLegacySessionDurationUnparseable(t *testing.T) {
	k := koanf.New(".")
	env := map[string]string{"SESSION_DURATION": "soon"}

	err := loadLegacyEnv(k, func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	})
	require.NoError(t, err)
	assert.Equal(t, 0, k.Int("session.duration"))
}

func TestLegacyPortInvalid(t *testing.T) {
	k := koanf.New(".")
	err := loadLegacyEnv(k, func(name string) (string, bool) {
		if name == "API_PORT" {
			return "http", true
		}
		return "", false
	})
	require.Error(t, err)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("API_PORT", "5001")
	t.Setenv("AUTH_TYPE", "basic_auth")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--port", "9000", "--excluded-path", "/open/", "--excluded-path", "/pub*"}))

	s, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, 9000, s.Port)
	assert.Equal(t, "basic_auth", s.Auth.Strategy, "unset flags must not override the environment")
	assert.Equal(t, []string{"/open/", "/pub*"}, s.Auth.ExcludedPaths)
}

func TestValidate(t *testing.T) {
	clearLegacyEnv(t)

	s, err := Load("", nil)
	require.NoError(t, err)

	bad := s
	bad.Port = 0
	assert.Error(t, bad.Validate())

	bad = s
	bad.Auth.Strategy = "oauth"
	assert.Error(t, bad.Validate())

	bad = s
	bad.Session.Backend = "postgres"
	assert.Error(t, bad.Validate())

	bad = s
	bad.Metrics.Path = "metrics"
	assert.Error(t, bad.Validate())
}
