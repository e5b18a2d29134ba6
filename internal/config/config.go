// Package config loads process settings for the gogate binary.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults
//  2. an optional YAML file
//  3. the legacy environment variables AUTH_TYPE, SESSION_NAME,
//     SESSION_DURATION, API_HOST and API_PORT
//  4. command-line flags that were explicitly set
package config

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/strategy"
)

// Settings is the full process configuration.
type Settings struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Log      Log      `koanf:"log"`
	Auth     Auth     `koanf:"auth"`
	Session  Session  `koanf:"session"`
	Redis    Redis    `koanf:"redis"`
	Postgres Postgres `koanf:"postgres"`
	Metrics  Metrics  `koanf:"metrics"`
	Users    []User   `koanf:"users"`
}

// User seeds the in-memory identity directory when no postgres DSN is set.
type User struct {
	Email        string `koanf:"email"`
	PasswordHash string `koanf:"password_hash"`
	FirstName    string `koanf:"first_name"`
	LastName     string `koanf:"last_name"`
}

// Log configures zerolog output.
type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Auth selects the strategy and the open paths.
type Auth struct {
	Strategy      string   `koanf:"strategy"`
	ExcludedPaths []string `koanf:"excluded_paths"`
}

// Session configures the session strategies. Duration is in seconds; ≤0
// disables expiration.
type Session struct {
	CookieName   string `koanf:"cookie_name"`
	Duration     int    `koanf:"duration"`
	Backend      string `koanf:"backend"`
	RedisPrefix  string `koanf:"redis_prefix"`
	CookieSecure bool   `koanf:"cookie_secure"`
}

// Redis addresses the redis session backend. An empty Addr with the redis
// backend selected starts an in-process server for development.
type Redis struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Postgres addresses the identity directory and durable session table.
type Postgres struct {
	DSN string `koanf:"dsn"`
}

// Metrics configures the /metrics endpoint.
type Metrics struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

func defaults() map[string]any {
	cfg := goGate.DefaultConfig()
	return map[string]any{
		"host":                  "0.0.0.0",
		"port":                  5000,
		"log.level":             "info",
		"log.format":            "console",
		"auth.strategy":         string(strategy.KindNone),
		"auth.excluded_paths":   cfg.ExcludedPaths,
		"session.cookie_name":   cfg.Session.CookieName,
		"session.duration":      0,
		"session.backend":       string(cfg.Session.Backend),
		"session.redis_prefix":  cfg.Session.RedisPrefix,
		"session.cookie_secure": false,
		"redis.addr":            "",
		"redis.password":        "",
		"redis.db":              0,
		"postgres.dsn":          "",
		"metrics.enabled":       true,
		"metrics.path":          "/metrics",
	}
}

// flagKeys maps command-line flag names to settings keys.
var flagKeys = map[string]string{
	"host":             "host",
	"port":             "port",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"strategy":         "auth.strategy",
	"excluded-path":    "auth.excluded_paths",
	"cookie-name":      "session.cookie_name",
	"session-duration": "session.duration",
	"session-backend":  "session.backend",
	"redis-prefix":     "session.redis_prefix",
	"cookie-secure":    "session.cookie_secure",
	"redis-addr":       "redis.addr",
	"redis-password":   "redis.password",
	"redis-db":         "redis.db",
	"postgres-dsn":     "postgres.dsn",
	"metrics":          "metrics.enabled",
	"metrics-path":     "metrics.path",
}

// RegisterFlags adds the settings flags to fs. Flag defaults are
// informational; only flags set on the command line override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	d := defaults()
	fs.String("host", d["host"].(string), "listen host (env API_HOST)")
	fs.Int("port", d["port"].(int), "listen port (env API_PORT)")
	fs.String("log-level", d["log.level"].(string), "log level")
	fs.String("log-format", d["log.format"].(string), "log format: console or json")
	fs.String("strategy", d["auth.strategy"].(string), "authentication strategy (env AUTH_TYPE): "+kindList())
	fs.StringSlice("excluded-path", nil, "path excluded from authentication, repeatable")
	fs.String("cookie-name", d["session.cookie_name"].(string), "session cookie name (env SESSION_NAME)")
	fs.Int("session-duration", 0, "session lifetime in seconds, 0 never expires (env SESSION_DURATION)")
	fs.String("session-backend", d["session.backend"].(string), "session backend: memory, redis or postgres")
	fs.String("redis-prefix", d["session.redis_prefix"].(string), "redis key prefix for sessions")
	fs.Bool("cookie-secure", false, "mark the session cookie Secure")
	fs.String("redis-addr", "", "redis address, empty starts an in-process server")
	fs.String("redis-password", "", "redis password")
	fs.Int("redis-db", 0, "redis database")
	fs.String("postgres-dsn", "", "postgres connection string")
	fs.Bool("metrics", true, "serve prometheus metrics")
	fs.String("metrics-path", d["metrics.path"].(string), "metrics endpoint path")
}

func kindList() string {
	kinds := strategy.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// Load layers defaults, the YAML file at path (skipped when empty), the
// legacy environment and the changed flags in fs (may be nil).
func Load(path string, fs *pflag.FlagSet) (Settings, error) {
	k := koanf.New(".")

	for key, v := range defaults() {
		if err := k.Set(key, v); err != nil {
			return Settings{}, oops.Code("CONFIG_INVALID").With("key", key).Wrap(err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Settings{}, oops.Code("CONFIG_INVALID").With("path", path).Wrapf(err, "load config file")
		}
	}

	if err := loadLegacyEnv(k, os.LookupEnv); err != nil {
		return Settings{}, err
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Settings{}, oops.Code("CONFIG_INVALID").Wrapf(err, "load flags")
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, oops.Code("CONFIG_INVALID").Wrapf(err, "decode settings")
	}
	return s, nil
}

// loadLegacyEnv maps the legacy environment variable names. An
// unparseable SESSION_DURATION means no expiration.
func loadLegacyEnv(k *koanf.Koanf, lookup func(string) (string, bool)) error {
	set := func(key string, v any) error {
		if err := k.Set(key, v); err != nil {
			return oops.Code("CONFIG_INVALID").With("key", key).Wrap(err)
		}
		return nil
	}

	if v, ok := lookup("AUTH_TYPE"); ok {
		if err := set("auth.strategy", v); err != nil {
			return err
		}
	}
	if v, ok := lookup("SESSION_NAME"); ok && v != "" {
		if err := set("session.cookie_name", v); err != nil {
			return err
		}
	}
	if v, ok := lookup("SESSION_DURATION"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			n = 0
		}
		if err := set("session.duration", n); err != nil {
			return err
		}
	}
	if v, ok := lookup("API_HOST"); ok && v != "" {
		if err := set("host", v); err != nil {
			return err
		}
	}
	if v, ok := lookup("API_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return oops.Code("CONFIG_INVALID").With("API_PORT", v).Errorf("API_PORT must be a number")
		}
		if err := set("port", port); err != nil {
			return err
		}
	}
	return nil
}

// Addr is the listen address.
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// GateConfig converts the settings into a validated goGate.Config.
func (s Settings) GateConfig() (goGate.Config, error) {
	kind, err := strategy.ParseKind(s.Auth.Strategy)
	if err != nil {
		return goGate.Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	cfg := goGate.DefaultConfig()
	cfg.Strategy = kind
	if s.Auth.ExcludedPaths != nil {
		cfg.ExcludedPaths = append([]string(nil), s.Auth.ExcludedPaths...)
	}
	cfg.Session.CookieName = s.Session.CookieName
	cfg.Session.Duration = time.Duration(s.Session.Duration) * time.Second
	cfg.Session.Backend = goGate.SessionBackend(strings.ToLower(s.Session.Backend))
	cfg.Session.RedisPrefix = s.Session.RedisPrefix
	cfg.Session.CookieSecure = s.Session.CookieSecure
	if s.Session.CookieSecure {
		cfg.Session.CookieSameSite = http.SameSiteStrictMode
	}

	if err := cfg.Validate(); err != nil {
		return goGate.Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return cfg, nil
}

// Validate checks the settings that GateConfig does not cover.
func (s Settings) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return oops.Code("CONFIG_INVALID").With("port", s.Port).Errorf("port out of range")
	}
	if s.Metrics.Enabled && !strings.HasPrefix(s.Metrics.Path, "/") {
		return oops.Code("CONFIG_INVALID").With("path", s.Metrics.Path).Errorf("metrics path must start with /")
	}
	if goGate.SessionBackend(s.Session.Backend) == goGate.BackendPostgres && s.Postgres.DSN == "" {
		return oops.Code("CONFIG_INVALID").Errorf("postgres session backend requires postgres.dsn")
	}
	_, err := s.GateConfig()
	return err
}
