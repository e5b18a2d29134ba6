package goGate

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/paths"
	"github.com/MrEthical07/goGate/session"
	"github.com/MrEthical07/goGate/storage/postgres"
	"github.com/MrEthical07/goGate/strategy"
)

// Builder assembles a Gate. A Builder can be built once.
type Builder struct {
	config Config

	redis        redis.UniversalClient
	pool         *pgxpool.Pool
	directory    identity.Directory
	verifier     password.Verifier
	sessionStore session.Store
	logger       *zerolog.Logger
	now          func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the configuration. cfg is copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStrategy sets the strategy kind.
func (b *Builder) WithStrategy(kind strategy.Kind) *Builder {
	b.config.Strategy = kind
	return b
}

// WithRedis supplies the client for the redis session backend.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithPostgres supplies the pool for the postgres session backend. When no
// directory is set, the users table becomes the identity directory.
func (b *Builder) WithPostgres(pool *pgxpool.Pool) *Builder {
	b.pool = pool
	return b
}

// WithDirectory sets the identity directory.
func (b *Builder) WithDirectory(dir identity.Directory) *Builder {
	b.directory = dir
	return b
}

// WithVerifier sets the password verifier. Defaults to password.NewAuto().
func (b *Builder) WithVerifier(v password.Verifier) *Builder {
	b.verifier = v
	return b
}

// WithSessionStore overrides the store selected by Session.Backend.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.sessionStore = store
	return b
}

// WithLogger sets the logger used when the request context carries none.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithClock replaces time.Now for session timestamps and expiration.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the check latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the selected strategy.
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if cfg.Strategy == "" {
		cfg.Strategy = strategy.KindNone
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	directory := b.directory
	if directory == nil && b.pool != nil {
		directory = postgres.NewIdentityDirectory(b.pool)
	}
	if directory == nil && cfg.Strategy != strategy.KindNone {
		return nil, errors.New("identity directory required")
	}

	verifier := b.verifier
	if verifier == nil {
		verifier = password.NewAuto()
	}

	logger := log.Logger
	if b.logger != nil {
		logger = *b.logger
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	gate := &Gate{
		config:    cloneConfig(cfg),
		directory: directory,
		verifier:  verifier,
		metrics:   NewMetrics(cfg.Metrics),
		logger:    logger.With().Str("component", "gogate").Str("strategy", string(cfg.Strategy)).Logger(),
	}

	excluded := paths.NewSet(cfg.ExcludedPaths)

	switch {
	case cfg.Strategy == strategy.KindNone:
		gate.strategy = strategy.NoAuth{}
	case cfg.Strategy == strategy.KindBasic:
		gate.strategy = strategy.NewBasic(excluded, identity.NewResolver(directory, verifier))
	case cfg.Strategy.IsSession():
		store, err := b.buildSessionStore(cfg)
		if err != nil {
			return nil, err
		}

		opts := []session.ManagerOption{session.WithClock(now)}
		if cfg.Strategy != strategy.KindSession {
			opts = append(opts, session.WithExpiration(cfg.Session.Duration))
		}
		if cfg.Strategy == strategy.KindSessionDurable {
			opts = append(opts, session.WithIdentityChecker(identityChecker(directory)))
		}

		s := strategy.NewSession(cfg.Strategy, excluded, session.NewManager(store, opts...), directory, cfg.Session.CookieName)
		s.OnExpired = func(context.Context) {
			gate.metrics.Inc(MetricSessionExpired)
		}
		gate.strategy = s
		gate.sessions = s
	}

	b.built = true

	return gate, nil
}

func (b *Builder) buildSessionStore(cfg Config) (session.Store, error) {
	if b.sessionStore != nil {
		return b.sessionStore, nil
	}

	switch cfg.Session.Backend {
	case BackendRedis:
		if b.redis == nil {
			return nil, errors.New("redis session backend requires a redis client")
		}
		return session.NewRedisStore(b.redis, cfg.Session.RedisPrefix), nil
	case BackendPostgres:
		if b.pool == nil {
			return nil, errors.New("postgres session backend requires a pgx pool")
		}
		return postgres.NewSessionStore(b.pool), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

func identityChecker(dir identity.Directory) session.IdentityChecker {
	if c, ok := dir.(session.IdentityChecker); ok {
		return c
	}
	return session.IdentityCheckerFunc(func(ctx context.Context, userID string) (bool, error) {
		return identity.Exists(ctx, dir, userID)
	})
}
