package main

import (
	"context"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/samber/oops"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/internal/config"
	"github.com/MrEthical07/goGate/storage/postgres"
)

// deps holds the backend connections opened for one command.
type deps struct {
	settings config.Settings
	logger   zerolog.Logger
	redis    redis.UniversalClient
	pool     *pgxpool.Pool
	closers  []func()
}

// openDeps connects the backends the settings name. With the redis backend
// and no address, an in-process miniredis is started for development.
func openDeps(ctx context.Context, s config.Settings, logger zerolog.Logger) (*deps, error) {
	d := &deps{settings: s, logger: logger}

	if s.Postgres.DSN != "" {
		pool, err := postgres.Connect(ctx, s.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		d.pool = pool
		d.closers = append(d.closers, pool.Close)
	}

	if goGate.SessionBackend(s.Session.Backend) == goGate.BackendRedis {
		addr := s.Redis.Addr
		if addr == "" {
			mr, err := miniredis.Run()
			if err != nil {
				d.Close()
				return nil, oops.Code("REDIS_START_FAILED").Wrapf(err, "start in-process redis")
			}
			d.closers = append(d.closers, mr.Close)
			addr = mr.Addr()
			logger.Warn().Str("redis.addr", addr).Msg("no redis address configured, sessions live in an in-process redis")
		}

		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{addr},
			Password: s.Redis.Password,
			DB:       s.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			d.Close()
			return nil, oops.Code("REDIS_CONNECT_FAILED").With("redis.addr", addr).Wrap(err)
		}
		d.redis = client
	}

	return d, nil
}

// Close releases connections in reverse order of opening.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// directory returns the postgres users table when a pool is open, or a
// memory directory seeded from the settings.
func (d *deps) directory() (identity.Directory, error) {
	if d.pool != nil {
		return postgres.NewIdentityDirectory(d.pool), nil
	}

	dir := identity.NewMemoryDirectory()
	for _, u := range d.settings.Users {
		if _, err := dir.Add(identity.Identity{
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
		}); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("email", u.Email).Wrap(err)
		}
	}
	return dir, nil
}

// buildGate wires a gate from the settings and open connections.
func (d *deps) buildGate() (*goGate.Gate, error) {
	cfg, err := d.settings.GateConfig()
	if err != nil {
		return nil, err
	}

	dir, err := d.directory()
	if err != nil {
		return nil, err
	}

	b := goGate.New().
		WithConfig(cfg).
		WithDirectory(dir).
		WithLogger(d.logger).
		WithMetricsEnabled(d.settings.Metrics.Enabled)
	if d.redis != nil {
		b = b.WithRedis(d.redis)
	}
	if d.pool != nil {
		b = b.WithPostgres(d.pool)
	}
	return b.Build()
}
