package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/session"
	"github.com/MrEthical07/goGate/strategy"
)

type loadtestOptions struct {
	sessions    int
	users       int
	concurrency int
	ops         int
	redisAddr   string
	prefix      string
}

// NewLoadtestCmd creates the loadtest subcommand.
func NewLoadtestCmd() *cobra.Command {
	opts := loadtestOptions{}

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Measure gate check and logout latency against Redis sessions",
		Long: `Seed sessions in the Redis at --redis-addr (or an in-process miniredis
when no address is given), then run a check phase and a logout phase with concurrent workers
and print throughput and latency percentiles.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.sessions <= 0 || opts.users <= 0 || opts.concurrency <= 0 || opts.ops <= 0 {
				return oops.Code("INPUT_INVALID").Errorf("sessions, users, concurrency and ops must be > 0")
			}
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			opts.redisAddr = settings.Redis.Addr
			return runLoadtest(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.sessions, "sessions", 10000, "number of sessions to seed")
	cmd.Flags().IntVar(&opts.users, "users", 100, "number of identities owning the sessions")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 64, "number of concurrent workers")
	cmd.Flags().IntVar(&opts.ops, "ops", 50000, "operations in the check phase")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "gs-load", "session key prefix")
	return cmd
}

func runLoadtest(ctx context.Context, out io.Writer, opts loadtestOptions) error {
	addr := opts.redisAddr
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return oops.Code("REDIS_START_FAILED").Wrap(err)
		}
		defer mr.Close()
		addr = mr.Addr()
		fmt.Fprintf(out, "using miniredis at %s\n", addr)
	} else {
		fmt.Fprintf(out, "using redis at %s\n", addr)
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	defer func() { _ = client.Close() }()

	dir := identity.NewMemoryDirectory()
	userIDs := make([]string, 0, opts.users)
	for i := 0; i < opts.users; i++ {
		ident, err := dir.Add(identity.Identity{Email: fmt.Sprintf("user-%d@example.com", i)})
		if err != nil {
			return err
		}
		userIDs = append(userIDs, ident.ID)
	}

	cfg := goGate.DefaultConfig()
	cfg.Strategy = strategy.KindSessionDurable
	cfg.Session.Backend = goGate.BackendRedis
	cfg.Session.RedisPrefix = opts.prefix
	cfg.Session.Duration = 24 * time.Hour

	gate, err := goGate.New().
		WithConfig(cfg).
		WithRedis(client).
		WithDirectory(dir).
		WithLogger(zerolog.Nop()).
		Build()
	if err != nil {
		return err
	}

	// seeding bypasses password verification
	manager := session.NewManager(
		session.NewRedisStore(client, opts.prefix),
		session.WithExpiration(cfg.Session.Duration),
	)

	sids := make([]string, opts.sessions)
	fmt.Fprintf(out, "seeding %d sessions...\n", opts.sessions)
	startSeed := time.Now()
	for i := range sids {
		sid, err := manager.Create(ctx, userIDs[i%len(userIDs)])
		if err != nil {
			return err
		}
		sids[i] = sid
	}
	fmt.Fprintf(out, "seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	checkStats := runPhase(opts.ops, opts.concurrency, func(r *rand.Rand, _ int) error {
		sid := sids[r.Intn(len(sids))]
		v := gate.Check(ctx, strategy.Request{
			Path:    "/api/v1/users/me",
			Cookies: map[string]string{cfg.Session.CookieName: sid},
		})
		if v.Decision != goGate.DecisionAuthenticated {
			return fmt.Errorf("unexpected decision %s", v.Decision)
		}
		return nil
	})

	logoutStats := runPhase(len(sids), opts.concurrency, func(_ *rand.Rand, i int) error {
		ok, err := gate.Logout(ctx, sids[i])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("session %s already gone", session.Fingerprint(sids[i]))
		}
		return nil
	})

	fmt.Fprintln(out, "---- results ----")
	printStats(out, "check", checkStats)
	printStats(out, "logout", logoutStats)
	return nil
}

// runPhase runs op ops times across concurrency workers. op receives a
// per-worker random source and the operation index.
func runPhase(ops, concurrency int, op func(r *rand.Rand, i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r, i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(out io.Writer, name string, s phaseStats) {
	fmt.Fprintf(out, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
