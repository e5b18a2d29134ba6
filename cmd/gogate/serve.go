package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/goGate/internal/httpapi"
	"github.com/MrEthical07/goGate/internal/httpserver"
	"github.com/MrEthical07/goGate/internal/logutil"
	promexport "github.com/MrEthical07/goGate/metrics/export/prometheus"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the /api/v1 endpoints behind the gate",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger := logutil.New(cmd.ErrOrStderr(), s.Log.Level, s.Log.Format)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logutil.WithLogger(ctx, logger)

	d, err := openDeps(ctx, s, logger)
	if err != nil {
		logger.Error().Err(err).Msg("unable to open backends")
		return err
	}
	defer d.Close()

	gate, err := d.buildGate()
	if err != nil {
		logger.Error().Err(err).Msg("unable to build gate")
		return err
	}

	mux := http.NewServeMux()
	if s.Metrics.Enabled {
		h, err := promexport.Handler(gate)
		if err != nil {
			return err
		}
		mux.Handle(s.Metrics.Path, h)
	}
	mux.Handle("/", httpapi.New(gate, logger).Handler())

	logger.Info().
		Str("strategy", string(gate.Strategy())).
		Str("session.backend", s.Session.Backend).
		Msg("gate ready")

	return httpserver.Serve(ctx, s.Addr(), mux)
}
