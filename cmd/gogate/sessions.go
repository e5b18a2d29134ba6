package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/internal/logutil"
)

// NewSessionsCmd creates the sessions command group.
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored sessions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete sessions that are past their duration",
		Long: `Delete stored sessions created more than the configured session
duration ago. Requires an expiring session strategy and a postgres backend.
Redis expires its records on its own.`,
		RunE: runSessionsPurge,
	})
	return cmd
}

func runSessionsPurge(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	switch goGate.SessionBackend(s.Session.Backend) {
	case goGate.BackendMemory:
		return oops.Code("CONFIG_INVALID").Errorf("memory sessions do not outlive the server process")
	case goGate.BackendRedis:
		fmt.Fprintln(cmd.OutOrStdout(), "redis drops expired sessions through key TTLs, nothing to purge")
		return nil
	}

	logger := logutil.New(cmd.ErrOrStderr(), s.Log.Level, s.Log.Format)
	ctx := logutil.WithLogger(cmd.Context(), logger)

	d, err := openDeps(ctx, s, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	gate, err := d.buildGate()
	if err != nil {
		return err
	}

	n, err := gate.PurgeExpiredSessions(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired sessions\n", n)
	return nil
}
