package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/goGate/storage/postgres"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users and user_sessions tables",
		Long:  `Apply the PostgreSQL schema. The statements are idempotent.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if s.Postgres.DSN == "" {
		return oops.Code("CONFIG_INVALID").Errorf("postgres.dsn (--postgres-dsn) is required")
	}

	ctx := cmd.Context()

	cmd.Println("Connecting to database...")
	pool, err := postgres.Connect(ctx, s.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
