package main

import (
	"github.com/spf13/cobra"

	"github.com/MrEthical07/goGate/internal/config"
)

// NewRootCmd creates the root command for the gogate CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gogate",
		Short: "goGate - request authentication gate",
		Long: `goGate authenticates HTTP requests with Basic credentials or session
cookies backed by memory, Redis or PostgreSQL.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file path (YAML)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewHashPasswordCmd())
	cmd.AddCommand(NewSessionsCmd())
	cmd.AddCommand(NewUsersCmd())
	cmd.AddCommand(NewLoadtestCmd())

	return cmd
}

// loadSettings reads settings for cmd from --config, the environment and
// the flags set on the command line.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Settings{}, err
	}

	s, err := config.Load(path, cmd.Flags())
	if err != nil {
		return config.Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}
