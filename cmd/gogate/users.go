package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/goGate/identity"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/storage/postgres"
)

// NewUsersCmd creates the users command group.
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage identities in the postgres users table",
	}

	var first, last string
	add := &cobra.Command{
		Use:   "add EMAIL",
		Short: "Create an identity; the password is read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if s.Postgres.DSN == "" {
				return oops.Code("CONFIG_INVALID").Errorf("postgres.dsn (--postgres-dsn) is required")
			}

			pass, err := readPassword(cmd)
			if err != nil {
				return err
			}
			hash, err := password.NewBcrypt(password.DefaultBcryptCost).Hash(pass)
			if err != nil {
				return oops.Code("HASH_FAILED").Wrap(err)
			}

			ctx := cmd.Context()
			pool, err := postgres.Connect(ctx, s.Postgres.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			ident, err := postgres.NewIdentityDirectory(pool).Create(ctx, identity.Identity{
				Email:        args[0],
				PasswordHash: hash,
				FirstName:    first,
				LastName:     last,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ident.ID)
			return nil
		},
	}
	add.Flags().StringVar(&first, "first-name", "", "first name")
	add.Flags().StringVar(&last, "last-name", "", "last name")

	cmd.AddCommand(add)
	return cmd
}
