package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/goGate/password"
)

// NewHashPasswordCmd creates the hash-password subcommand.
func NewHashPasswordCmd() *cobra.Command {
	var (
		algorithm string
		cost      int
	)

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pass, err := readPassword(cmd)
			if err != nil {
				return err
			}

			hasher, err := newHasher(algorithm, cost)
			if err != nil {
				return err
			}

			hash, err := hasher.Hash(pass)
			if err != nil {
				return oops.Code("HASH_FAILED").Wrap(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "bcrypt", "hash algorithm: bcrypt or argon2id")
	cmd.Flags().IntVar(&cost, "cost", password.DefaultBcryptCost, "bcrypt cost")
	return cmd
}

func newHasher(algorithm string, cost int) (password.Hasher, error) {
	switch strings.ToLower(algorithm) {
	case "bcrypt":
		return password.NewBcrypt(cost), nil
	case "argon2id", "argon2":
		return password.NewArgon2(password.DefaultArgon2Config())
	default:
		return nil, oops.Code("CONFIG_INVALID").With("algorithm", algorithm).Errorf("unknown hash algorithm")
	}
}

// readPassword reads the first line of stdin without its line ending.
func readPassword(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", oops.Code("INPUT_INVALID").Wrapf(err, "read password from stdin")
		}
		return "", oops.Code("INPUT_INVALID").Errorf("empty password")
	}
	return line, nil
}
