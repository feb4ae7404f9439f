package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"noskip/internal/middleware/auth"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token for the configured user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolvedConfig()
		if err != nil {
			return err
		}
		if cfg.User.ID == "" {
			return errors.New("no user: set [user] id in config.toml or pass --user")
		}
		secret := cfg.jwtSecret()
		if secret == "" {
			return errors.New("no signing secret: set JWT_SECRET or [auth] jwt_secret")
		}
		token, err := auth.IssueToken(secret, cfg.User.ID, tokenTTL)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
