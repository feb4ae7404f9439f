package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var setupSecret string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write the current flags into config.toml",
	Long: `setup merges --db, --user, --tz and --jwt-secret into the config file
and saves it, so later commands need no flags.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&setupSecret, "jwt-secret", "", "signing secret used by the token command")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg, err := resolvedConfig()
	if err != nil {
		return err
	}
	if setupSecret != "" {
		cfg.Auth.JWTSecret = setupSecret
	}
	if _, err := time.LoadLocation(cfg.Display.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", cfg.Display.Timezone, err)
	}

	if err := saveCtlConfig(flags.configPath, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Saved to %s\n", flags.configPath)
	fmt.Fprintf(out, "    Database: %s\n", cfg.Database.Path)
	fmt.Fprintf(out, "    User:     %s\n", cfg.User.ID)
	fmt.Fprintf(out, "    Timezone: %s\n", cfg.Display.Timezone)
	fmt.Fprintf(out, "    Secret:   %s\n", maskSecret(cfg.Auth.JWTSecret))
	return nil
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return "not configured"
	case len(s) > 8:
		return s[:4] + "..." + s[len(s)-2:]
	default:
		return "****"
	}
}
