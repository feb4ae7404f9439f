package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"noskip/internal/core"
	"noskip/internal/services"
	"noskip/internal/settings"
	"noskip/internal/storage"
)

var flags struct {
	configPath string
	dbPath     string
	userID     string
	timezone   string
	date       string
}

var rootCmd = &cobra.Command{
	Use:   "noskipctl",
	Short: "Inspect NoSkip habits, cycles and budgets from the terminal",
	Long: `noskipctl reads the NoSkip SQLite database directly and prints
streaks, the current budget cycle, budget progress and categories.

Defaults come from $XDG_CONFIG_HOME/noskip/config.toml and can be
overridden with flags.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", configPath(), "path to config.toml")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flags.userID, "user", "u", "", "user ID (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flags.timezone, "tz", "", "timezone for \"today\" (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flags.date, "date", "", "report as of YYYY-MM-DD instead of today")
}

// resolvedConfig loads the config file and applies flag overrides.
func resolvedConfig() (ctlConfig, error) {
	cfg, err := loadCtlConfig(flags.configPath)
	if err != nil {
		return cfg, err
	}
	if flags.dbPath != "" {
		cfg.Database.Path = flags.dbPath
	}
	if flags.userID != "" {
		cfg.User.ID = flags.userID
	}
	if flags.timezone != "" {
		cfg.Display.Timezone = flags.timezone
	}
	return cfg, nil
}

// app bundles the services a command needs for one user.
type app struct {
	userID       string
	repo         *storage.SQLiteRepository
	clock        services.Clock
	prefs        *settings.Service
	habits       *services.HabitService
	transactions *services.TransactionService
	budgets      *services.BudgetService
	categories   *services.CategoryService
}

func (a *app) Close() error {
	return a.repo.Close()
}

func openApp() (*app, error) {
	cfg, err := resolvedConfig()
	if err != nil {
		return nil, err
	}
	if cfg.User.ID == "" {
		return nil, errors.New("no user: set [user] id in config.toml or pass --user")
	}
	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Display.Timezone, err)
	}
	if _, err := os.Stat(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("database %s: %w", cfg.Database.Path, err)
	}

	clock, err := clockFor(loc, flags.date)
	if err != nil {
		return nil, err
	}

	repo, err := storage.NewSQLiteRepository(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	transactions := services.NewTransactionService(repo, nil, nil)
	return &app{
		userID:       cfg.User.ID,
		repo:         repo,
		clock:        clock,
		prefs:        settings.NewService(repo),
		habits:       services.NewHabitService(repo, clock),
		transactions: transactions,
		budgets:      services.NewBudgetService(repo, transactions),
		categories:   services.NewCategoryService(repo),
	}, nil
}

// clockFor returns the wall clock, or a clock fixed at noon of date in loc.
func clockFor(loc *time.Location, date string) (services.Clock, error) {
	if date == "" {
		return services.NewClock(loc), nil
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return services.Clock{}, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
	}
	return services.FixedClock(time.Date(d.Year(), time.Month(d.Month()), d.Day(), 12, 0, 0, 0, loc)), nil
}

// withApp opens the database for the duration of fn.
func withApp(fn func(ctx context.Context, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), a)
	}
}
