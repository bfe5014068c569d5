package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/store-mgmt/store-api/cmd/storectl/cli"
	"github.com/store-mgmt/store-api/internal/app"
	"github.com/store-mgmt/store-api/internal/categories"
	"github.com/store-mgmt/store-api/internal/platform/db"
	"github.com/store-mgmt/store-api/internal/rbac"
	"github.com/store-mgmt/store-api/migrations"
)

// exitError carries a command exit code through cobra.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Operator commands for the store API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), seedCmd(), rolesCmd(), jobsCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		var code exitError
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintln(os.Stderr, "storectl:", err)
		os.Exit(1)
	}
}

func exitCode(code int) error {
	if code == 0 {
		return nil
	}
	return exitError(code)
}

func loadConfig() (*app.Config, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded SQL migrations to DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg)
			pool, err := db.New(cmd.Context(), cfg.DatabaseURL, cfg.PoolOptions())
			if err != nil {
				return err
			}
			defer pool.Close()
			applied, err := migrations.Apply(cmd.Context(), pool, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var opts cli.SeedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a user with the given role",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StoreDriver == app.DriverMemory {
				return errors.New("seed needs STORE_DRIVER=postgres; the memory store does not outlive this process")
			}
			pool, err := db.New(cmd.Context(), cfg.DatabaseURL, cfg.PoolOptions())
			if err != nil {
				return err
			}
			defer pool.Close()
			store, err := app.NewUserStore(cfg, app.Infra{Pool: pool})
			if err != nil {
				return err
			}
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			return exitCode(cli.SeedCommand(cmd.Context(), store, rbac.DefaultTable(), opts))
		},
	}
	cmd.Flags().StringVar(&opts.Username, "username", "", "login name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "plain password, hashed before storage")
	cmd.Flags().StringVar(&opts.Role, "role", rbac.RoleEmployee, "role name from the role table")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func rolesCmd() *cobra.Command {
	var opts cli.RolesOptions
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Print the role table",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			return exitCode(cli.RolesCommand(rbac.DefaultTable(), opts))
		},
	}
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "emit JSON")
	return cmd
}

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and trigger background jobs",
	}

	var query categories.ListQuery
	warmup := &cobra.Command{
		Use:   "warmup",
		Short: "Enqueue a categories listing warmup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJobs(func(jc *cli.JobsCLI) error {
				info, err := jc.Warmup(cmd.Context(), query)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
				return nil
			})
		},
	}
	warmup.Flags().StringVar(&query.Search, "search", "", "name pattern")
	warmup.Flags().IntVar(&query.Offset, "offset", 0, "window offset")
	warmup.Flags().IntVar(&query.Limit, "limit", 0, "window size; 0 with no search or offset warms the full list")

	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Show default queue counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJobs(func(jc *cli.JobsCLI) error {
				stats, err := jc.InspectQueue(cmd.Context())
				if err != nil {
					return err
				}
				cli.WriteStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}

	cmd.AddCommand(warmup, inspect)
	return cmd
}

func withJobs(fn func(*cli.JobsCLI) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.RedisAddr == "" {
		return errors.New("jobs commands need REDIS_ADDR")
	}
	jc, err := cli.NewJobsCLI(cfg.QueueOptions())
	if err != nil {
		return err
	}
	defer func() { _ = jc.Close() }()
	return fn(jc)
}
