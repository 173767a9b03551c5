package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/cmd/cli/commands"
	"github.com/jakechorley/health-ops/internal/config"
	"github.com/jakechorley/health-ops/pkg/core/matcher"
	"github.com/jakechorley/health-ops/pkg/core/services"
	"github.com/jakechorley/health-ops/pkg/db"
	"github.com/jakechorley/health-ops/pkg/postgres"
	"github.com/jakechorley/health-ops/pkg/seed"
	"github.com/jakechorley/health-ops/pkg/sqlite"
	"github.com/jakechorley/health-ops/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Health Ops CLI - Match caregivers to open home-health shifts",
		Long: `A CLI tool for listing open shifts, suggesting and committing caregiver
assignments, and tracking expiring licences.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.ListOpenShiftsCmd(app))
	rootCmd.AddCommand(commands.ListShiftsCmd(app))
	rootCmd.AddCommand(commands.SuggestAssignmentsCmd(app))
	rootCmd.AddCommand(commands.AssignShiftCmd(app))
	rootCmd.AddCommand(commands.ListExpiringComplianceCmd(app))
	rootCmd.AddCommand(commands.SeedCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.SchemaCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp loads config, then sets up the logger, matching options and store
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Configuration comes first: it names the log directory
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var logFile string
	app.Logger, logFile, err = logging.InitLogger(logging.Options{
		Env:     env,
		Dir:     app.Cfg.Logging.Dir,
		Verbose: app.Cfg.Logging.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))
	app.Logger.Debug("Configuration loaded",
		zap.String("path", app.Cfg.Path),
		zap.String("backend", app.Cfg.Database.Backend),
		zap.String("log_file", logFile))

	app.Options, err = buildOptions(app.Cfg)
	if err != nil {
		return err
	}

	app.Logger.Info("Connecting to database", zap.String("backend", app.Cfg.Database.Backend))
	app.Database, err = openDatabase(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return err
	}
	app.Logger.Info("Database initialized successfully")

	return nil
}

func buildOptions(cfg *config.Config) (services.Options, error) {
	classifier, err := matcher.NewClassifier(*cfg.Matching.DayStartHour, *cfg.Matching.DayEndHour)
	if err != nil {
		return services.Options{}, fmt.Errorf("invalid matching config: %w", err)
	}

	return services.Options{
		Classifier:            classifier,
		WindowMode:            matcher.WindowMode(cfg.Matching.WindowMode),
		RevalidateEligibility: *cfg.Matching.RevalidateOnAssign,
		Now:                   time.Now,
	}, nil
}

// openDatabase opens the configured backend and brings its schema up to date.
// The memory backend starts with the demo dataset so every command has data.
func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.Database, error) {
	switch cfg.Database.Backend {
	case config.BackendPostgres:
		connString, err := postgres.ConnString(cfg.Database.URL, cfg.Database.RequireSSL)
		if err != nil {
			return nil, err
		}
		pg, err := postgres.NewDB(ctx, connString)
		if err != nil {
			return nil, err
		}
		applied, err := pg.RunMigrations(ctx)
		if err != nil {
			pg.Close()
			return nil, err
		}
		logger.Debug("Migrations applied", zap.Strings("files", applied))
		return pg, nil

	case config.BackendSQLite:
		// New applies pending migrations itself
		store, err := sqlite.New(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Debug("SQLite database opened", zap.String("path", cfg.Database.SQLitePath))
		return store, nil

	case config.BackendMemory:
		store := db.NewMemory()
		if err := services.SeedDatabase(ctx, store, logger, seed.Default(time.Now()), false); err != nil {
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown database backend %q", cfg.Database.Backend)
}
