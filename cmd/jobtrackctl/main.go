// Command jobtrackctl is the operator CLI for a jobtracker deployment.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"jobtracker/internal/app"
	"jobtracker/internal/config"
	"jobtracker/internal/database"
	"jobtracker/internal/logging"
	"jobtracker/internal/storage"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "jobtrackctl",
	Short:         "Administer a jobtracker deployment",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// env is what most subcommands need: config, a database handle and a logger.
// The caller must defer env.Close().
type env struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *slog.Logger
}

func newEnv() (*env, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &env{cfg: cfg, db: db, logger: logger}, nil
}

func (e *env) Close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// services builds the full service graph, including the blob store.
func (e *env) services(ctx context.Context) (*app.Services, error) {
	store, err := storage.NewFromConfig(ctx, e.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return app.NewServices(e.cfg, e.db, store, e.logger)
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("email", "", "Email address of the new user")
	_ = userCreateCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesSweepCmd)
	filesSweepCmd.Flags().Duration("grace", defaultSweepGrace, "Skip objects younger than this")
	filesSweepCmd.Flags().Bool("dry-run", false, "Report orphans without deleting them")

	rootCmd.AddCommand(tokensCmd)
	tokensCmd.AddCommand(tokensPruneCmd)

	rootCmd.AddCommand(seedCmd)
}
