package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pharmacie/m/internal/config"
	"pharmacie/m/internal/database"
	"pharmacie/m/internal/migrations"
	"pharmacie/m/internal/storage"
	"pharmacie/m/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "pharmacie",
	Short:         "Pharmacy storefront service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		setupLogger(config.Load())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, resetCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("service", "pharmacie").Logger()
}

// openStore connects to the configured database, applies migrations and
// loads the store. The caller closes the returned DB.
func openStore(ctx context.Context, cfg config.Config, opts ...store.Option) (*store.Store, *sqlx.DB, error) {
	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	opts = append([]store.Option{store.WithPrefix(cfg.StoragePrefix)}, opts...)
	s, err := store.New(ctx, storage.NewSQL(db), opts...)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("load store: %w", err)
	}
	return s, db, nil
}
