package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/premios/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/premios/internal/config"
	"github.com/vncsmyrnk/premios/internal/log"
)

// Runs a single Postgres migration by name fragment, or every up
// migration when the name is "all".
//
//	migrations 000002_create_choices.up
//	migrations all
func main() {
	logger := log.WithComponent("migrations")

	if len(os.Args) < 2 {
		logger.Fatal().Msg("a migration name is required")
	}
	migrationName := os.Args[1]

	cfg, err := config.LoadForDriver(config.DriverPostgres, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := sql.Open("postgres", cfg.Postgres.ConnString())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if migrationName == "all" {
		err = postgres.Migrate(ctx, db)
	} else {
		err = postgres.Apply(ctx, db, migrationName)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("migration", migrationName).Msg("migration failed")
	}

	logger.Info().Str("migration", migrationName).Msg("migration executed successfully")
}
