// Package repository opens the configured database and builds the
// question and choice repositories on top of it.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/premios/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/premios/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/premios/internal/config"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

type Store struct {
	DB        *sql.DB
	Driver    string
	Questions ports.QuestionRepository
	Choices   ports.ChoiceRepository
}

// Open connects to the database selected by cfg.DBDriver. The SQLite schema
// is created on open; Postgres needs Migrate.
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Postgres.ConnString())
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return &Store{
			DB:        db,
			Driver:    config.DriverPostgres,
			Questions: postgres.NewQuestionRepository(db),
			Choices:   postgres.NewChoiceRepository(db),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, sqlite.DefaultConfig())
		if err != nil {
			return nil, err
		}
		return &Store{
			DB:        db,
			Driver:    config.DriverSQLite,
			Questions: sqlite.NewQuestionRepository(db),
			Choices:   sqlite.NewChoiceRepository(db),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.DBDriver)
	}
}

// Migrate brings the schema up to date.
func (s *Store) Migrate(ctx context.Context) error {
	if s.Driver == config.DriverPostgres {
		return postgres.Migrate(ctx, s.DB)
	}
	return sqlite.CreateSchema(ctx, s.DB)
}

func (s *Store) Close() error {
	return s.DB.Close()
}
