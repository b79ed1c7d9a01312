package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every up migration in name order. The statements are
// idempotent, so running it against a migrated database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) error {
	names, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := Apply(ctx, db, name); err != nil {
			return err
		}
	}
	return nil
}

// Apply runs the single migration file whose name contains the given fragment.
func Apply(ctx context.Context, db *sql.DB, fragment string) error {
	name, err := migrationFile(fragment)
	if err != nil {
		return err
	}

	content, err := migrationFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}

	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	return nil
}

func migrationFile(fragment string) (string, error) {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return "", fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.Contains(entry.Name(), fragment) || "migrations/"+entry.Name() == fragment {
			return "migrations/" + entry.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file not found: %s", fragment)
}
