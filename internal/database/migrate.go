package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrate applies every pending migration for the given dialect.
// Only goose.DialectMySQL (remote store) and goose.DialectSQLite3 (local store) have migrations.
func Migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	dir, err := migrationDir(dialect)
	if err != nil {
		return err
	}
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("fs.Sub(%s) > %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose.NewProvider(%s) > %w", dialect, err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("provider.Up(%s) > %w", dialect, err)
	}
	for _, result := range results {
		slog.Default().Info("applied migration",
			"dialect", dialect,
			"version", result.Source.Version,
			"duration", result.Duration,
		)
	}
	return nil
}

func migrationDir(dialect goose.Dialect) (string, error) {
	switch dialect {
	case goose.DialectMySQL:
		return "migrations/mysql", nil
	case goose.DialectSQLite3:
		return "migrations/sqlite", nil
	default:
		return "", fmt.Errorf("no migrations for dialect %q", dialect)
	}
}
