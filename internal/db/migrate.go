package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/wentitech/wentitech/internal/db/migrations"
)

//go:embed migrations
var Migrations embed.FS

// Migrate brings the schema up to date and returns the versions it applied.
// The server must not accept requests before it returns.
func Migrate(ctx context.Context, conn *sqlx.DB, driver string) ([]int64, error) {
	b, err := lookup(driver)
	if err != nil {
		return nil, err
	}
	migrations.SetDialect(driver)

	sources, err := fs.Sub(Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration sources: %w", err)
	}
	provider, err := goose.NewProvider(b.dialect, conn.DB, sources)
	if err != nil {
		return nil, fmt.Errorf("migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}
