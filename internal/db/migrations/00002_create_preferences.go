package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePreferences, downCreatePreferences)
}

func upCreatePreferences(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS preferences (
    visitor_id TEXT NOT NULL,
    pref_key   TEXT NOT NULL,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (visitor_id, pref_key)
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS preferences (
    visitor_id CHAR(36) NOT NULL,
    pref_key   VARCHAR(64) NOT NULL,
    value      VARCHAR(255) NOT NULL,
    updated_at TIMESTAMP(6) NOT NULL,
    PRIMARY KEY (visitor_id, pref_key)
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS preferences (
    visitor_id TEXT NOT NULL,
    pref_key   TEXT NOT NULL,
    value      TEXT NOT NULL,
    updated_at DATETIME NOT NULL,
    PRIMARY KEY (visitor_id, pref_key)
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create preferences table: %w", err)
	}
	return nil
}

func downCreatePreferences(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS preferences`)
	return err
}
