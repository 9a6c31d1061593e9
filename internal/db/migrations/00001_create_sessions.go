package migrations

// Column types match what each scs store adapter expects: BLOB/REAL for
// SQLite, BYTEA/TIMESTAMPTZ for PostgreSQL, BLOB/TIMESTAMP(6) for MySQL.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSessions, downCreateSessions)
}

func upCreateSessions(ctx context.Context, tx *sql.Tx) error {
	var ddl, index string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS sessions (
    token  TEXT PRIMARY KEY,
    data   BYTEA NOT NULL,
    expiry TIMESTAMPTZ NOT NULL
)`
		index = `CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions (expiry)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS sessions (
    token  CHAR(43) PRIMARY KEY,
    data   BLOB NOT NULL,
    expiry TIMESTAMP(6) NOT NULL
)`
		index = `CREATE INDEX sessions_expiry_idx ON sessions (expiry)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS sessions (
    token  TEXT PRIMARY KEY,
    data   BLOB NOT NULL,
    expiry REAL NOT NULL
)`
		index = `CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions (expiry)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, index); err != nil {
		return fmt.Errorf("create sessions index: %w", err)
	}
	return nil
}

func downCreateSessions(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS sessions`)
	return err
}
