// Package db opens the application database and applies its migrations.
package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// backend describes one supported value of the db.driver setting.
type backend struct {
	sqlName string        // name registered with database/sql
	dialect goose.Dialect // migration dialect
	onOpen  []string      // statements run once after connecting
}

var backends = map[string]backend{
	// modernc.org/sqlite is CGO-free and registers as "sqlite".
	"sqlite3":  {sqlName: "sqlite", dialect: goose.DialectSQLite3, onOpen: []string{"PRAGMA journal_mode=WAL"}},
	"mysql":    {sqlName: "mysql", dialect: goose.DialectMySQL},
	"postgres": {sqlName: "postgres", dialect: goose.DialectPostgres},
}

// Drivers lists the accepted values of the db.driver setting.
var Drivers = []string{"sqlite3", "mysql", "postgres"}

const pingTimeout = 5 * time.Second

func lookup(driver string) (backend, error) {
	b, ok := backends[driver]
	if !ok {
		return backend{}, fmt.Errorf("unsupported DB driver %q: must be one of %s", driver, strings.Join(Drivers, ", "))
	}
	return b, nil
}

// New connects to the database and fails fast when it is unreachable.
func New(driver, dsn string) (*sqlx.DB, error) {
	b, err := lookup(driver)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	conn, err := sqlx.ConnectContext(ctx, b.sqlName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	for _, stmt := range b.onOpen {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return conn, nil
}
