// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/wentitech/wentitech/internal/db"
)

// NewTestDB returns a migrated in-memory SQLite database private to t.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	// Shared cache lets every pool connection see the same database;
	// the test name keeps tests apart.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.New("sqlite3", "file:"+name+"?mode=memory&cache=shared&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if _, err := db.Migrate(context.Background(), conn, "sqlite3"); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return conn
}
