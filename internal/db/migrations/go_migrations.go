// Package migrations holds the schema as dialect-aware Go migrations; the
// scs session tables differ in column types between SQLite, PostgreSQL and
// MySQL.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
