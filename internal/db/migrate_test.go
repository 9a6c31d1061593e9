package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite3, mysql, postgres")
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := New("sqlite3", "file:migrate_idempotent?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	applied, err := Migrate(context.Background(), conn, "sqlite3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, applied)

	applied, err = Migrate(context.Background(), conn, "sqlite3")
	require.NoError(t, err)
	assert.Empty(t, applied)

	for _, table := range []string{"sessions", "preferences"} {
		var n int
		require.NoError(t, conn.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table))
		assert.Equal(t, 1, n, table)
	}
}

func TestMigrateRejectsUnknownDriver(t *testing.T) {
	conn, err := New("sqlite3", "file:migrate_unknown?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = Migrate(context.Background(), conn, "oracle")
	assert.Error(t, err)
}
