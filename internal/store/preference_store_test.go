package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wentitech/wentitech/internal/store"
	"github.com/wentitech/wentitech/internal/testutil"
)

func newPreferenceStore(t *testing.T) *store.PreferenceStore {
	t.Helper()
	return store.NewPreferenceStore(testutil.NewTestDB(t))
}

func TestPreferenceGetMissing(t *testing.T) {
	ps := newPreferenceStore(t)
	_, err := ps.Get(context.Background(), "visitor-1", "darkMode")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPreferenceSetOverwrites(t *testing.T) {
	ps := newPreferenceStore(t)
	ctx := context.Background()

	require.NoError(t, ps.Set(ctx, "visitor-1", "darkMode", "true"))
	got, err := ps.Get(ctx, "visitor-1", "darkMode")
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	require.NoError(t, ps.Set(ctx, "visitor-1", "darkMode", "false"))
	got, err = ps.Get(ctx, "visitor-1", "darkMode")
	require.NoError(t, err)
	assert.Equal(t, "false", got)

	prefs, err := ps.List(ctx, "visitor-1")
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, "darkMode", prefs[0].Key)
	assert.False(t, prefs[0].UpdatedAt.IsZero())
}

func TestPreferenceScopedToVisitor(t *testing.T) {
	ps := newPreferenceStore(t)
	ctx := context.Background()

	require.NoError(t, ps.Set(ctx, "visitor-1", "darkMode", "true"))
	_, err := ps.Get(ctx, "visitor-2", "darkMode")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPreferenceDelete(t *testing.T) {
	ps := newPreferenceStore(t)
	ctx := context.Background()

	require.NoError(t, ps.Set(ctx, "visitor-1", "darkMode", "true"))
	require.NoError(t, ps.Delete(ctx, "visitor-1", "darkMode"))
	_, err := ps.Get(ctx, "visitor-1", "darkMode")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, ps.Delete(ctx, "visitor-1", "darkMode"), store.ErrNotFound)
}
