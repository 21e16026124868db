package durable

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"grimoire/internal/platform/sqlite"
)

func TestSQLiteStorage(t *testing.T) {
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "grimoire.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLite(context.Background(), db)
	require.NoError(t, err)

	suite.Run(t, &StorageContractSuite{newStore: func() itemStore { return store }})
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "grimoire.db")

	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	store, err := NewSQLite(ctx, db)
	require.NoError(t, err)
	require.NoError(t, store.SetItem(ctx, "fichaKael", []byte(`{"notes":"persisted"}`)))
	require.NoError(t, db.Close())

	db, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err = NewSQLite(ctx, db)
	require.NoError(t, err)

	got, err := store.GetItem(ctx, "fichaKael")
	require.NoError(t, err)
	require.JSONEq(t, `{"notes":"persisted"}`, string(got))
}

func TestNewSQLRequiresDB(t *testing.T) {
	_, err := NewSQLite(context.Background(), nil)
	require.ErrorContains(t, err, "db is required")
}
