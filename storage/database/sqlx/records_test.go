package sqlxrepos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/storage"
	"github.com/bhavyajain7773/ATF-Design/storage/database"
	"github.com/bhavyajain7773/ATF-Design/storage/database/sqlx"
)

func newRepo(t *testing.T) *sqlxrepos.RecordRepository {
	t.Helper()
	conf := core.NewTestConfig()
	conf.Storage.Engine = database.EngineSQLite
	conf.Storage.DataDir = t.TempDir()

	db, err := database.Open(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return sqlxrepos.NewRecordRepository(db)
}

func TestRecordRepository(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, ok, err := repo.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, storage.KeyCart, []byte(`[{"id":"forex"}]`)))
	require.NoError(t, repo.Set(ctx, storage.KeyCart, []byte(`[]`)))
	require.NoError(t, repo.Set(ctx, storage.KeySession, []byte(`{"id":"USR-00000001"}`)))
	require.NoError(t, repo.Set(ctx, "unrelated", []byte(`kept`)))

	got, ok, err := repo.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, repo.Remove(ctx, storage.KeySession))
	_, ok, err = repo.Get(ctx, storage.KeySession)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Clear(ctx, storage.Keys...))
	_, ok, err = repo.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = repo.Get(ctx, "unrelated")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Clear(ctx))
}

func TestRecordRepository_Reopen(t *testing.T) {
	ctx := context.Background()
	conf := core.NewTestConfig()
	conf.Storage.Engine = database.EngineSQLite
	conf.Storage.DataDir = t.TempDir()

	db, err := database.Open(conf)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, sqlxrepos.NewRecordRepository(db).Set(ctx, storage.KeyOrders, []byte(`[]`)))
	require.NoError(t, db.Close())

	db, err = database.Open(conf)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db), "migrations are idempotent")

	got, ok, err := sqlxrepos.NewRecordRepository(db).Get(ctx, storage.KeyOrders)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(got))
}

func TestRecordRepository_SetIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	ok, err := repo.SetIfAbsent(ctx, storage.KeyLock, []byte(`{"owner":"api"}`))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.SetIfAbsent(ctx, storage.KeyLock, []byte(`{"owner":"admin cli"}`))
	require.NoError(t, err)
	assert.False(t, ok)

	got, _, err := repo.Get(ctx, storage.KeyLock)
	require.NoError(t, err)
	assert.Equal(t, `{"owner":"api"}`, string(got))

	require.NoError(t, repo.Remove(ctx, storage.KeyLock))
	ok, err = repo.SetIfAbsent(ctx, storage.KeyLock, []byte(`{"owner":"admin cli"}`))
	require.NoError(t, err)
	assert.True(t, ok)
}
