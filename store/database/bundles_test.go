package database

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salarycast/salarycast/store"
	"github.com/salarycast/salarycast/types"
)

func newTestStore(t *testing.T) store.BundleStore {
	t.Helper()
	s, closer, err := ProvideBundleStore(context.Background(), DriverSqlite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { closer.Close() })
	return s
}

var testBundles = []*types.BundleRecord{
	{ID: "a", Version: "2024-01-01", Currency: "INR", Documents: `{"encoder":{}}`, Created: 100},
	{ID: "b", Version: "2024-06-01", Currency: "INR", Documents: `{"encoder":{}}`, Created: 200},
	{ID: "c", Version: "2024-01-01", Currency: "USD", Documents: `{"encoder":{}}`, Created: 300},
}

func seed(t *testing.T, s store.BundleStore) {
	t.Helper()
	for _, b := range testBundles {
		require.NoError(t, s.Create(context.Background(), b))
	}
}

func TestBundleStore_Find(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	got, err := s.Find(context.Background(), "2024-01-01")
	require.NoError(t, err)
	if diff := cmp.Diff(testBundles[2], got); diff != "" {
		t.Errorf("newest bundle of version not returned:\n%s", diff)
	}

	_, err = s.Find(context.Background(), "1999-01-01")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBundleStore_Latest(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Latest(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)

	seed(t, s)
	got, err := s.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c", got.ID)
}

func TestBundleStore_List(t *testing.T) {
	s := newTestStore(t)

	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	seed(t, s)
	got, err = s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestBundleStore_Delete(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	require.NoError(t, s.Delete(context.Background(), "2024-01-01"))
	got, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	assert.ErrorIs(t, s.Delete(context.Background(), "2024-01-01"), store.ErrNotFound)
}

func TestBundleStore_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	assert.Error(t, s.Create(context.Background(), testBundles[0]))
}

func TestProvideBundleStore_UnknownDriver(t *testing.T) {
	_, _, err := ProvideBundleStore(context.Background(), "mysql", "")
	assert.Error(t, err)
}

func TestStatementBuilder(t *testing.T) {
	query, _, err := statementBuilder(DriverPostgres).Select("a").From("t").Where("b = ?", 1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t WHERE b = $1", query)

	query, _, err = statementBuilder(DriverSqlite).Select("a").From("t").Where("b = ?", 1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t WHERE b = ?", query)
}

func TestPing(t *testing.T) {
	db, err := Connect(context.Background(), DriverSqlite, ":memory:")
	require.NoError(t, err)
	assert.NoError(t, ping(context.Background(), db))

	require.NoError(t, db.Close())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, ping(ctx, db))
}
