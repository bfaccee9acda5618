package sqlite_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_GetMissing_ErrKeyNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), ledger.KeyAdjustments)

	assert.ErrorIs(t, err, ledger.ErrKeyNotFound)
}

func TestStore_SetTwice_Upserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ledger.KeyProducts, []byte(`[]`)))
	require.NoError(t, store.Set(ctx, ledger.KeyProducts, []byte(`[{"id":"10001"}]`)))

	got, err := store.Get(ctx, ledger.KeyProducts)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"10001"}]`, string(got))

	at, err := store.UpdatedAt(ctx, ledger.KeyProducts)
	require.NoError(t, err)
	assert.False(t, at.IsZero())
}

func TestStore_BacksEntityStore(t *testing.T) {
	// GIVEN: A ledger on SQLite
	// WHEN: A tester conversion is recorded and the store is reloaded
	// THEN: The adjustment and the product levels survive

	kv := newTestStore(t)
	ctx := context.Background()

	first := ledger.NewEntityStore(kv, nil)
	require.NoError(t, first.Load(ctx, ledger.DefaultSeed()))
	_, res := ledger.NewEngine(first).ConvertToTester(ctx, "10001")
	require.True(t, res.Success, res.Message)
	first.Close()

	second := ledger.NewEntityStore(kv, nil)
	defer second.Close()
	require.NoError(t, second.Load(ctx, ledger.EmptySeed()))

	p, ok := second.Product("10001")
	require.True(t, ok)
	assert.Equal(t, 1, p.Stock)
	assert.Equal(t, 1, p.TesterStock)
	assert.Len(t, second.Snapshot().Adjustments, 1)
}

func TestPostgres_RoundTrip(t *testing.T) {
	url := os.Getenv("PERFUMERIA_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("PERFUMERIA_TEST_POSTGRES_URL not set")
	}
	store, err := sqlite.NewPostgres(url)
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "perfumeria:test", []byte(`[1,2]`)))
	got, err := store.Get(ctx, "perfumeria:test")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
}
