package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/store/memory"
)

type failingKV struct {
	*memory.KV
}

func (f failingKV) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestEntityStore_MissingKeys_FallBackToSeedAndWriteBack(t *testing.T) {
	// GIVEN: An empty KV
	// WHEN: Loading with the default seed
	// THEN: The seed catalog is in memory and written under every key

	kv := memory.New()
	store := ledger.NewEntityStore(kv, nil)
	defer store.Close()

	require.NoError(t, store.Load(context.Background(), ledger.DefaultSeed()))
	store.Flush()

	snap := store.Snapshot()
	assert.Len(t, snap.Products, 9)
	assert.Len(t, snap.Purchases, 9)

	for _, key := range ledger.AllKeys {
		_, err := kv.Get(context.Background(), key)
		assert.NoError(t, err, key)
	}
	raw, _ := kv.Get(context.Background(), ledger.KeySales)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestEntityStore_ExistingKeys_WinOverSeed(t *testing.T) {
	kv := memory.New()
	ctx := context.Background()
	stored := []ledger.Product{{ID: "X1", Name: "Stored", Stock: 7}}
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, ledger.KeyProducts, data))

	store := ledger.NewEntityStore(kv, nil)
	defer store.Close()
	require.NoError(t, store.Load(ctx, ledger.DefaultSeed()))

	snap := store.Snapshot()
	require.Len(t, snap.Products, 1)
	assert.Equal(t, 7, snap.Products[0].Stock)
	assert.Len(t, snap.Purchases, 9, "purchases key was missing, so the seed applies")
}

func TestEntityStore_CorruptKey_LoadFails(t *testing.T) {
	kv := memory.New()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, ledger.KeySales, []byte("{not json")))

	store := ledger.NewEntityStore(kv, nil)
	defer store.Close()

	err := store.Load(ctx, ledger.EmptySeed())
	assert.ErrorContains(t, err, ledger.KeySales)
}

func TestEntityStore_MutationPersistsWholeCollection(t *testing.T) {
	kv := memory.New()
	store := ledger.NewEntityStore(kv, nil)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, store.Load(ctx, ledger.DefaultSeed()))

	engine := ledger.NewEngine(store)
	_, res := engine.CreateSale(ctx, ledger.SaleInput{ProductID: "10001", Quantity: 1, UnitPrice: ledger.Amount(40000)})
	require.True(t, res.Success, res.Message)
	store.Flush()

	raw, err := kv.Get(ctx, ledger.KeyProducts)
	require.NoError(t, err)
	var products []ledger.Product
	require.NoError(t, json.Unmarshal(raw, &products))
	require.Len(t, products, 9)
	assert.Equal(t, 1, products[0].Stock)

	raw, err = kv.Get(ctx, ledger.KeySales)
	require.NoError(t, err)
	var sales []ledger.Sale
	require.NoError(t, json.Unmarshal(raw, &sales))
	assert.Len(t, sales, 1)
}

func TestEntityStore_PersistFailure_DoesNotFailOperation(t *testing.T) {
	// GIVEN: A KV whose writes always fail
	// WHEN: Recording a purchase
	// THEN: The operation succeeds and memory reflects it

	kv := failingKV{memory.New()}
	store := ledger.NewEntityStore(kv, nil)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, store.Load(ctx, ledger.DefaultSeed()))

	engine := ledger.NewEngine(store)
	_, res := engine.CreatePurchase(ctx, ledger.PurchaseInput{ProductID: "10001", Quantity: 3, UnitCost: ledger.Amount(24990)})
	store.Flush()

	require.True(t, res.Success, res.Message)
	p, _ := store.Product("10001")
	assert.Equal(t, 5, p.Stock)
}

func TestEntityStore_SnapshotIsACopy(t *testing.T) {
	store := ledger.NewEntityStore(nil, nil)
	defer store.Close()
	require.NoError(t, store.Load(context.Background(), ledger.DefaultSeed()))

	snap := store.Snapshot()
	snap.Products[0].Stock = 999

	p, _ := store.Product(snap.Products[0].ID)
	assert.Equal(t, 2, p.Stock)
}

func TestEntityStore_CloseTwice(t *testing.T) {
	store := ledger.NewEntityStore(memory.New(), nil)
	store.Close()
	store.Close()
	store.Flush()
}
