package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/store/file"
)

func TestFileKV_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	kv, err := file.New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = kv.Get(ctx, ledger.KeyCustomers)
	assert.ErrorIs(t, err, ledger.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, ledger.KeyCustomers, []byte(`[{"id":"c_1","name":"Ana"}]`)))
	got, err := kv.Get(ctx, ledger.KeyCustomers)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"c_1","name":"Ana"}]`, string(got))

	_, err = os.Stat(filepath.Join(dir, "perfumeria_customers.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "perfumeria_customers.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileKV_Overwrite(t *testing.T) {
	kv, err := file.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, ledger.KeySales, []byte(`[1]`)))
	require.NoError(t, kv.Set(ctx, ledger.KeySales, []byte(`[]`)))

	got, err := kv.Get(ctx, ledger.KeySales)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestFileKV_EmptyDir_Rejected(t *testing.T) {
	_, err := file.New("")
	assert.Error(t, err)
}

func TestFileKV_BacksEntityStoreAcrossRestarts(t *testing.T) {
	// GIVEN: A ledger persisted to a directory
	// WHEN: A second store loads from the same directory
	// THEN: It sees the sale, not the seed

	dir := t.TempDir()
	ctx := context.Background()

	kv, err := file.New(dir)
	require.NoError(t, err)
	first := ledger.NewEntityStore(kv, nil)
	require.NoError(t, first.Load(ctx, ledger.DefaultSeed()))
	_, res := ledger.NewEngine(first).CreateSale(ctx, ledger.SaleInput{ProductID: "10005", Quantity: 2, UnitPrice: ledger.Amount(35000)})
	require.True(t, res.Success, res.Message)
	first.Close()

	second := ledger.NewEntityStore(kv, nil)
	defer second.Close()
	require.NoError(t, second.Load(ctx, ledger.DefaultSeed()))

	p, ok := second.Product("10005")
	require.True(t, ok)
	assert.Equal(t, 1, p.Stock)
	assert.Len(t, second.Snapshot().Sales, 1)
}
