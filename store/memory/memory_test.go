package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/store/memory"
)

func TestKV_GetMissing_ErrKeyNotFound(t *testing.T) {
	kv := memory.New()

	_, err := kv.Get(context.Background(), ledger.KeyProducts)

	assert.ErrorIs(t, err, ledger.ErrKeyNotFound)
}

func TestKV_SetCopiesValue(t *testing.T) {
	kv := memory.New()
	ctx := context.Background()
	buf := []byte(`[{"id":"10001"}]`)

	require.NoError(t, kv.Set(ctx, ledger.KeyProducts, buf))
	buf[0] = 'X'

	got, err := kv.Get(ctx, ledger.KeyProducts)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"10001"}]`, string(got))
	assert.Equal(t, []string{ledger.KeyProducts}, kv.Keys())
	assert.Equal(t, 1, kv.Writes())
}

func TestKV_SetCancelled(t *testing.T) {
	kv := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := kv.Set(ctx, ledger.KeySales, []byte(`[]`))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, kv.Writes())
}
