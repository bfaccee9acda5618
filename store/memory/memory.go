// Package memory provides a map-backed ledger.KV for tests and demos.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/perfume-ledger/ledger"
)

// =============================================================================
// MEMORY KV - In-memory implementation (for testing/dev)
// =============================================================================

type KV struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int
}

var _ ledger.KV = (*KV)(nil)

func New() *KV {
	return &KV{values: make(map[string][]byte)}
}

func (m *KV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ledger.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value; callers may reuse their buffer.
func (m *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

func (m *KV) Close() error { return nil }

// Keys lists the stored keys in lexical order.
func (m *KV) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Writes counts successful Set calls.
func (m *KV) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
