/*
store.go - Persistence interface for the five collections

PURPOSE:
  The ledger keeps its working state in memory and mirrors every collection
  into a key-value store, one key per collection. KV is the seam between the
  ledger and whatever backs it (map, JSON files, SQLite/PostgreSQL, Redis).

WRITE MODEL:
  Whole-collection writes. After a mutation the full updated collection is
  re-encoded as JSON and written under its key. There are no deltas.

READ MODEL:
  Read once at startup. A missing key falls back to the seed collection.

IMPLEMENTATIONS:
  - store/memory: map, for tests and demos
  - store/file: one JSON file per key
  - store/sqlite: kv table over sqlx (sqlite3 or postgres driver)
  - store/redis: plain GET/SET
*/
package ledger

import (
	"context"
	"errors"
)

// Collection keys. Each collection lives under its own key.
const (
	KeyProducts    = "perfumeria:products"
	KeyPurchases   = "perfumeria:purchases"
	KeySales       = "perfumeria:sales"
	KeyAdjustments = "perfumeria:adjustments"
	KeyCustomers   = "perfumeria:customers"
)

// AllKeys lists the collection keys in load order.
var AllKeys = []string{KeyProducts, KeyPurchases, KeySales, KeyAdjustments, KeyCustomers}

// ErrKeyNotFound is returned by KV.Get when a key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// KV is a string-keyed byte store.
type KV interface {
	// Get returns ErrKeyNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
