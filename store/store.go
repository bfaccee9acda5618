// Package store selects a ledger.KV backend by name.
package store

import (
	"fmt"

	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/store/file"
	"github.com/warp/perfume-ledger/store/memory"
	"github.com/warp/perfume-ledger/store/redis"
	"github.com/warp/perfume-ledger/store/sqlite"
)

// Kinds accepted by NewKV.
const (
	KindMemory   = "memory"
	KindFile     = "file"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindRedis    = "redis"
)

// NewKV constructs a KV by kind. dsn is the directory for "file", the
// database path for "sqlite", the connection URL for "postgres" and the
// address for "redis"; "memory" ignores it.
func NewKV(kind, dsn string) (ledger.KV, error) {
	switch kind {
	case KindMemory, "mem", "":
		return memory.New(), nil
	case KindFile:
		if dsn == "" {
			return nil, fmt.Errorf("directory required for file store")
		}
		kv, err := file.New(dsn)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case KindSQLite:
		if dsn == "" {
			return nil, fmt.Errorf("database path required for sqlite store")
		}
		kv, err := sqlite.New(dsn)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case KindPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("database url required for postgres store")
		}
		kv, err := sqlite.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case KindRedis:
		if dsn == "" {
			return nil, fmt.Errorf("address required for redis store")
		}
		kv, err := redis.New(dsn, "", 0)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}

