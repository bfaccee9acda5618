/*
Package sqlite provides a SQL-backed ledger.KV.

PURPOSE:
  Stores each collection as one row of a single table. Runs on SQLite for
  local installs and on PostgreSQL for hosted ones; the SQL is the same,
  only placeholders differ and sqlx rebinds them.

KEY TABLES:
  collections: key -> JSON payload, plus the time of the last write

CONCURRENCY:
  SQLite is opened with a single connection so ":memory:" databases are
  shared by every query and writes are serialised. PostgreSQL uses a normal
  pool; the entity store already writes from a single goroutine.

WAL MODE:
  SQLite files are opened with WAL (Write-Ahead Logging) so readers never
  block the writer.

USAGE:
  kv, err := sqlite.New("./data/perfumeria.db")
  if err != nil {
      log.Fatal(err)
  }
  defer kv.Close()

  store := ledger.NewEntityStore(kv, logger)

SEE ALSO:
  - ledger/store.go: KV interface
  - store/store.go: Backend selection
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/perfume-ledger/ledger"
)

// Store implements ledger.KV over database/sql via sqlx.
type Store struct {
	db *sqlx.DB
}

var _ ledger.KV = (*Store)(nil)

type row struct {
	Key       string `db:"key"`
	Payload   string `db:"payload"`
	UpdatedAt string `db:"updated_at"`
}

// New opens a SQLite database at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return open(db)
}

// NewPostgres connects to PostgreSQL with the given URL.
func NewPostgres(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	return open(db)
}

func open(db *sqlx.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// KV
// =============================================================================

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var r row
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`SELECT key, payload, updated_at FROM collections WHERE key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(r.Payload), nil
}

// Set upserts the whole collection.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO collections (key, payload, updated_at)
		VALUES (:key, :payload, :updated_at)
		ON CONFLICT (key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		row{Key: key, Payload: string(value), UpdatedAt: time.Now().UTC().Format(time.RFC3339)},
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// UpdatedAt reports when key was last written.
func (s *Store) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var stamp string
	err := s.db.GetContext(ctx, &stamp, s.db.Rebind(`SELECT updated_at FROM collections WHERE key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ledger.ErrKeyNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, stamp)
}
