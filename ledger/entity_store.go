package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/warp/perfume-ledger/telemetry"
	"go.uber.org/zap"
)

// =============================================================================
// ENTITY STORE - Exclusive owner of the five collections
// =============================================================================

const writeTimeout = 5 * time.Second

type collections struct {
	products    []Product
	purchases   []Purchase
	sales       []Sale
	adjustments []Adjustment
	customers   []Customer
}

// dirty marks which collections a mutation touched.
type dirty uint8

const (
	dirtyProducts dirty = 1 << iota
	dirtyPurchases
	dirtySales
	dirtyAdjustments
	dirtyCustomers
)

type pendingWrite struct {
	key     string
	data    []byte
	flushed chan struct{}
}

// EntityStore holds Products, Purchases, Sales, Adjustments and Customers in
// insertion order and mirrors them into a KV.
//
// Persistence is fire-and-forget: collections are encoded under the lock and
// handed to a single writer goroutine, so writes reach the KV in mutation
// order and a failed write never fails the mutation that caused it.
type EntityStore struct {
	mu     sync.RWMutex
	state  collections
	kv     KV
	logger *zap.Logger

	writes chan pendingWrite
	done   chan struct{}
	closed bool
}

// NewEntityStore creates an empty store. kv may be nil for a purely
// in-memory store.
func NewEntityStore(kv KV, logger *zap.Logger) *EntityStore {
	s := &EntityStore{
		kv:     kv,
		logger: telemetry.OrNop(logger),
		writes: make(chan pendingWrite, 64),
		done:   make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

// Load reads every collection from the KV. A missing key falls back to the
// matching seed collection, which is then written back.
func (s *EntityStore) Load(ctx context.Context, seed Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var seeded dirty
	load := func(key string, flag dirty, fn func(data []byte, missing bool) error) error {
		if s.kv == nil {
			seeded |= flag
			return fn(nil, true)
		}
		data, err := s.kv.Get(ctx, key)
		if errors.Is(err, ErrKeyNotFound) {
			seeded |= flag
			return fn(nil, true)
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", key, err)
		}
		if err := fn(data, false); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		return nil
	}

	if err := load(KeyProducts, dirtyProducts, func(b []byte, missing bool) error {
		return decodeInto(b, missing, &s.state.products, seed.Products)
	}); err != nil {
		return err
	}
	if err := load(KeyPurchases, dirtyPurchases, func(b []byte, missing bool) error {
		return decodeInto(b, missing, &s.state.purchases, seed.Purchases)
	}); err != nil {
		return err
	}
	if err := load(KeySales, dirtySales, func(b []byte, missing bool) error {
		return decodeInto(b, missing, &s.state.sales, seed.Sales)
	}); err != nil {
		return err
	}
	if err := load(KeyAdjustments, dirtyAdjustments, func(b []byte, missing bool) error {
		return decodeInto(b, missing, &s.state.adjustments, seed.Adjustments)
	}); err != nil {
		return err
	}
	if err := load(KeyCustomers, dirtyCustomers, func(b []byte, missing bool) error {
		return decodeInto(b, missing, &s.state.customers, seed.Customers)
	}); err != nil {
		return err
	}

	s.logger.Info("entity store loaded",
		zap.Int("products", len(s.state.products)),
		zap.Int("purchases", len(s.state.purchases)),
		zap.Int("sales", len(s.state.sales)),
		zap.Int("adjustments", len(s.state.adjustments)),
		zap.Int("customers", len(s.state.customers)),
	)
	s.enqueueLocked(seeded)
	return nil
}

// Replace swaps every collection for the given data and persists all of
// them. Used to load demo scenarios.
func (s *EntityStore) Replace(data Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = collections{
		products:    slices.Clone(data.Products),
		purchases:   slices.Clone(data.Purchases),
		sales:       slices.Clone(data.Sales),
		adjustments: slices.Clone(data.Adjustments),
		customers:   slices.Clone(data.Customers),
	}
	s.enqueueLocked(dirtyProducts | dirtyPurchases | dirtySales | dirtyAdjustments | dirtyCustomers)
}

func decodeInto[T any](data []byte, missing bool, dst *[]T, fallback []T) error {
	if missing {
		*dst = slices.Clone(fallback)
		return nil
	}
	var items []T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
	}
	*dst = items
	return nil
}

// Snapshot returns a copy of every collection.
func (s *EntityStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Products:    slices.Clone(s.state.products),
		Purchases:   slices.Clone(s.state.purchases),
		Sales:       slices.Clone(s.state.sales),
		Adjustments: slices.Clone(s.state.adjustments),
		Customers:   slices.Clone(s.state.customers),
	}
}

func (s *EntityStore) Product(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.state.productIndex(id); i >= 0 {
		return s.state.products[i], true
	}
	return Product{}, false
}

func (s *EntityStore) Purchase(id string) (Purchase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.state.purchaseIndex(id); i >= 0 {
		return s.state.purchases[i], true
	}
	return Purchase{}, false
}

func (s *EntityStore) Sale(id string) (Sale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.state.saleIndex(id); i >= 0 {
		return s.state.sales[i], true
	}
	return Sale{}, false
}

func (s *EntityStore) Customer(id string) (Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.state.customerIndex(id); i >= 0 {
		return s.state.customers[i], true
	}
	return Customer{}, false
}

// mutate runs fn under the write lock. fn must validate before it changes
// anything: a returned error means nothing was touched. On success the
// collections fn reports as dirty are queued for persistence.
func (s *EntityStore) mutate(fn func(st *collections) (dirty, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := fn(&s.state)
	if err != nil {
		return err
	}
	s.enqueueLocked(d)
	return nil
}

func (s *EntityStore) enqueueLocked(d dirty) {
	if s.closed || d == 0 {
		return
	}
	queue := func(key string, v any) {
		data, err := json.Marshal(v)
		if err != nil {
			s.logger.Error("encode collection failed", zap.String("key", key), zap.Error(err))
			return
		}
		s.writes <- pendingWrite{key: key, data: data}
	}
	if d&dirtyProducts != 0 {
		queue(KeyProducts, nonNil(s.state.products))
	}
	if d&dirtyPurchases != 0 {
		queue(KeyPurchases, nonNil(s.state.purchases))
	}
	if d&dirtySales != 0 {
		queue(KeySales, nonNil(s.state.sales))
	}
	if d&dirtyAdjustments != 0 {
		queue(KeyAdjustments, nonNil(s.state.adjustments))
	}
	if d&dirtyCustomers != 0 {
		queue(KeyCustomers, nonNil(s.state.customers))
	}
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (s *EntityStore) writeLoop() {
	defer close(s.done)
	for w := range s.writes {
		if w.flushed != nil {
			close(w.flushed)
			continue
		}
		if s.kv == nil {
			continue
		}
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := s.kv.Set(ctx, w.key, w.data)
		cancel()
		telemetry.PersistenceWriteLatency.Observe(time.Since(start).Seconds())
		if err != nil {
			telemetry.PersistenceFailuresTotal.WithLabelValues(w.key).Inc()
			s.logger.Error("persist collection failed", zap.String("key", w.key), zap.Error(err))
		}
	}
}

// Flush blocks until every write queued so far has reached the KV.
func (s *EntityStore) Flush() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	flushed := make(chan struct{})
	s.writes <- pendingWrite{flushed: flushed}
	s.mu.Unlock()
	<-flushed
}

// Close drains pending writes and stops the writer. The KV is left open;
// it belongs to whoever opened it.
func (s *EntityStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.writes)
	s.mu.Unlock()
	<-s.done
}

// =============================================================================
// INDEX LOOKUPS (caller holds the lock)
// =============================================================================

func (c *collections) productIndex(id string) int {
	return slices.IndexFunc(c.products, func(p Product) bool { return p.ID == id })
}

func (c *collections) purchaseIndex(id string) int {
	return slices.IndexFunc(c.purchases, func(p Purchase) bool { return p.ID == id })
}

func (c *collections) saleIndex(id string) int {
	return slices.IndexFunc(c.sales, func(s Sale) bool { return s.ID == id })
}

func (c *collections) customerIndex(id string) int {
	return slices.IndexFunc(c.customers, func(cu Customer) bool { return cu.ID == id })
}
