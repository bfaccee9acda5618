/*
scheduler.go - Periodic stock level monitor

PURPOSE:
  Periodically checks the catalog for products running low and publishes
  the stock gauges scraped from /metrics.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Logs a product once when it enters the low-stock band (1..3 units)
    and again only after it has left and re-entered it
  - Updates the low-stock count and stock value gauges on every check

CONFIGURATION:
  - CheckInterval: How often to check (default: 15 minutes)
  - Enabled: Whether the monitor is active (default: true)

USAGE:
  monitor := NewStockMonitor(engine, logger)
  monitor.Start()
  // ... later
  monitor.Stop()

SEE ALSO:
  - views/stock.go: Low stock rule
*/
package api

import (
	"sync"
	"time"

	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/telemetry"
	"github.com/warp/perfume-ledger/views"
	"go.uber.org/zap"
)

// StockMonitor watches stock levels in the background.
type StockMonitor struct {
	Engine        *ledger.Engine
	CheckInterval time.Duration
	Enabled       bool

	logger  *zap.Logger
	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	checkMu sync.Mutex
	flagged map[string]bool
}

// NewStockMonitor creates a new monitor.
func NewStockMonitor(engine *ledger.Engine, logger *zap.Logger) *StockMonitor {
	return &StockMonitor{
		Engine:        engine,
		CheckInterval: 15 * time.Minute,
		Enabled:       true,
		logger:        telemetry.OrNop(logger),
		stop:          make(chan struct{}),
		flagged:       make(map[string]bool),
	}
}

// Start begins the monitor.
func (m *StockMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Enabled {
		m.logger.Info("stock monitor disabled, not starting")
		return
	}
	if m.ticker != nil {
		return
	}

	m.ticker = time.NewTicker(m.CheckInterval)
	m.wg.Add(1)

	go m.run()

	m.logger.Info("stock monitor started", zap.Duration("interval", m.CheckInterval))
}

// Stop stops the monitor.
func (m *StockMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ticker != nil {
		m.ticker.Stop()
		close(m.stop)
		m.wg.Wait()
		m.ticker = nil
		m.logger.Info("stock monitor stopped")
	}
}

func (m *StockMonitor) run() {
	defer m.wg.Done()

	// Run immediately on start
	m.check()

	for {
		select {
		case <-m.ticker.C:
			m.check()
		case <-m.stop:
			return
		}
	}
}

// check returns the SKUs that entered the low-stock band since the last check.
func (m *StockMonitor) check() []string {
	m.checkMu.Lock()
	defer m.checkMu.Unlock()

	products := m.Engine.Snapshot().Products
	low := views.LowStock(products)

	telemetry.LowStockProducts.Set(float64(len(low)))
	value, _ := views.StockValue(products).Float64()
	telemetry.StockValueAtCost.Set(value)

	current := make(map[string]bool, len(low))
	var entered []string
	for _, p := range low {
		current[p.ID] = true
		if !m.flagged[p.ID] {
			entered = append(entered, p.ID)
			m.logger.Warn("product running low",
				zap.String("sku", p.ID),
				zap.String("name", p.Name),
				zap.Int("stock", p.Stock),
			)
		}
	}
	m.flagged = current
	return entered
}

// RunNow triggers an immediate check and returns the newly flagged SKUs.
func (m *StockMonitor) RunNow() []string {
	return m.check()
}
