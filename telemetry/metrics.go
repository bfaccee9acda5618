package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LedgerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "Ledger operations by operation and outcome code",
	}, []string{"operation", "outcome"})

	PersistenceFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_persistence_failures_total",
		Help: "Failed collection writes to the key-value store",
	}, []string{"key"})

	PersistenceWriteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_persistence_write_seconds",
		Help:    "Latency of collection writes to the key-value store",
		Buckets: prometheus.DefBuckets,
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_events_published_total",
		Help: "Ledger events handed to the broker, by result",
	}, []string{"result"})

	AnalyticsRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_requests_total",
		Help: "Analytics questions by outcome",
	}, []string{"outcome"})

	AnalyticsLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analytics_latency_seconds",
		Help:    "Latency of text-generation calls",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	LowStockProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_low_stock_products",
		Help: "Products with between one and three sellable units",
	})

	StockValueAtCost = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_stock_value_at_cost",
		Help: "Sellable stock valued at cost price",
	})
)
