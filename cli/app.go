package cli

import (
	"context"
	"fmt"

	"github.com/warp/perfume-ledger/analytics"
	"github.com/warp/perfume-ledger/broker"
	"github.com/warp/perfume-ledger/config"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/store"
	"github.com/warp/perfume-ledger/telemetry"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// App is everything a command needs, built once from Config.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     *ledger.EntityStore
	Engine    *ledger.Engine
	Analytics *analytics.Service

	kv        ledger.KV
	publisher *broker.Publisher
	tracer    *sdktrace.TracerProvider
}

// NewApp opens the configured KV, loads the ledger and wires the optional
// collaborators (Kafka, Jaeger, Gemini) that have settings.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger = telemetry.OrNop(logger)
	a := &App{Config: cfg, Logger: logger}

	kv, err := store.NewKV(cfg.Store.Kind, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Kind, err)
	}
	a.kv = kv

	seed := ledger.DefaultSeed()
	if cfg.Store.Seed == "empty" {
		seed = ledger.EmptySeed()
	}
	a.Store = ledger.NewEntityStore(kv, logger)
	if err := a.Store.Load(ctx, seed); err != nil {
		a.Close(ctx)
		return nil, err
	}

	opts := []ledger.Option{ledger.WithLogger(logger)}
	if len(cfg.Kafka.Brokers) > 0 {
		a.publisher = broker.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		opts = append(opts, ledger.WithEventSink(a.publisher))
		logger.Info("publishing ledger events",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	a.Engine = ledger.NewEngine(a.Store, opts...)

	if cfg.Observ.JaegerEndpoint != "" {
		tp, err := telemetry.InitTracer(cfg.Observ.ServiceName, cfg.Observ.JaegerEndpoint)
		if err != nil {
			logger.Warn("tracing disabled", zap.Error(err))
		} else {
			a.tracer = tp
		}
	}

	var gen analytics.Generator
	if cfg.Analytics.APIKey != "" {
		g, err := analytics.NewGeminiGenerator(ctx, cfg.Analytics.APIKey, cfg.Analytics.Model)
		if err != nil {
			logger.Warn("analytics disabled", zap.Error(err))
		} else {
			gen = g
		}
	}
	a.Analytics = analytics.NewService(gen, cfg.Analytics.Timeout, logger)
	return a, nil
}

// Close drains pending writes and releases every collaborator.
func (a *App) Close(ctx context.Context) {
	if a.Store != nil {
		a.Store.Flush()
		a.Store.Close()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.Logger.Warn("close publisher", zap.Error(err))
		}
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.Logger.Warn("close store", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.Logger.Warn("shutdown tracer", zap.Error(err))
		}
	}
}
