// Package broker publishes ledger events to Kafka and reads them back.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/telemetry"
	"go.uber.org/zap"
)

const DefaultTopic = "ledger-events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ledger.EventSink. The writer is asynchronous, so
// Publish returns once the message is buffered; delivery failures are logged
// and counted.
type Publisher struct {
	writer messageWriter
	logger *zap.Logger
}

var _ ledger.EventSink = (*Publisher)(nil)

// NewPublisher creates an async Kafka producer for topic.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	logger = telemetry.OrNop(logger)
	if topic == "" {
		topic = DefaultTopic
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				telemetry.EventsPublishedTotal.WithLabelValues("failed").Add(float64(len(messages)))
				logger.Error("ledger event delivery failed", zap.Int("messages", len(messages)), zap.Error(err))
				return
			}
			telemetry.EventsPublishedTotal.WithLabelValues("delivered").Add(float64(len(messages)))
		},
	}
	return newPublisher(writer, logger)
}

func newPublisher(w messageWriter, logger *zap.Logger) *Publisher {
	return &Publisher{writer: w, logger: telemetry.OrNop(logger)}
}

// Publish encodes the event as JSON keyed by product id, or by entity id for
// events without a product.
func (p *Publisher) Publish(ctx context.Context, event ledger.Event) {
	msg, err := encode(event)
	if err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues("failed").Inc()
		p.logger.Error("encode ledger event failed", zap.String("kind", string(event.Kind)), zap.Error(err))
		return
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues("failed").Inc()
		p.logger.Error("publish ledger event failed",
			zap.String("kind", string(event.Kind)),
			zap.String("entity", event.EntityID),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("published ledger event", zap.String("kind", string(event.Kind)), zap.String("entity", event.EntityID))
}

func encode(event ledger.Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	key := event.ProductID
	if key == "" {
		key = event.EntityID
	}
	return kafka.Message{Key: []byte(key), Value: value, Time: event.At}, nil
}

// Close flushes buffered messages and closes the producer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// =============================================================================
// CONSUMER
// =============================================================================

type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer reads topic as part of groupID, starting from the oldest
// message when the group has no committed offset.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	if topic == "" {
		topic = DefaultTopic
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})
	return &Consumer{reader: reader}
}

// EventHandler handles one decoded event.
type EventHandler func(ctx context.Context, event ledger.Event) error

// Consume decodes and hands every message to handler until ctx is done.
// Messages are committed only after handler succeeds.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch message: %w", err)
		}
		var event ledger.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("decode message at offset %d: %w", msg.Offset, err)
		}
		if err := handler(ctx, event); err != nil {
			return err
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit message: %w", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
