package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/perfume-ledger/ledger"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish_KeyedByProduct(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, nil)
	at := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)

	p.Publish(context.Background(), ledger.Event{
		Kind: ledger.EventSaleCreated, EntityID: "s_1", ProductID: "10001", Stock: 1, At: at,
	})

	require.Len(t, w.messages, 1)
	assert.Equal(t, "10001", string(w.messages[0].Key))
	assert.Equal(t, at, w.messages[0].Time)

	var got ledger.Event
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &got))
	assert.Equal(t, ledger.EventSaleCreated, got.Kind)
	assert.Equal(t, 1, got.Stock)
}

func TestPublish_CustomerEventKeyedByEntity(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, nil)

	p.Publish(context.Background(), ledger.Event{Kind: ledger.EventCustomerCreated, EntityID: "c_1"})

	require.Len(t, w.messages, 1)
	assert.Equal(t, "c_1", string(w.messages[0].Key))
}

func TestPublish_WriterError_Swallowed(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newPublisher(w, nil)

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), ledger.Event{Kind: ledger.EventSaleDeleted, EntityID: "s_1"})
	})
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_AsEngineSink(t *testing.T) {
	// GIVEN: An engine publishing through the Kafka publisher
	// WHEN: A tester is converted
	// THEN: One message with the levels after the conversion is written

	w := &fakeWriter{}
	store := ledger.NewEntityStore(nil, nil)
	defer store.Close()
	require.NoError(t, store.Load(context.Background(), ledger.DefaultSeed()))
	engine := ledger.NewEngine(store, ledger.WithEventSink(newPublisher(w, nil)))

	_, res := engine.ConvertToTester(context.Background(), "10001")
	require.True(t, res.Success, res.Message)

	require.Len(t, w.messages, 1)
	var got ledger.Event
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &got))
	assert.Equal(t, ledger.EventTesterConverted, got.Kind)
	assert.Equal(t, 1, got.Stock)
	assert.Equal(t, 1, got.TesterStock)
}
