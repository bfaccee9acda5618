package ledger

import (
	"context"
	"time"
)

// =============================================================================
// DOMAIN EVENTS - Emitted after every successful mutation
// =============================================================================

type EventKind string

const (
	EventProductCreated  EventKind = "product.created"
	EventProductUpdated  EventKind = "product.updated"
	EventProductDeleted  EventKind = "product.deleted"
	EventPurchaseCreated EventKind = "purchase.created"
	EventPurchaseUpdated EventKind = "purchase.updated"
	EventPurchaseDeleted EventKind = "purchase.deleted"
	EventSaleCreated     EventKind = "sale.created"
	EventSaleUpdated     EventKind = "sale.updated"
	EventSaleDeleted     EventKind = "sale.deleted"
	EventTesterConverted EventKind = "tester.converted"
	EventTesterConsumed  EventKind = "tester.consumed"
	EventCustomerCreated EventKind = "customer.created"
	EventCustomerUpdated EventKind = "customer.updated"
	EventCustomerDeleted EventKind = "customer.deleted"
)

// Event describes one applied mutation. Stock and TesterStock are the
// product's levels after the mutation; both are zero for customer events
// and for records whose product no longer resolves.
type Event struct {
	Kind        EventKind `json:"kind"`
	EntityID    string    `json:"entityId"`
	ProductID   string    `json:"productId,omitempty"`
	Stock       int       `json:"stock"`
	TesterStock int       `json:"testerStock"`
	At          time.Time `json:"at"`
}

// EventSink receives events after the mutation is applied. Publish must not
// block the caller for long; failures are the sink's to log.
type EventSink interface {
	Publish(ctx context.Context, event Event)
}

type nopSink struct{}

func (nopSink) Publish(context.Context, Event) {}
