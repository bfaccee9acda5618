/*
engine.go - Stock ledger engine

PURPOSE:
  Applies every stock-affecting operation as one atomic transition on the
  EntityStore. Edits and deletes are applied as reversals of the stored
  record's effect, so stock always reflects the records that exist.

STOCK RULES:
  Purchase create   stock += qty
  Purchase edit     stock += (new - old), or moved between products
  Purchase delete   stock -= qty
  Sale create       stock -= qty              (must be covered)
  Sale edit         stock -= (new - old)      (covered after reverting old)
  Sale delete       stock += qty
  Tester convert    stock -= 1, testerStock += 1   (testerStock must be 0)
  Tester consume    testerStock -= 1               (testerStock must be >= 1)

  No successful operation leaves stock or testerStock negative. Reversing a
  purchase whose units were already sold is refused with InsufficientStock.

CONTRACT:
  Every mutating operation returns a Result. Nothing changes unless
  Result.Success is true. Validation happens before the first write inside
  the store's lock, so a refused operation has no partial effect.

SEE ALSO:
  - entity_store.go: Locking and persistence
  - events.go: What is emitted after success
*/
package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/warp/perfume-ledger/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Engine is the only writer of the EntityStore.
type Engine struct {
	mu     sync.Mutex
	store  *EntityStore
	sink   EventSink
	now    func() time.Time
	newID  IDFunc
	logger *zap.Logger
}

type Option func(*Engine)

func WithEventSink(sink EventSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithClock fixes the clock used to date adjustments and undated records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(fn IDFunc) Option {
	return func(e *Engine) { e.newID = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = telemetry.OrNop(logger) }
}

func NewEngine(store *EntityStore, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		sink:   nopSink{},
		now:    time.Now,
		newID:  NewID,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the store the engine writes to.
func (e *Engine) Store() *EntityStore { return e.store }

// Snapshot is shorthand for Store().Snapshot().
func (e *Engine) Snapshot() Snapshot { return e.store.Snapshot() }

// Reset swaps every collection for data, e.g. to load a demo dataset.
func (e *Engine) Reset(data Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Replace(data)
	e.logger.Info("ledger reset",
		zap.Int("products", len(data.Products)),
		zap.Int("sales", len(data.Sales)),
	)
}

// Now is the engine clock.
func (e *Engine) Now() time.Time { return e.now() }

func (e *Engine) today() Date { return DateOf(e.now()) }

// exec runs fn inside the store's write path, records the outcome and
// publishes the events fn produced.
func (e *Engine) exec(ctx context.Context, op string, fn func(st *collections) (dirty, []Event, error)) error {
	ctx, span := telemetry.StartSpan(ctx, "ledger."+op)
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	var events []Event
	err := e.store.mutate(func(st *collections) (dirty, error) {
		d, evs, err := fn(st)
		events = evs
		return d, err
	})

	code := ErrorCode(err)
	telemetry.LedgerOperationsTotal.WithLabelValues(op, code).Inc()
	span.SetAttributes(attribute.String("ledger.outcome", code))
	if err != nil {
		span.RecordError(err)
		e.logger.Info("ledger operation refused",
			zap.String("op", op),
			zap.String("code", code),
			zap.Error(err),
		)
		return err
	}

	at := e.now()
	for _, ev := range events {
		ev.At = at
		e.sink.Publish(ctx, ev)
	}
	return nil
}

func result(err error, msg string) Result {
	if err != nil {
		return fail(err)
	}
	return succeed(msg)
}

// event builds an Event carrying the product's levels after the mutation.
func (c *collections) event(kind EventKind, entityID, productID string) Event {
	ev := Event{Kind: kind, EntityID: entityID, ProductID: productID}
	if i := c.productIndex(productID); i >= 0 {
		ev.Stock = c.products[i].Stock
		ev.TesterStock = c.products[i].TesterStock
	}
	return ev
}

// =============================================================================
// PRODUCTS
// =============================================================================

func validateProduct(in ProductInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return invalid("id", "sku is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "name is required")
	}
	if in.Gender != "" && !in.Gender.Valid() {
		return invalid("gender", fmt.Sprintf("unknown gender %q", in.Gender))
	}
	if in.CostPrice.IsNegative() {
		return invalid("costPrice", "must not be negative")
	}
	if in.SalePrice.IsNegative() {
		return invalid("salePrice", "must not be negative")
	}
	return nil
}

func genderOrDefault(g Gender) Gender {
	if g == "" {
		return GenderUnisex
	}
	return g
}

// CreateProduct adds a product with zero stock. The SKU must be new.
func (e *Engine) CreateProduct(ctx context.Context, in ProductInput) (Product, Result) {
	var created Product
	err := e.exec(ctx, "create_product", func(st *collections) (dirty, []Event, error) {
		if err := validateProduct(in); err != nil {
			return 0, nil, err
		}
		id := strings.TrimSpace(in.ID)
		if st.productIndex(id) >= 0 {
			return 0, nil, &DuplicateSKUError{SKU: id}
		}
		created = Product{
			ID:        id,
			Name:      strings.TrimSpace(in.Name),
			Brand:     strings.TrimSpace(in.Brand),
			Gender:    genderOrDefault(in.Gender),
			CostPrice: in.CostPrice,
			SalePrice: in.SalePrice,
		}
		st.products = append(st.products, created)
		return dirtyProducts, []Event{st.event(EventProductCreated, id, id)}, nil
	})
	return created, result(err, fmt.Sprintf("Product %s added", created.Name))
}

// UpdateProduct replaces the descriptive attributes and prices. Stock and
// tester stock are never touched here.
func (e *Engine) UpdateProduct(ctx context.Context, in ProductInput) (Product, Result) {
	var updated Product
	err := e.exec(ctx, "update_product", func(st *collections) (dirty, []Event, error) {
		if err := validateProduct(in); err != nil {
			return 0, nil, err
		}
		i := st.productIndex(in.ID)
		if i < 0 {
			return 0, nil, notFound("product", in.ID)
		}
		p := &st.products[i]
		p.Name = strings.TrimSpace(in.Name)
		p.Brand = strings.TrimSpace(in.Brand)
		p.Gender = genderOrDefault(in.Gender)
		p.CostPrice = in.CostPrice
		p.SalePrice = in.SalePrice
		updated = *p
		return dirtyProducts, []Event{st.event(EventProductUpdated, p.ID, p.ID)}, nil
	})
	return updated, result(err, fmt.Sprintf("Product %s updated", updated.Name))
}

// DeleteProduct removes the product only. Records that reference it keep
// the SKU.
func (e *Engine) DeleteProduct(ctx context.Context, id string) Result {
	var name string
	err := e.exec(ctx, "delete_product", func(st *collections) (dirty, []Event, error) {
		i := st.productIndex(id)
		if i < 0 {
			return 0, nil, notFound("product", id)
		}
		name = st.products[i].Name
		st.products = append(st.products[:i], st.products[i+1:]...)
		return dirtyProducts, []Event{{Kind: EventProductDeleted, EntityID: id, ProductID: id}}, nil
	})
	return result(err, fmt.Sprintf("Product %s deleted", name))
}

// =============================================================================
// PURCHASES
// =============================================================================

func validatePurchase(in PurchaseInput) error {
	if strings.TrimSpace(in.ProductID) == "" {
		return invalid("productId", "product is required")
	}
	if in.Quantity <= 0 {
		return invalid("quantity", "must be greater than zero")
	}
	if in.UnitCost.IsNegative() {
		return invalid("unitCost", "must not be negative")
	}
	if in.DocumentType != "" && !in.DocumentType.Valid() {
		return invalid("documentType", fmt.Sprintf("unknown document type %q", in.DocumentType))
	}
	return nil
}

func (e *Engine) purchaseFrom(id string, in PurchaseInput, fallbackDate Date) Purchase {
	date := in.Date
	if date.IsZero() {
		date = fallbackDate
	}
	doc := in.DocumentType
	if doc == "" {
		doc = DocFactura
	}
	return Purchase{
		ID:             id,
		ProductID:      in.ProductID,
		Date:           date,
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		Supplier:       strings.TrimSpace(in.Supplier),
		DocumentType:   doc,
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
	}
}

// shortfall returns an InsufficientStockError when removing qty units would
// take product i below zero. A missing product (i < 0) never falls short.
func (c *collections) shortfall(i int, qty int) error {
	if i < 0 || c.products[i].Stock >= qty {
		return nil
	}
	p := c.products[i]
	return &InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock, Requested: qty}
}

// capacity rejects adding qty units to product i when the count would no
// longer fit in an int.
func (c *collections) capacity(i int, qty int) error {
	if i < 0 || qty <= 0 || c.products[i].Stock <= math.MaxInt-qty {
		return nil
	}
	return invalid("quantity", fmt.Sprintf("stock of %s cannot exceed %d units", c.products[i].ID, math.MaxInt))
}

func (c *collections) addStock(i int, qty int) {
	if i >= 0 {
		c.products[i].Stock += qty
	}
}

// CreatePurchase records a purchase and adds its units to stock. A purchase
// for an SKU that is not in the catalog is still recorded.
func (e *Engine) CreatePurchase(ctx context.Context, in PurchaseInput) (Purchase, Result) {
	var created Purchase
	err := e.exec(ctx, "create_purchase", func(st *collections) (dirty, []Event, error) {
		if err := validatePurchase(in); err != nil {
			return 0, nil, err
		}
		pi := st.productIndex(in.ProductID)
		if err := st.capacity(pi, in.Quantity); err != nil {
			return 0, nil, err
		}
		created = e.purchaseFrom(e.newID(PrefixPurchase), in, e.today())
		st.purchases = append(st.purchases, created)

		if pi < 0 {
			e.logger.Warn("purchase recorded for unknown product",
				zap.String("purchase", created.ID),
				zap.String("product", created.ProductID),
			)
		}
		st.addStock(pi, created.Quantity)
		return dirtyPurchases | dirtyProducts,
			[]Event{st.event(EventPurchaseCreated, created.ID, created.ProductID)}, nil
	})
	return created, result(err, "Purchase recorded")
}

// UpdatePurchase replaces a stored purchase and moves stock by the
// difference. When the product changes, the old product gives back the
// original quantity and the new one receives the new quantity.
func (e *Engine) UpdatePurchase(ctx context.Context, id string, in PurchaseInput) (Purchase, Result) {
	var updated Purchase
	err := e.exec(ctx, "update_purchase", func(st *collections) (dirty, []Event, error) {
		if err := validatePurchase(in); err != nil {
			return 0, nil, err
		}
		idx := st.purchaseIndex(id)
		if idx < 0 {
			return 0, nil, notFound("purchase", id)
		}
		orig := st.purchases[idx]
		updated = e.purchaseFrom(orig.ID, in, orig.Date)

		oldPI := st.productIndex(orig.ProductID)
		newPI := st.productIndex(updated.ProductID)
		events := []Event{}
		if orig.ProductID == updated.ProductID {
			delta := updated.Quantity - orig.Quantity
			if delta < 0 {
				if err := st.shortfall(oldPI, -delta); err != nil {
					return 0, nil, err
				}
			} else if err := st.capacity(oldPI, delta); err != nil {
				return 0, nil, err
			}
			st.addStock(oldPI, delta)
		} else {
			if err := st.shortfall(oldPI, orig.Quantity); err != nil {
				return 0, nil, err
			}
			if err := st.capacity(newPI, updated.Quantity); err != nil {
				return 0, nil, err
			}
			st.addStock(oldPI, -orig.Quantity)
			st.addStock(newPI, updated.Quantity)
			events = append(events, st.event(EventPurchaseUpdated, orig.ID, orig.ProductID))
		}
		st.purchases[idx] = updated
		events = append(events, st.event(EventPurchaseUpdated, updated.ID, updated.ProductID))
		return dirtyPurchases | dirtyProducts, events, nil
	})
	return updated, result(err, "Purchase updated")
}

// DeletePurchase removes a purchase and takes its units back out of stock.
func (e *Engine) DeletePurchase(ctx context.Context, id string) Result {
	err := e.exec(ctx, "delete_purchase", func(st *collections) (dirty, []Event, error) {
		idx := st.purchaseIndex(id)
		if idx < 0 {
			return 0, nil, notFound("purchase", id)
		}
		orig := st.purchases[idx]
		pi := st.productIndex(orig.ProductID)
		if err := st.shortfall(pi, orig.Quantity); err != nil {
			return 0, nil, err
		}
		st.addStock(pi, -orig.Quantity)
		st.purchases = append(st.purchases[:idx], st.purchases[idx+1:]...)
		return dirtyPurchases | dirtyProducts,
			[]Event{st.event(EventPurchaseDeleted, orig.ID, orig.ProductID)}, nil
	})
	return result(err, "Purchase deleted")
}

// =============================================================================
// SALES
// =============================================================================

func validateSale(in SaleInput) error {
	if strings.TrimSpace(in.ProductID) == "" {
		return invalid("productId", "product is required")
	}
	if in.Quantity <= 0 {
		return invalid("quantity", "must be greater than zero")
	}
	if in.UnitPrice.IsNegative() {
		return invalid("unitPrice", "must not be negative")
	}
	return nil
}

func saleFrom(id string, in SaleInput, date Date, customerID string) Sale {
	if !in.Date.IsZero() {
		date = in.Date
	}
	return Sale{
		ID:         id,
		ProductID:  in.ProductID,
		Date:       date,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		Total:      in.UnitPrice.Mul(Amount(int64(in.Quantity))),
		CustomerID: customerID,
	}
}

// covered reports whether product i can give up qty units. A missing product
// cannot cover anything.
func (c *collections) covered(productID string, i int, available, qty int) error {
	if i < 0 {
		return &InsufficientStockError{ProductID: productID, Available: 0, Requested: qty}
	}
	if available < qty {
		p := c.products[i]
		return &InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: available, Requested: qty}
	}
	return nil
}

// CreateSale records a sale and removes its units from stock. Total is
// always unit price times quantity.
func (e *Engine) CreateSale(ctx context.Context, in SaleInput) (Sale, Result) {
	var created Sale
	err := e.exec(ctx, "create_sale", func(st *collections) (dirty, []Event, error) {
		if err := validateSale(in); err != nil {
			return 0, nil, err
		}
		pi := st.productIndex(in.ProductID)
		available := 0
		if pi >= 0 {
			available = st.products[pi].Stock
		}
		if err := st.covered(in.ProductID, pi, available, in.Quantity); err != nil {
			return 0, nil, err
		}
		created = saleFrom(e.newID(PrefixSale), in, e.today(), in.CustomerID)
		st.sales = append(st.sales, created)
		st.products[pi].Stock -= created.Quantity
		return dirtySales | dirtyProducts,
			[]Event{st.event(EventSaleCreated, created.ID, created.ProductID)}, nil
	})
	return created, result(err, fmt.Sprintf("Sale recorded: %d unit(s), total %s", created.Quantity, created.Total.StringFixed(0)))
}

// CreateMultipleSales records a basket as one unit: every line is checked
// against stock before any is applied. Lines for the same SKU are summed
// before the check. Every generated sale carries customerID.
func (e *Engine) CreateMultipleSales(ctx context.Context, items []SaleInput, customerID string) ([]Sale, Result) {
	var created []Sale
	err := e.exec(ctx, "create_multiple_sales", func(st *collections) (dirty, []Event, error) {
		if len(items) == 0 {
			return 0, nil, invalid("items", "at least one item is required")
		}
		demand := make(map[string]int, len(items))
		var order []string
		for i, item := range items {
			if err := validateSale(item); err != nil {
				return 0, nil, fmt.Errorf("item %d: %w", i+1, err)
			}
			if _, seen := demand[item.ProductID]; !seen {
				order = append(order, item.ProductID)
			}
			if demand[item.ProductID] > math.MaxInt-item.Quantity {
				return 0, nil, fmt.Errorf("item %d: %w", i+1, invalid("quantity", "basket quantity is too large"))
			}
			demand[item.ProductID] += item.Quantity
		}
		for _, productID := range order {
			pi := st.productIndex(productID)
			available := 0
			if pi >= 0 {
				available = st.products[pi].Stock
			}
			if err := st.covered(productID, pi, available, demand[productID]); err != nil {
				return 0, nil, err
			}
		}

		today := e.today()
		created = make([]Sale, 0, len(items))
		events := make([]Event, 0, len(items))
		for _, item := range items {
			created = append(created, saleFrom(e.newID(PrefixSale), item, today, customerID))
		}
		st.sales = append(st.sales, created...)
		for _, productID := range order {
			st.products[st.productIndex(productID)].Stock -= demand[productID]
		}
		for _, s := range created {
			events = append(events, st.event(EventSaleCreated, s.ID, s.ProductID))
		}
		return dirtySales | dirtyProducts, events, nil
	})
	return created, result(err, fmt.Sprintf("%d sale(s) recorded", len(created)))
}

// UpdateSale replaces a stored sale. The new quantity must be covered by the
// stock that would exist once the original sale is reverted. The customer is
// kept unless in names another one or sets ClearCustomer.
func (e *Engine) UpdateSale(ctx context.Context, id string, in SaleInput) (Sale, Result) {
	var updated Sale
	err := e.exec(ctx, "update_sale", func(st *collections) (dirty, []Event, error) {
		if err := validateSale(in); err != nil {
			return 0, nil, err
		}
		idx := st.saleIndex(id)
		if idx < 0 {
			return 0, nil, notFound("sale", id)
		}
		orig := st.sales[idx]
		oldPI := st.productIndex(orig.ProductID)
		if oldPI < 0 {
			return 0, nil, notFound("product", orig.ProductID)
		}

		customerID := orig.CustomerID
		switch {
		case in.ClearCustomer:
			customerID = ""
		case in.CustomerID != "":
			customerID = in.CustomerID
		}
		updated = saleFrom(orig.ID, in, orig.Date, customerID)

		events := []Event{}
		if err := st.capacity(oldPI, orig.Quantity); err != nil {
			return 0, nil, err
		}
		if updated.ProductID == orig.ProductID {
			restored := st.products[oldPI].Stock + orig.Quantity
			if err := st.covered(orig.ProductID, oldPI, restored, updated.Quantity); err != nil {
				return 0, nil, err
			}
			st.products[oldPI].Stock -= updated.Quantity - orig.Quantity
		} else {
			newPI := st.productIndex(updated.ProductID)
			if newPI < 0 {
				return 0, nil, notFound("product", updated.ProductID)
			}
			if err := st.covered(updated.ProductID, newPI, st.products[newPI].Stock, updated.Quantity); err != nil {
				return 0, nil, err
			}
			st.products[oldPI].Stock += orig.Quantity
			st.products[newPI].Stock -= updated.Quantity
			events = append(events, st.event(EventSaleUpdated, orig.ID, orig.ProductID))
		}
		st.sales[idx] = updated
		events = append(events, st.event(EventSaleUpdated, updated.ID, updated.ProductID))
		return dirtySales | dirtyProducts, events, nil
	})
	return updated, result(err, "Sale updated")
}

// DeleteSale removes a sale and returns its units to stock.
func (e *Engine) DeleteSale(ctx context.Context, id string) Result {
	err := e.exec(ctx, "delete_sale", func(st *collections) (dirty, []Event, error) {
		idx := st.saleIndex(id)
		if idx < 0 {
			return 0, nil, notFound("sale", id)
		}
		orig := st.sales[idx]
		pi := st.productIndex(orig.ProductID)
		if err := st.capacity(pi, orig.Quantity); err != nil {
			return 0, nil, err
		}
		st.addStock(pi, orig.Quantity)
		st.sales = append(st.sales[:idx], st.sales[idx+1:]...)
		return dirtySales | dirtyProducts,
			[]Event{st.event(EventSaleDeleted, orig.ID, orig.ProductID)}, nil
	})
	return result(err, "Sale deleted")
}

// =============================================================================
// TESTERS
// =============================================================================

// ConvertToTester moves one sellable unit into tester stock and books its
// cost price as an expense. Only one tester may be out per product.
func (e *Engine) ConvertToTester(ctx context.Context, productID string) (Adjustment, Result) {
	var adj Adjustment
	var name string
	err := e.exec(ctx, "convert_to_tester", func(st *collections) (dirty, []Event, error) {
		pi := st.productIndex(productID)
		if pi < 0 {
			return 0, nil, notFound("product", productID)
		}
		p := &st.products[pi]
		name = p.Name
		if p.TesterStock > 0 {
			return 0, nil, &TesterError{ProductID: p.ID, ProductName: p.Name, sentinel: ErrTesterAlreadyActive}
		}
		if p.Stock < 1 {
			return 0, nil, &InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock, Requested: 1}
		}
		adj = Adjustment{
			ID:        e.newID(PrefixAdjustment),
			ProductID: p.ID,
			Date:      e.today(),
			Type:      AdjTesterConversion,
			Quantity:  1,
			Cost:      p.CostPrice,
		}
		st.adjustments = append(st.adjustments, adj)
		p.Stock--
		p.TesterStock++
		return dirtyAdjustments | dirtyProducts,
			[]Event{st.event(EventTesterConverted, adj.ID, p.ID)}, nil
	})
	return adj, result(err, fmt.Sprintf("One unit of %s converted to tester", name))
}

// ConsumeTester retires the product's tester. Sellable stock is untouched
// and no cost is booked.
func (e *Engine) ConsumeTester(ctx context.Context, productID string) (Adjustment, Result) {
	var adj Adjustment
	var name string
	err := e.exec(ctx, "consume_tester", func(st *collections) (dirty, []Event, error) {
		pi := st.productIndex(productID)
		if pi < 0 {
			return 0, nil, notFound("product", productID)
		}
		p := &st.products[pi]
		name = p.Name
		if p.TesterStock < 1 {
			return 0, nil, &TesterError{ProductID: p.ID, ProductName: p.Name, sentinel: ErrNoActiveTester}
		}
		adj = Adjustment{
			ID:        e.newID(PrefixAdjustment),
			ProductID: p.ID,
			Date:      e.today(),
			Type:      AdjTesterConsumed,
			Quantity:  1,
			Cost:      Amount(0),
		}
		st.adjustments = append(st.adjustments, adj)
		p.TesterStock--
		return dirtyAdjustments | dirtyProducts,
			[]Event{st.event(EventTesterConsumed, adj.ID, p.ID)}, nil
	})
	return adj, result(err, fmt.Sprintf("Tester of %s marked as consumed", name))
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func customerFrom(id string, in CustomerInput) (Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Customer{}, invalid("name", "name is required")
	}
	return Customer{
		ID:    id,
		Name:  strings.TrimSpace(in.Name),
		Phone: strings.TrimSpace(in.Phone),
		Email: strings.TrimSpace(in.Email),
		Notes: strings.TrimSpace(in.Notes),
	}, nil
}

func (e *Engine) CreateCustomer(ctx context.Context, in CustomerInput) (Customer, Result) {
	var created Customer
	err := e.exec(ctx, "create_customer", func(st *collections) (dirty, []Event, error) {
		c, err := customerFrom(e.newID(PrefixCustomer), in)
		if err != nil {
			return 0, nil, err
		}
		created = c
		st.customers = append(st.customers, c)
		return dirtyCustomers, []Event{{Kind: EventCustomerCreated, EntityID: c.ID}}, nil
	})
	return created, result(err, fmt.Sprintf("Customer %s added", created.Name))
}

// UpdateCustomer replaces every field of the customer.
func (e *Engine) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (Customer, Result) {
	var updated Customer
	err := e.exec(ctx, "update_customer", func(st *collections) (dirty, []Event, error) {
		idx := st.customerIndex(id)
		if idx < 0 {
			return 0, nil, notFound("customer", id)
		}
		c, err := customerFrom(id, in)
		if err != nil {
			return 0, nil, err
		}
		updated = c
		st.customers[idx] = c
		return dirtyCustomers, []Event{{Kind: EventCustomerUpdated, EntityID: id}}, nil
	})
	return updated, result(err, fmt.Sprintf("Customer %s updated", updated.Name))
}

// DeleteCustomer removes the customer. Sales keep the dangling id.
func (e *Engine) DeleteCustomer(ctx context.Context, id string) Result {
	err := e.exec(ctx, "delete_customer", func(st *collections) (dirty, []Event, error) {
		idx := st.customerIndex(id)
		if idx < 0 {
			return 0, nil, notFound("customer", id)
		}
		st.customers = append(st.customers[:idx], st.customers[idx+1:]...)
		return dirtyCustomers, []Event{{Kind: EventCustomerDeleted, EntityID: id}}, nil
	})
	return result(err, "Customer deleted")
}
