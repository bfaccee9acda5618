/*
handlers_test.go - Tests for the HTTP API

Tests for:
- Status mapping of ledger refusals
- Batch sale atomicity over HTTP
- Tester endpoints
- Views, reports and date range parsing
- Analytics without a configured model
- Demo scenario loading
- Stock monitor
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/perfume-ledger/analytics"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/views"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

var testNow = time.Date(2025, time.October, 1, 15, 30, 0, 0, time.UTC)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Data    T      `json:"data"`
}

type fakeGenerator struct {
	answer string
}

func (f fakeGenerator) Generate(context.Context, string) (string, error) {
	return f.answer, nil
}

func newTestAPI(t *testing.T) (http.Handler, *ledger.Engine) {
	t.Helper()
	store := ledger.NewEntityStore(nil, nil)
	t.Cleanup(store.Close)
	require.NoError(t, store.Load(context.Background(), ledger.DefaultSeed()))

	n := 0
	engine := ledger.NewEngine(store,
		ledger.WithClock(func() time.Time { return testNow }),
		ledger.WithIDGenerator(func(prefix string) string {
			n++
			return fmt.Sprintf("%s%d", prefix, n)
		}),
	)
	return NewRouter(NewHandler(engine, nil, nil)), engine
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func stock(t *testing.T, engine *ledger.Engine, id string) int {
	t.Helper()
	p, ok := engine.Store().Product(id)
	require.True(t, ok, id)
	return p.Stock
}

// =============================================================================
// PRODUCTS
// =============================================================================

func TestListProducts_SeedCatalog(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/products", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	products := decodeBody[[]ProductDTO](t, rec)
	assert.Len(t, products, 9)
	assert.True(t, products[0].LowStock)
}

func TestListProducts_Search(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/products?q=lattafa", nil)

	products := decodeBody[[]ProductDTO](t, rec)
	assert.Len(t, products, 4)
}

func TestCreateProduct_DuplicateSKU_Conflict(t *testing.T) {
	// GIVEN: The seed catalog
	// WHEN: Creating a new SKU, then the same SKU again
	// THEN: 201 then 409 with the duplicate_sku code

	h, _ := newTestAPI(t)
	in := ledger.ProductInput{ID: "20001", Name: "KHAMRAH EDP 100ML", Brand: "Lattafa",
		Gender: ledger.GenderUnisex, CostPrice: ledger.Amount(30000), SalePrice: ledger.Amount(50000)}

	rec := do(t, h, http.MethodPost, "/api/products", in)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[envelope[ledger.Product]](t, rec)
	assert.True(t, created.Success)
	assert.Equal(t, 0, created.Data.Stock)

	rec = do(t, h, http.MethodPost, "/api/products", in)
	assert.Equal(t, http.StatusConflict, rec.Code)
	failed := decodeBody[envelope[any]](t, rec)
	assert.False(t, failed.Success)
	assert.Equal(t, "duplicate_sku", failed.Code)
	assert.Nil(t, failed.Data)
}

func TestUpdateProduct_UsesURLID(t *testing.T) {
	h, engine := newTestAPI(t)

	rec := do(t, h, http.MethodPut, "/api/products/10001", ledger.ProductInput{
		ID: "ignored", Name: "ECLAIRE EDP 100 ML", Brand: "Lattafa", Gender: ledger.GenderFemale,
		CostPrice: ledger.Amount(25990), SalePrice: ledger.Amount(42000),
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p, _ := engine.Store().Product("10001")
	assert.True(t, p.SalePrice.Equal(ledger.Amount(42000)))
	assert.Equal(t, 2, p.Stock)
}

func TestUpdateProduct_Missing_NotFound(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodPut, "/api/products/99999", ledger.ProductInput{Name: "X"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/products/99999", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody[envelope[any]](t, rec).Code)
}

func TestLowStockRoute_NotShadowedByID(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/products/low-stock", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]ProductDTO](t, rec), 9)
}

func TestInvalidBody_BadRequest(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/sales", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decodeBody[envelope[any]](t, rec).Code)
}

// =============================================================================
// SALES
// =============================================================================

func TestCreateSale_InsufficientStock_Unprocessable(t *testing.T) {
	// GIVEN: Product 10001 with 2 units
	// WHEN: Selling 3
	// THEN: 422 and stock is still 2

	h, engine := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/sales", ledger.SaleInput{
		ProductID: "10001", Quantity: 3, UnitPrice: ledger.Amount(40000),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "insufficient_stock", decodeBody[envelope[any]](t, rec).Code)
	assert.Equal(t, 2, stock(t, engine, "10001"))
}

func TestCreateSale_ComputesTotal(t *testing.T) {
	h, engine := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/sales", ledger.SaleInput{
		ProductID: "10001", Quantity: 2, UnitPrice: ledger.Amount(40000),
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decodeBody[envelope[ledger.Sale]](t, rec).Data
	assert.True(t, sale.Total.Equal(ledger.Amount(80000)))
	assert.Equal(t, "2025-10-01", sale.Date.String())
	assert.Equal(t, 0, stock(t, engine, "10001"))

	rec = do(t, h, http.MethodGet, "/api/sales", nil)
	lines := decodeBody[[]SaleDTO](t, rec)
	require.Len(t, lines, 1)
	assert.Equal(t, "ECLAIRE EDP 100 ML", lines[0].ProductName)
	assert.Equal(t, views.GeneralCustomer, lines[0].CustomerName)
}

func TestCreateSalesBatch_OneLineShort_NothingRecorded(t *testing.T) {
	// GIVEN: 10001 has 2 units, 10003 has 1
	// WHEN: A batch of three lines where the second asks 2 of 10003
	// THEN: 422, no sale recorded, every stock unchanged

	h, engine := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/sales/batch", BatchSaleRequest{
		Items: []ledger.SaleInput{
			{ProductID: "10001", Quantity: 1, UnitPrice: ledger.Amount(40000)},
			{ProductID: "10003", Quantity: 2, UnitPrice: ledger.Amount(45000)},
			{ProductID: "10004", Quantity: 1, UnitPrice: ledger.Amount(45000)},
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 2, stock(t, engine, "10001"))
	assert.Equal(t, 1, stock(t, engine, "10003"))
	assert.Equal(t, 2, stock(t, engine, "10004"))
	assert.Empty(t, engine.Snapshot().Sales)
}

func TestCreateSalesBatch_Success_AssignsCustomer(t *testing.T) {
	h, engine := newTestAPI(t)
	rec := do(t, h, http.MethodPost, "/api/customers", ledger.CustomerInput{Name: "Camila"})
	require.Equal(t, http.StatusCreated, rec.Code)
	customer := decodeBody[envelope[ledger.Customer]](t, rec).Data

	rec = do(t, h, http.MethodPost, "/api/sales/batch", BatchSaleRequest{
		CustomerID: customer.ID,
		Items: []ledger.SaleInput{
			{ProductID: "10001", Quantity: 1, UnitPrice: ledger.Amount(40000)},
			{ProductID: "10002", Quantity: 2, UnitPrice: ledger.Amount(35000)},
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sales := decodeBody[envelope[[]ledger.Sale]](t, rec).Data
	require.Len(t, sales, 2)
	for _, s := range sales {
		assert.Equal(t, customer.ID, s.CustomerID)
	}
	assert.Equal(t, 0, stock(t, engine, "10002"))

	rec = do(t, h, http.MethodGet, "/api/customers/"+customer.ID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeBody[views.CustomerHistory](t, rec)
	assert.Equal(t, 2, history.PurchaseCount)
	assert.True(t, history.TotalSpent.Equal(ledger.Amount(110000)))
}

func TestUpdateAndDeleteSale_RestoresStock(t *testing.T) {
	h, engine := newTestAPI(t)
	rec := do(t, h, http.MethodPost, "/api/sales", ledger.SaleInput{
		ProductID: "10005", Quantity: 1, UnitPrice: ledger.Amount(35000),
	})
	sale := decodeBody[envelope[ledger.Sale]](t, rec).Data

	rec = do(t, h, http.MethodPut, "/api/sales/"+sale.ID, ledger.SaleInput{
		ProductID: "10005", Quantity: 3, UnitPrice: ledger.Amount(35000),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, stock(t, engine, "10005"))

	rec = do(t, h, http.MethodDelete, "/api/sales/"+sale.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, stock(t, engine, "10005"))

	rec = do(t, h, http.MethodDelete, "/api/sales/"+sale.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// PURCHASES
// =============================================================================

func TestPurchaseLifecycle(t *testing.T) {
	h, engine := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/purchases", ledger.PurchaseInput{
		ProductID: "10003", Quantity: 4, UnitCost: ledger.Amount(29990), Supplier: "ACME",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	purchase := decodeBody[envelope[ledger.Purchase]](t, rec).Data
	assert.Equal(t, ledger.DocFactura, purchase.DocumentType)
	assert.Equal(t, 5, stock(t, engine, "10003"))

	rec = do(t, h, http.MethodGet, "/api/purchases", nil)
	list := decodeBody[[]PurchaseDTO](t, rec)
	require.Len(t, list, 10)
	assert.Equal(t, purchase.ID, list[0].ID)
	assert.True(t, list[0].Cost.Equal(ledger.Amount(119960)))

	// Selling 4 leaves 1, so removing the 4-unit purchase would go negative.
	rec = do(t, h, http.MethodPost, "/api/sales", ledger.SaleInput{
		ProductID: "10003", Quantity: 4, UnitPrice: ledger.Amount(45000),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/purchases/"+purchase.ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 1, stock(t, engine, "10003"))
}

// =============================================================================
// TESTERS
// =============================================================================

func TestTesterEndpoints(t *testing.T) {
	// GIVEN: Product 10005 with 3 units and no tester
	// WHEN: Converting twice, consuming twice
	// THEN: 201, 409, 201, 409

	h, engine := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/products/10005/tester", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	adj := decodeBody[envelope[ledger.Adjustment]](t, rec).Data
	assert.Equal(t, ledger.AdjTesterConversion, adj.Type)
	assert.True(t, adj.Cost.Equal(ledger.Amount(19990)))

	rec = do(t, h, http.MethodPost, "/api/products/10005/tester", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "tester_already_active", decodeBody[envelope[any]](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/api/products/10005/tester/consume", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/products/10005/tester/consume", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_active_tester", decodeBody[envelope[any]](t, rec).Code)

	p, _ := engine.Store().Product("10005")
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, 0, p.TesterStock)

	rec = do(t, h, http.MethodGet, "/api/adjustments", nil)
	assert.Len(t, decodeBody[[]ledger.Adjustment](t, rec), 2)
}

// =============================================================================
// VIEWS
// =============================================================================

func TestMovements(t *testing.T) {
	h, _ := newTestAPI(t)
	do(t, h, http.MethodPost, "/api/sales", ledger.SaleInput{
		ProductID: "10001", Quantity: 1, UnitPrice: ledger.Amount(40000),
	})

	rec := do(t, h, http.MethodGet, "/api/products/10001/movements", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	movements := decodeBody[[]views.Movement](t, rec)
	require.Len(t, movements, 2)
	assert.Equal(t, views.MovementSale, movements[0].Kind)
	assert.Equal(t, 1, movements[0].StockAfter)
	assert.Equal(t, 2, movements[1].StockAfter)

	rec = do(t, h, http.MethodGet, "/api/products/nope/movements", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReports(t *testing.T) {
	h, _ := newTestAPI(t)
	do(t, h, http.MethodPost, "/api/sales", ledger.SaleInput{
		ProductID: "10001", Quantity: 1, UnitPrice: ledger.Amount(40000),
	})

	rec := do(t, h, http.MethodGet, "/api/reports/profit?from=2025-09-01&to=2025-10-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Kind   views.ReportKind   `json:"kind"`
		From   string             `json:"from"`
		Report views.ProfitReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, views.ReportProfit, resp.Kind)
	assert.Equal(t, "2025-09-01", resp.From)
	assert.True(t, resp.Report.NetProfit.Equal(ledger.Amount(15010)))

	rec = do(t, h, http.MethodGet, "/api/reports/inventory", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/reports/weekly", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCashFlow_DefaultAndInvalidRange(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/cashflow", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[CashFlowResponse](t, rec)
	assert.Equal(t, "2025-09-01", resp.From)
	assert.Equal(t, "2025-10-01", resp.To)
	assert.Len(t, resp.Entries, 9, "the opening purchases fall inside the last 30 days")

	rec = do(t, h, http.MethodGet, "/api/cashflow?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/cashflow?from=2025-10-10&to=2025-10-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPeriod_OnlyTo_AnchorsOnTo(t *testing.T) {
	// GIVEN: A sale dated in August, long before the default window
	// WHEN: Querying cash flow and the profit report with only ?to=
	// THEN: The range is the 30 days ending at "to" and includes the sale

	h, _ := newTestAPI(t)
	rec := do(t, h, http.MethodPost, "/api/sales", ledger.SaleInput{
		ProductID: "10001", Date: ledger.NewDate(2025, time.August, 15),
		Quantity: 1, UnitPrice: ledger.Amount(40000),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/cashflow?to=2025-08-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	flow := decodeBody[CashFlowResponse](t, rec)
	assert.Equal(t, "2025-08-01", flow.From)
	assert.Equal(t, "2025-08-31", flow.To)
	require.Len(t, flow.Entries, 1)

	rec = do(t, h, http.MethodGet, "/api/reports/profit?to=2025-08-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		From   string             `json:"from"`
		Report views.ProfitReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-08-01", resp.From)
	assert.True(t, resp.Report.NetProfit.Equal(ledger.Amount(15010)))
}

func TestDashboard(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/dashboard", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	dash := decodeBody[views.Dashboard](t, rec)
	assert.Len(t, dash.LowStock, 9)
	assert.True(t, dash.TotalRevenue.IsZero())
}

// =============================================================================
// ANALYTICS
// =============================================================================

func TestAsk_NotConfigured(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/analytics/ask", AskRequest{Query: "best seller?"})

	require.Equal(t, http.StatusOK, rec.Code)
	answer := decodeBody[analytics.Answer](t, rec)
	assert.Equal(t, analytics.OutcomeNotConfigured, answer.Outcome)
	assert.Equal(t, analytics.NotConfiguredText, answer.Text)
}

func TestAsk_EmptyQuery_BadRequest(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/analytics/ask", AskRequest{Query: "  "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAsk_Configured(t *testing.T) {
	_, engine := newTestAPI(t)
	svc := analytics.NewService(fakeGenerator{answer: "ECLAIRE sells best."}, time.Second, nil)
	h := NewRouter(NewHandler(engine, svc, nil))

	rec := do(t, h, http.MethodPost, "/api/analytics/ask", AskRequest{Query: "best seller?"})

	answer := decodeBody[analytics.Answer](t, rec)
	assert.Equal(t, analytics.OutcomeAnswered, answer.Outcome)
	assert.Equal(t, "ECLAIRE sells best.", answer.Text)
}

// =============================================================================
// SCENARIOS & HEALTH
// =============================================================================

func TestLoadScenario_BusyMonth(t *testing.T) {
	// GIVEN: The seed catalog
	// WHEN: Loading the busy-month scenario
	// THEN: Records are replaced and every stock is non-negative

	h, engine := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "busy-month"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap := engine.Snapshot()
	assert.Len(t, snap.Customers, 2)
	assert.Len(t, snap.Sales, 5)
	assert.Len(t, snap.Adjustments, 1)
	assert.Equal(t, 2, stock(t, engine, "10001"))
	assert.Equal(t, 4, stock(t, engine, "10005"))
	for _, p := range snap.Products {
		assert.GreaterOrEqual(t, p.Stock, 0, p.ID)
	}

	rec = do(t, h, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "busy-month", decodeBody[ScenarioDTO](t, rec).ID)
}

func TestLoadScenario_Empty_And_Unknown(t *testing.T) {
	h, engine := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "empty"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, engine.Snapshot().Products)

	rec = do(t, h, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[HealthDTO](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 9, health.Products)
	assert.False(t, health.Analytics)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestAPI(t)
	do(t, h, http.MethodGet, "/health", nil)

	rec := do(t, h, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
}

func TestInstrument_SpanNamedByRoute(t *testing.T) {
	// GIVEN: A recording tracer provider
	// WHEN: Requesting two different products
	// THEN: Both spans carry the route pattern, not the raw path

	exporter := tracetest.NewInMemoryExporter()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)))
	t.Cleanup(func() { otel.SetTracerProvider(trace.NewNoopTracerProvider()) })

	h, _ := newTestAPI(t)
	do(t, h, http.MethodGet, "/api/products/10001", nil)
	do(t, h, http.MethodGet, "/api/products/10002", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	for _, span := range spans {
		assert.Equal(t, "GET /api/products/{id}", span.Name)
	}
}

// =============================================================================
// STOCK MONITOR
// =============================================================================

func TestStockMonitor_FlagsOnEntry(t *testing.T) {
	_, engine := newTestAPI(t)
	monitor := NewStockMonitor(engine, nil)

	assert.Len(t, monitor.RunNow(), 9)
	assert.Empty(t, monitor.RunNow(), "already flagged products are not reported again")

	_, res := engine.CreatePurchase(context.Background(), ledger.PurchaseInput{ProductID: "10001", Quantity: 5})
	require.True(t, res.Success)
	assert.Empty(t, monitor.RunNow())

	_, res = engine.CreateSale(context.Background(), ledger.SaleInput{ProductID: "10001", Quantity: 5})
	require.True(t, res.Success)
	assert.Equal(t, []string{"10001"}, monitor.RunNow())
}

func TestStockMonitor_StartStop(t *testing.T) {
	_, engine := newTestAPI(t)
	monitor := NewStockMonitor(engine, nil)
	monitor.CheckInterval = time.Hour

	monitor.Start()
	monitor.Stop()
	monitor.Stop()
}
