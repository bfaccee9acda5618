/*
handlers.go - HTTP API handlers for the perfume shop ledger

PURPOSE:
  Exposes the stock ledger engine and the derived views via REST API.
  Handles HTTP request/response and JSON serialization, and delegates
  every rule to the ledger package.

ENDPOINTS:
  Products:
    GET    /api/products                     List products (?q= filters)
    POST   /api/products                     Create product
    GET    /api/products/low-stock           Products with 1..3 units left
    GET    /api/products/{id}                Get product
    PUT    /api/products/{id}                Update product attributes
    DELETE /api/products/{id}                Delete product (no cascade)
    GET    /api/products/{id}/movements      Movement history with stock after
    POST   /api/products/{id}/tester         Convert one unit to tester
    POST   /api/products/{id}/tester/consume Retire the active tester

  Purchases / Sales / Adjustments:
    GET    /api/purchases, POST /api/purchases, PUT|DELETE /api/purchases/{id}
    GET    /api/sales, POST /api/sales, POST /api/sales/batch,
    PUT|DELETE /api/sales/{id}
    GET    /api/adjustments

  Customers:
    GET|POST /api/customers, GET|PUT|DELETE /api/customers/{id}
    GET    /api/customers/{id}/history

  Views:
    GET    /api/cashflow?from=&to=
    GET    /api/reports/{kind}?from=&to=     kind: sales, inventory, profit
    GET    /api/dashboard

  Analytics:
    POST   /api/analytics/ask

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Engine: the only writer of the ledger
  - Analytics: text-generation collaborator
  - Logger

REQUEST FLOW:
  1. Parse HTTP request
  2. Call the engine (mutations) or a view over a snapshot (reads)
  3. Serialize response

ERROR HANDLING:
  Ledger refusals map to HTTP status:
  - 400: Invalid input, malformed body or date range
  - 404: Product, purchase, sale or customer not found
  - 409: Duplicate SKU, tester already active, no active tester
  - 422: Insufficient stock

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo datasets
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/warp/perfume-ledger/analytics"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/telemetry"
	"github.com/warp/perfume-ledger/views"
	"go.uber.org/zap"
)

// DefaultPeriodDays is the lookback used when a range has no "from".
const DefaultPeriodDays = 30

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine    *ledger.Engine
	Analytics *analytics.Service
	logger    *zap.Logger

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler. A nil svc answers every analytics question
// with the not-configured text.
func NewHandler(engine *ledger.Engine, svc *analytics.Service, logger *zap.Logger) *Handler {
	logger = telemetry.OrNop(logger)
	if svc == nil {
		svc = analytics.NewService(nil, 0, logger)
	}
	return &Handler{
		Engine:    engine,
		Analytics: svc,
		logger:    logger,
	}
}

// Health reports liveness plus a couple of cheap facts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.Engine.Snapshot()
	writeJSON(w, http.StatusOK, HealthDTO{
		Status:    "ok",
		Products:  len(snap.Products),
		Analytics: h.Analytics.Configured(),
	})
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

// ListProducts returns the catalog. ?q= matches SKU, name or brand
// case-insensitively; ?gender= filters by gender.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	snap := h.Engine.Snapshot()
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	gender := ledger.Gender(strings.ToUpper(r.URL.Query().Get("gender")))

	dtos := make([]ProductDTO, 0, len(snap.Products))
	for _, p := range snap.Products {
		if gender != "" && p.Gender != gender {
			continue
		}
		if q != "" && !matches(q, p.ID, p.Name, p.Brand) {
			continue
		}
		dtos = append(dtos, toProductDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.Engine.Store().Product(id)
	if !ok {
		writeError(w, &ledger.NotFoundError{Kind: "product", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(p))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in ledger.ProductInput
	if !decode(w, r, &in) {
		return
	}
	p, res := h.Engine.CreateProduct(r.Context(), in)
	writeResult(w, http.StatusCreated, res, p)
}

// UpdateProduct replaces the product's attributes. The SKU comes from the
// URL; a different id in the body is ignored.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in ledger.ProductInput
	if !decode(w, r, &in) {
		return
	}
	in.ID = chi.URLParam(r, "id")
	p, res := h.Engine.UpdateProduct(r.Context(), in)
	writeResult(w, http.StatusOK, res, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	res := h.Engine.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	writeResult(w, http.StatusOK, res, nil)
}

func (h *Handler) ProductMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := views.Movements(h.Engine.Snapshot(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

func (h *Handler) ConvertToTester(w http.ResponseWriter, r *http.Request) {
	adj, res := h.Engine.ConvertToTester(r.Context(), chi.URLParam(r, "id"))
	writeResult(w, http.StatusCreated, res, adj)
}

func (h *Handler) ConsumeTester(w http.ResponseWriter, r *http.Request) {
	adj, res := h.Engine.ConsumeTester(r.Context(), chi.URLParam(r, "id"))
	writeResult(w, http.StatusCreated, res, adj)
}

func (h *Handler) LowStockProducts(w http.ResponseWriter, r *http.Request) {
	low := views.LowStock(h.Engine.Snapshot().Products)
	dtos := make([]ProductDTO, len(low))
	for i, p := range low {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PURCHASE HANDLERS
// =============================================================================

// ListPurchases returns every purchase, newest first.
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	snap := h.Engine.Snapshot()
	dtos := make([]PurchaseDTO, 0, len(snap.Purchases))
	for i := len(snap.Purchases) - 1; i >= 0; i-- {
		p := snap.Purchases[i]
		dtos = append(dtos, PurchaseDTO{
			Purchase:    p,
			ProductName: views.ProductName(snap, p.ProductID),
			Cost:        p.Cost(),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var in ledger.PurchaseInput
	if !decode(w, r, &in) {
		return
	}
	p, res := h.Engine.CreatePurchase(r.Context(), in)
	writeResult(w, http.StatusCreated, res, p)
}

func (h *Handler) UpdatePurchase(w http.ResponseWriter, r *http.Request) {
	var in ledger.PurchaseInput
	if !decode(w, r, &in) {
		return
	}
	p, res := h.Engine.UpdatePurchase(r.Context(), chi.URLParam(r, "id"), in)
	writeResult(w, http.StatusOK, res, p)
}

func (h *Handler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	res := h.Engine.DeletePurchase(r.Context(), chi.URLParam(r, "id"))
	writeResult(w, http.StatusOK, res, nil)
}

// =============================================================================
// SALE HANDLERS
// =============================================================================

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, views.SaleLines(h.Engine.Snapshot()))
}

func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var in ledger.SaleInput
	if !decode(w, r, &in) {
		return
	}
	s, res := h.Engine.CreateSale(r.Context(), in)
	writeResult(w, http.StatusCreated, res, s)
}

// CreateSalesBatch records a cart. Either every line is recorded or none.
func (h *Handler) CreateSalesBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchSaleRequest
	if !decode(w, r, &req) {
		return
	}
	sales, res := h.Engine.CreateMultipleSales(r.Context(), req.Items, req.CustomerID)
	writeResult(w, http.StatusCreated, res, sales)
}

func (h *Handler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	var in ledger.SaleInput
	if !decode(w, r, &in) {
		return
	}
	s, res := h.Engine.UpdateSale(r.Context(), chi.URLParam(r, "id"), in)
	writeResult(w, http.StatusOK, res, s)
}

func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	res := h.Engine.DeleteSale(r.Context(), chi.URLParam(r, "id"))
	writeResult(w, http.StatusOK, res, nil)
}

// =============================================================================
// ADJUSTMENT HANDLERS
// =============================================================================

func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	snap := h.Engine.Snapshot()
	adjustments := snap.Adjustments
	if adjustments == nil {
		adjustments = []ledger.Adjustment{}
	}
	writeJSON(w, http.StatusOK, adjustments)
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	snap := h.Engine.Snapshot()
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	customers := make([]ledger.Customer, 0, len(snap.Customers))
	for _, c := range snap.Customers {
		if q != "" && !matches(q, c.Name, c.Phone, c.Email) {
			continue
		}
		customers = append(customers, c)
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := h.Engine.Store().Customer(id)
	if !ok {
		writeError(w, &ledger.NotFoundError{Kind: "customer", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in ledger.CustomerInput
	if !decode(w, r, &in) {
		return
	}
	c, res := h.Engine.CreateCustomer(r.Context(), in)
	writeResult(w, http.StatusCreated, res, c)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var in ledger.CustomerInput
	if !decode(w, r, &in) {
		return
	}
	c, res := h.Engine.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), in)
	writeResult(w, http.StatusOK, res, c)
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	res := h.Engine.DeleteCustomer(r.Context(), chi.URLParam(r, "id"))
	writeResult(w, http.StatusOK, res, nil)
}

func (h *Handler) CustomerHistory(w http.ResponseWriter, r *http.Request) {
	history, err := views.History(h.Engine.Snapshot(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// =============================================================================
// VIEW HANDLERS
// =============================================================================

func (h *Handler) CashFlow(w http.ResponseWriter, r *http.Request) {
	period, err := h.period(r)
	if err != nil {
		writeError(w, err)
		return
	}
	statement := views.CashFlow(h.Engine.Snapshot(), period)
	writeJSON(w, http.StatusOK, CashFlowResponse{
		From:              period.Start.String(),
		To:                period.End.String(),
		CashFlowStatement: statement,
	})
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	kind, err := views.ParseReportKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	period, err := h.period(r)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := views.BuildReport(kind, h.Engine.Snapshot(), period)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReportResponse{
		Kind:   kind,
		From:   period.Start.String(),
		To:     period.End.String(),
		Report: report,
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, views.BuildDashboard(h.Engine.Snapshot()))
}

// =============================================================================
// ANALYTICS HANDLERS
// =============================================================================

// Ask forwards a question to the analytics assistant. The answer outcome is
// always 200; only an empty question is rejected.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, &ledger.ValidationError{Field: "query", Reason: "is required"})
		return
	}
	writeJSON(w, http.StatusOK, h.Analytics.Ask(r.Context(), req.Query, h.Engine.Snapshot()))
}

// =============================================================================
// HELPERS
// =============================================================================

// period reads ?from= and ?to=. A missing "to" is today; a missing "from"
// is DefaultPeriodDays days before "to".
func (h *Handler) period(r *http.Request) (ledger.Period, error) {
	end := ledger.DateOf(h.Engine.Now())
	if to := r.URL.Query().Get("to"); to != "" {
		d, err := ledger.ParseDate(to)
		if err != nil {
			return ledger.Period{}, &ledger.ValidationError{Field: "to", Reason: err.Error()}
		}
		end = d
	}
	period := ledger.LastDays(end, DefaultPeriodDays)

	if from := r.URL.Query().Get("from"); from != "" {
		d, err := ledger.ParseDate(from)
		if err != nil {
			return ledger.Period{}, &ledger.ValidationError{Field: "from", Reason: err.Error()}
		}
		period.Start = d
	}
	if period.End.Before(period.Start) {
		return ledger.Period{}, &ledger.ValidationError{Field: "to", Reason: "is before from"}
	}
	return period, nil
}

func toProductDTO(p ledger.Product) ProductDTO {
	return ProductDTO{Product: p, LowStock: p.Stock > 0 && p.Stock <= views.LowStockThreshold}
}

func matches(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ResultResponse{
			Success: false,
			Message: "Invalid request body: " + err.Error(),
			Code:    ledger.ErrorCode(ledger.ErrInvalidInput),
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeResult answers a mutation. data is only sent on success.
func writeResult(w http.ResponseWriter, okStatus int, res ledger.Result, data any) {
	status := okStatus
	if !res.Success {
		status = statusFor(res.Err)
	}
	writeJSON(w, status, resultResponse(res, data))
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ResultResponse{
		Success: false,
		Message: err.Error(),
		Code:    ledger.ErrorCode(err),
	})
}

// statusFor maps a ledger refusal to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateSKU),
		errors.Is(err, ledger.ErrTesterAlreadyActive),
		errors.Is(err, ledger.ErrNoActiveTester):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
