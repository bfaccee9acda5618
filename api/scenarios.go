/*
scenarios.go - Demo datasets for testing and demonstrations

PURPOSE:

	Provides pre-built datasets that replace the ledger contents with
	realistic data for demos. Each dataset is produced by running ordinary
	engine operations, so the stock levels always agree with the records.

AVAILABLE SCENARIOS:

	opening-catalog: The nine-product opening catalog and its purchases
	empty:           No products, no records
	busy-month:      Opening catalog plus a month of purchases, sales,
	                 testers and two regular customers

HOW SCENARIOS WORK:
 1. Build a scratch engine over an in-memory store
 2. Run the dataset's operations against it, dated relative to today
 3. Swap the scratch snapshot into the live engine (Engine.Reset)

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "busy-month"}

NOTE:

	Loading a scenario overwrites every collection, including the
	persisted copies. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Other handlers
  - ledger/seed.go: Opening catalog
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/perfume-ledger/ledger"
	"go.uber.org/zap"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "opening-catalog",
		Name:        "Opening Catalog",
		Description: "Nine perfumes with the purchases that explain their stock",
	},
	{
		ID:          "empty",
		Name:        "Empty Shop",
		Description: "No products and no movements",
	},
	{
		ID:          "busy-month",
		Name:        "Busy Month",
		Description: "Opening catalog plus a month of purchases, sales, testers and customers",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the last loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces the ledger contents with a predefined dataset.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decode(w, r, &req) {
		return
	}

	data, err := BuildScenario(r.Context(), req.ScenarioID, h.Engine.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	h.Engine.Reset(data)

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	h.logger.Info("scenario loaded", zap.String("scenario", req.ScenarioID))
	writeJSON(w, http.StatusOK, ResultResponse{
		Success: true,
		Message: fmt.Sprintf("Scenario %s loaded", req.ScenarioID),
		Data:    scenarioSummary(data),
	})
}

// BuildScenario produces the dataset for id with dates relative to now.
func BuildScenario(ctx context.Context, id string, now time.Time) (ledger.Snapshot, error) {
	switch id {
	case "opening-catalog":
		return ledger.DefaultSeed(), nil
	case "empty":
		return ledger.EmptySeed(), nil
	case "busy-month":
		return buildBusyMonth(ctx, now)
	default:
		return ledger.Snapshot{}, &ledger.NotFoundError{Kind: "scenario", ID: id}
	}
}

func scenarioSummary(data ledger.Snapshot) map[string]int {
	return map[string]int{
		"products":    len(data.Products),
		"purchases":   len(data.Purchases),
		"sales":       len(data.Sales),
		"adjustments": len(data.Adjustments),
		"customers":   len(data.Customers),
	}
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

// buildBusyMonth replays a month of shop activity on a scratch engine.
func buildBusyMonth(ctx context.Context, now time.Time) (ledger.Snapshot, error) {
	store := ledger.NewEntityStore(nil, nil)
	defer store.Close()
	store.Replace(ledger.DefaultSeed())

	engine := ledger.NewEngine(store, ledger.WithClock(func() time.Time { return now }))
	today := ledger.DateOf(now)
	day := func(daysAgo int) ledger.Date { return today.AddDays(-daysAgo) }

	steps := []func() ledger.Result{
		func() ledger.Result {
			_, res := engine.CreatePurchase(ctx, ledger.PurchaseInput{
				ProductID: "10005", Date: day(28), Quantity: 4, UnitCost: ledger.Amount(19990),
				Supplier: "DISTRIBUIDORA AROMAS", DocumentType: ledger.DocFactura, DocumentNumber: "F-1187",
			})
			return res
		},
		func() ledger.Result {
			_, res := engine.CreatePurchase(ctx, ledger.PurchaseInput{
				ProductID: "10001", Date: day(25), Quantity: 3, UnitCost: ledger.Amount(24990),
				Supplier: "DISTRIBUIDORA AROMAS", DocumentType: ledger.DocFactura, DocumentNumber: "F-1203",
			})
			return res
		},
		func() ledger.Result {
			_, res := engine.CreateCustomer(ctx, ledger.CustomerInput{
				Name: "Camila Rojas", Phone: "+56 9 5555 0101", Email: "camila@example.com",
			})
			return res
		},
		func() ledger.Result {
			_, res := engine.CreateCustomer(ctx, ledger.CustomerInput{
				Name: "Diego Fuentes", Phone: "+56 9 5555 0202", Notes: "Prefers woody scents",
			})
			return res
		},
		func() ledger.Result {
			_, res := engine.CreateSale(ctx, ledger.SaleInput{
				ProductID: "10001", Date: day(20), Quantity: 1, UnitPrice: ledger.Amount(40000),
				CustomerID: customerID(store, 0),
			})
			return res
		},
		func() ledger.Result {
			_, res := engine.CreateMultipleSales(ctx, []ledger.SaleInput{
				{ProductID: "10004", Date: day(14), Quantity: 1, UnitPrice: ledger.Amount(45000)},
				{ProductID: "10005", Date: day(14), Quantity: 2, UnitPrice: ledger.Amount(35000)},
			}, customerID(store, 1))
			return res
		},
		func() ledger.Result {
			_, res := engine.ConvertToTester(ctx, "10005")
			return res
		},
		func() ledger.Result {
			_, res := engine.CreateSale(ctx, ledger.SaleInput{
				ProductID: "10002", Date: day(6), Quantity: 1, UnitPrice: ledger.Amount(35000),
			})
			return res
		},
		func() ledger.Result {
			_, res := engine.CreateSale(ctx, ledger.SaleInput{
				ProductID: "10001", Date: day(2), Quantity: 2, UnitPrice: ledger.Amount(38000),
				CustomerID: customerID(store, 0),
			})
			return res
		},
	}

	for i, step := range steps {
		if res := step(); !res.Success {
			return ledger.Snapshot{}, fmt.Errorf("busy-month step %d: %w", i+1, res.Err)
		}
	}
	return store.Snapshot(), nil
}

func customerID(store *ledger.EntityStore, i int) string {
	customers := store.Snapshot().Customers
	if i >= len(customers) {
		return ""
	}
	return customers[i].ID
}
