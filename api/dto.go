/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication that are not ledger
  types themselves. Entity inputs (ProductInput, PurchaseInput, SaleInput,
  CustomerInput) are decoded straight into the ledger types; the wrappers
  here cover envelopes and endpoint-specific bodies.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Response wrappers

ENVELOPE:
  Every mutation and every error answers with ResultResponse:
    {"success": false, "message": "...", "code": "insufficient_stock"}
  Successful mutations add the affected record under "data".
  Read endpoints return their payload directly.

VALIDATION:
  Validation is done by the ledger engine, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: Entity and input types
*/
package api

import (
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/views"
)

// =============================================================================
// ENVELOPES
// =============================================================================

// ResultResponse mirrors ledger.Result on the wire.
type ResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func resultResponse(res ledger.Result, data any) ResultResponse {
	resp := ResultResponse{Success: res.Success, Message: res.Message}
	if res.Success {
		resp.Data = data
	} else {
		resp.Code = res.Code()
	}
	return resp
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// BatchSaleRequest records several sale lines for one customer at once.
type BatchSaleRequest struct {
	CustomerID string             `json:"customerId,omitempty"`
	Items      []ledger.SaleInput `json:"items"`
}

// AskRequest is a natural-language question for the analytics assistant.
type AskRequest struct {
	Query string `json:"query"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ProductDTO adds the derived low-stock flag to a product.
type ProductDTO struct {
	ledger.Product
	LowStock bool `json:"lowStock"`
}

// SaleDTO is a sale with its references resolved for display.
type SaleDTO = views.SaleLine

// PurchaseDTO is a purchase with its product name resolved for display.
type PurchaseDTO struct {
	ledger.Purchase
	ProductName string       `json:"productName"`
	Cost        ledger.Money `json:"cost"`
}

// ReportResponse tags a report with its kind.
type ReportResponse struct {
	Kind   views.ReportKind `json:"kind"`
	From   string           `json:"from"`
	To     string           `json:"to"`
	Report views.Report     `json:"report"`
}

type CashFlowResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
	views.CashFlowStatement
}

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type HealthDTO struct {
	Status    string `json:"status"`
	Products  int    `json:"products"`
	Analytics bool   `json:"analytics"`
}
