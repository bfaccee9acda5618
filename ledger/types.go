/*
Package ledger provides the stock ledger for the perfume shop.

PURPOSE:
  Keeps Product.Stock and Product.TesterStock consistent while purchases,
  sales and tester adjustments are created, edited and deleted. Every
  stock-affecting operation is applied as one atomic transition on the
  EntityStore, and every edit or delete is applied as a reversal of the
  stored record's effect.

KEY CONCEPTS IN THIS FILE (types.go):
  - Product: identified by its SKU, carries sellable and tester stock
  - Purchase / Sale / Adjustment: stock movements that reference a Product
  - Customer: optional buyer attached to a Sale
  - Snapshot: read-only copy of all five collections

REFERENCES:
  Every productId / customerId on a record is a weak reference. Deleting a
  Product or Customer never cascades; historical records keep the id and
  display code resolves it to a placeholder.

SEE ALSO:
  - engine.go: The mutation rules
  - entity_store.go: Ownership and persistence of the collections
  - errors.go: Failure taxonomy
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

// Money is a currency amount. Amounts are exact; there is no float math.
type Money = decimal.Decimal

// Amount builds Money from whole currency units.
func Amount(units int64) Money { return decimal.NewFromInt(units) }

// =============================================================================
// ENUMERATIONS
// =============================================================================

type Gender string

const (
	GenderMale   Gender = "HOMBRE"
	GenderFemale Gender = "MUJER"
	GenderUnisex Gender = "UNISEX"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnisex:
		return true
	}
	return false
}

type DocumentType string

const (
	DocFactura      DocumentType = "FACTURA"
	DocBoleta       DocumentType = "BOLETA"
	DocGuiaDespacho DocumentType = "GUIA DE DESPACHO"
	DocOtro         DocumentType = "OTRO"
)

func (d DocumentType) Valid() bool {
	switch d {
	case DocFactura, DocBoleta, DocGuiaDespacho, DocOtro:
		return true
	}
	return false
}

type AdjustmentType string

const (
	// AdjTesterConversion moves one sellable unit into tester stock.
	AdjTesterConversion AdjustmentType = "CONVERSION_TESTER"
	// AdjTesterConsumed retires one tester unit. Sellable stock is untouched.
	AdjTesterConsumed AdjustmentType = "CONSUMO_TESTER"
)

// =============================================================================
// ENTITIES
// =============================================================================

// Product is identified by its SKU, chosen by the business.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Gender      Gender          `json:"gender"`
	Stock       int             `json:"stock"`
	TesterStock int             `json:"testerStock"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	SalePrice   decimal.Decimal `json:"salePrice"`
}

type Purchase struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"productId"`
	Date           Date            `json:"date"`
	Quantity       int             `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	Supplier       string          `json:"supplier"`
	DocumentType   DocumentType    `json:"documentType"`
	DocumentNumber string          `json:"documentNumber"`
}

// Cost is the cash paid for the purchase.
func (p Purchase) Cost() decimal.Decimal {
	return p.UnitCost.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Sale records units leaving sellable stock. Total is always derived from
// Quantity and UnitPrice; it is never accepted from callers.
type Sale struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"productId"`
	Date       Date            `json:"date"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Total      decimal.Decimal `json:"total"`
	CustomerID string          `json:"customerId,omitempty"`
}

type Adjustment struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Date      Date            `json:"date"`
	Type      AdjustmentType  `json:"type"`
	Quantity  int             `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// =============================================================================
// INPUTS - what callers may set on create/update
// =============================================================================

// ProductInput carries the mutable attributes of a Product plus its SKU.
// Stock fields are deliberately absent.
type ProductInput struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Gender    Gender          `json:"gender"`
	CostPrice decimal.Decimal `json:"costPrice"`
	SalePrice decimal.Decimal `json:"salePrice"`
}

type PurchaseInput struct {
	ProductID      string          `json:"productId"`
	Date           Date            `json:"date"`
	Quantity       int             `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	Supplier       string          `json:"supplier"`
	DocumentType   DocumentType    `json:"documentType"`
	DocumentNumber string          `json:"documentNumber"`
}

// SaleInput describes a sale line. On update an empty CustomerID keeps the
// stored customer; ClearCustomer turns the sale back into a walk-in sale.
type SaleInput struct {
	ProductID     string          `json:"productId"`
	Date          Date            `json:"date"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	CustomerID    string          `json:"customerId,omitempty"`
	ClearCustomer bool            `json:"clearCustomer,omitempty"`
}

type CustomerInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// =============================================================================
// SNAPSHOT - read-only view of the store
// =============================================================================

// Snapshot is a deep copy of the five collections, safe to read without
// holding any lock.
type Snapshot struct {
	Products    []Product
	Purchases   []Purchase
	Sales       []Sale
	Adjustments []Adjustment
	Customers   []Customer
}

// Product looks up a product by SKU.
func (s Snapshot) Product(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s Snapshot) Customer(id string) (Customer, bool) {
	for _, c := range s.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}
