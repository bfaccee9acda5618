/*
Package views computes read-only projections of the ledger.

PURPOSE:
  Everything the shop looks at besides the raw records: per-product
  movement history, cash flow with a running balance, sales/inventory/profit
  reports, low-stock detection, the dashboard and per-customer history.

INPUT:
  Every function takes a ledger.Snapshot. Nothing here holds a lock or
  mutates state, so views can be computed concurrently with ledger writes.

WEAK REFERENCES:
  Records may point at products or customers that were deleted. Those
  resolve to fixed placeholder names instead of failing.
*/
package views

import (
	"sort"

	"github.com/warp/perfume-ledger/ledger"
)

// Placeholder names for references that do not resolve.
const (
	UnknownProduct  = "Unknown product"
	GeneralCustomer = "General customer"
	UnknownCustomer = "Unknown customer"
)

// ProductName resolves a product id to its name.
func ProductName(snap ledger.Snapshot, productID string) string {
	if p, ok := snap.Product(productID); ok {
		return p.Name
	}
	return UnknownProduct
}

// CustomerName resolves a sale's customer. An empty id is a walk-in sale.
func CustomerName(snap ledger.Snapshot, customerID string) string {
	if customerID == "" {
		return GeneralCustomer
	}
	if c, ok := snap.Customer(customerID); ok {
		return c.Name
	}
	return UnknownCustomer
}

// SaleLine is a sale with its references resolved for display.
type SaleLine struct {
	ledger.Sale
	ProductName  string `json:"productName"`
	CustomerName string `json:"customerName"`
}

func saleLine(snap ledger.Snapshot, s ledger.Sale) SaleLine {
	return SaleLine{
		Sale:         s,
		ProductName:  ProductName(snap, s.ProductID),
		CustomerName: CustomerName(snap, s.CustomerID),
	}
}

// SaleLines resolves every sale in snap, newest first.
func SaleLines(snap ledger.Snapshot) []SaleLine {
	lines := make([]SaleLine, 0, len(snap.Sales))
	for i := len(snap.Sales) - 1; i >= 0; i-- {
		lines = append(lines, saleLine(snap, snap.Sales[i]))
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Date.After(lines[j].Date)
	})
	return lines
}
