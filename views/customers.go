package views

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/perfume-ledger/ledger"
)

type CustomerHistory struct {
	Customer      ledger.Customer `json:"customer"`
	Sales         []SaleLine      `json:"sales"`
	TotalSpent    ledger.Money    `json:"totalSpent"`
	PurchaseCount int             `json:"purchaseCount"`
}

// History lists a customer's sales newest first.
func History(snap ledger.Snapshot, customerID string) (CustomerHistory, error) {
	c, ok := snap.Customer(customerID)
	if !ok {
		return CustomerHistory{}, &ledger.NotFoundError{Kind: "customer", ID: customerID}
	}
	h := CustomerHistory{Customer: c, Sales: []SaleLine{}, TotalSpent: decimal.Zero}
	for _, s := range snap.Sales {
		if s.CustomerID != customerID {
			continue
		}
		h.Sales = append(h.Sales, saleLine(snap, s))
		h.TotalSpent = h.TotalSpent.Add(s.Total)
	}
	sort.SliceStable(h.Sales, func(i, j int) bool { return h.Sales[i].Date.After(h.Sales[j].Date) })
	h.PurchaseCount = len(h.Sales)
	return h, nil
}
