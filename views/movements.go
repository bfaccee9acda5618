package views

import (
	"sort"

	"github.com/warp/perfume-ledger/ledger"
)

// =============================================================================
// MOVEMENT HISTORY - Per-product timeline with stock after each movement
// =============================================================================

type MovementKind string

const (
	MovementPurchase         MovementKind = "purchase"
	MovementSale             MovementKind = "sale"
	MovementTesterConversion MovementKind = "tester_conversion"
	MovementTesterConsumed   MovementKind = "tester_consumed"
)

// Movement is one change to a product's sellable stock. Quantity is signed:
// purchases are positive, sales and tester conversions negative, consumed
// testers zero.
type Movement struct {
	ID         string       `json:"id"`
	Date       ledger.Date  `json:"date"`
	Kind       MovementKind `json:"kind"`
	Quantity   int          `json:"quantity"`
	Details    string       `json:"details"`
	StockAfter int          `json:"stockAfter"`
}

// Movements returns the product's purchases, sales and adjustments newest
// first. StockAfter is reconstructed backwards from the current stock, so
// the first row always shows today's level. Rows on the same date keep the
// order purchases, sales, adjustments.
func Movements(snap ledger.Snapshot, productID string) ([]Movement, error) {
	product, ok := snap.Product(productID)
	if !ok {
		return nil, &ledger.NotFoundError{Kind: "product", ID: productID}
	}

	var out []Movement
	for _, p := range snap.Purchases {
		if p.ProductID != productID {
			continue
		}
		out = append(out, Movement{
			ID:       p.ID,
			Date:     p.Date,
			Kind:     MovementPurchase,
			Quantity: p.Quantity,
			Details:  "from " + p.Supplier,
		})
	}
	for _, s := range snap.Sales {
		if s.ProductID != productID {
			continue
		}
		out = append(out, Movement{
			ID:       s.ID,
			Date:     s.Date,
			Kind:     MovementSale,
			Quantity: -s.Quantity,
			Details:  "total " + s.Total.StringFixed(0),
		})
	}
	for _, a := range snap.Adjustments {
		if a.ProductID != productID {
			continue
		}
		switch a.Type {
		case ledger.AdjTesterConversion:
			out = append(out, Movement{
				ID:       a.ID,
				Date:     a.Date,
				Kind:     MovementTesterConversion,
				Quantity: -a.Quantity,
				Details:  "cost " + a.Cost.StringFixed(0),
			})
		case ledger.AdjTesterConsumed:
			out = append(out, Movement{
				ID:      a.ID,
				Date:    a.Date,
				Kind:    MovementTesterConsumed,
				Details: "tester finished",
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })

	running := product.Stock
	for i := range out {
		out[i].StockAfter = running
		running -= out[i].Quantity
	}
	return out, nil
}
