package views

import (
	"github.com/shopspring/decimal"
	"github.com/warp/perfume-ledger/ledger"
)

// LowStockThreshold is the highest stock level still reported as low.
const LowStockThreshold = 3

// LowStock returns products that are running out but not yet sold out.
func LowStock(products []ledger.Product) []ledger.Product {
	out := []ledger.Product{}
	for _, p := range products {
		if p.Stock > 0 && p.Stock <= LowStockThreshold {
			out = append(out, p)
		}
	}
	return out
}

// StockValue is sellable stock valued at current cost price.
func StockValue(products []ledger.Product) ledger.Money {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.CostPrice.Mul(ledger.Amount(int64(p.Stock))))
	}
	return total
}
