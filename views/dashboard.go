package views

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/perfume-ledger/ledger"
)

// TopProductsLimit caps Dashboard.TopProducts.
const TopProductsLimit = 10

type ProductRevenue struct {
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	Revenue   ledger.Money `json:"revenue"`
}

type DailyRevenue struct {
	Date    ledger.Date  `json:"date"`
	Revenue ledger.Money `json:"revenue"`
}

// Dashboard summarises the whole ledger, not a period.
type Dashboard struct {
	StockValue    ledger.Money     `json:"stockValue"`
	TotalRevenue  ledger.Money     `json:"totalRevenue"`
	TotalProfit   ledger.Money     `json:"totalProfit"`
	LowStock      []ledger.Product `json:"lowStock"`
	TopProducts   []ProductRevenue `json:"topProducts"`
	SalesOverTime []DailyRevenue   `json:"salesOverTime"`
}

// BuildDashboard computes the headline figures. Profit counts only sales
// whose product still resolves, at (unit price - current cost) per unit.
func BuildDashboard(snap ledger.Snapshot) Dashboard {
	d := Dashboard{
		StockValue:   StockValue(snap.Products),
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
		LowStock:     LowStock(snap.Products),
	}

	byProduct := map[string]int{}
	byDay := map[string]int{}
	for _, s := range snap.Sales {
		d.TotalRevenue = d.TotalRevenue.Add(s.Total)
		if p, ok := snap.Product(s.ProductID); ok {
			margin := s.UnitPrice.Sub(p.CostPrice)
			d.TotalProfit = d.TotalProfit.Add(margin.Mul(ledger.Amount(int64(s.Quantity))))
		}

		if i, ok := byProduct[s.ProductID]; ok {
			d.TopProducts[i].Revenue = d.TopProducts[i].Revenue.Add(s.Total)
		} else {
			byProduct[s.ProductID] = len(d.TopProducts)
			d.TopProducts = append(d.TopProducts, ProductRevenue{
				ProductID: s.ProductID,
				Name:      ProductName(snap, s.ProductID),
				Revenue:   s.Total,
			})
		}

		if i, ok := byDay[s.Date.String()]; ok {
			d.SalesOverTime[i].Revenue = d.SalesOverTime[i].Revenue.Add(s.Total)
		} else {
			byDay[s.Date.String()] = len(d.SalesOverTime)
			d.SalesOverTime = append(d.SalesOverTime, DailyRevenue{Date: s.Date, Revenue: s.Total})
		}
	}

	sort.SliceStable(d.TopProducts, func(i, j int) bool {
		return d.TopProducts[i].Revenue.GreaterThan(d.TopProducts[j].Revenue)
	})
	if len(d.TopProducts) > TopProductsLimit {
		d.TopProducts = d.TopProducts[:TopProductsLimit]
	}
	sort.SliceStable(d.SalesOverTime, func(i, j int) bool {
		return d.SalesOverTime[i].Date.Before(d.SalesOverTime[j].Date)
	})
	if d.TopProducts == nil {
		d.TopProducts = []ProductRevenue{}
	}
	if d.SalesOverTime == nil {
		d.SalesOverTime = []DailyRevenue{}
	}
	return d
}
