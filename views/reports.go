package views

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/perfume-ledger/ledger"
)

// =============================================================================
// REPORTS - Fixed-shape variants selected by ReportKind
// =============================================================================

type ReportKind string

const (
	ReportSales     ReportKind = "sales"
	ReportInventory ReportKind = "inventory"
	ReportProfit    ReportKind = "profit"
)

// ReportKinds lists every kind in display order.
var ReportKinds = []ReportKind{ReportSales, ReportInventory, ReportProfit}

func ParseReportKind(s string) (ReportKind, error) {
	for _, k := range ReportKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", &ledger.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown report %q", s)}
}

// Report is implemented only by SalesReport, InventoryReport and
// ProfitReport.
type Report interface {
	Kind() ReportKind
	sealed()
}

type SalesReport struct {
	Sales        []SaleLine   `json:"sales"`
	TotalRevenue ledger.Money `json:"totalRevenue"`
	ItemsSold    int          `json:"itemsSold"`
}

type InventoryLine struct {
	ledger.Product
	StockValue ledger.Money `json:"stockValue"`
}

// InventoryReport ignores the period: it is always the current catalog.
type InventoryReport struct {
	Products        []InventoryLine `json:"products"`
	TotalStockValue ledger.Money    `json:"totalStockValue"`
	TotalUnits      int             `json:"totalUnits"`
	TotalTesters    int             `json:"totalTesters"`
}

// ProfitLine values a sale at the product's current cost price. A sale whose
// product was deleted has zero cost.
type ProfitLine struct {
	ledger.Sale
	ProductName string       `json:"productName"`
	Cost        ledger.Money `json:"cost"`
	Profit      ledger.Money `json:"profit"`
}

type ProfitReport struct {
	Lines            []ProfitLine `json:"lines"`
	TotalRevenue     ledger.Money `json:"totalRevenue"`
	TotalCostOfGoods ledger.Money `json:"totalCostOfGoods"`
	TotalTesterCost  ledger.Money `json:"totalTesterCost"`
	GrossProfit      ledger.Money `json:"grossProfit"`
	NetProfit        ledger.Money `json:"netProfit"`
	// Margin is net profit as a percentage of revenue, 0 without revenue.
	Margin ledger.Money `json:"margin"`
}

func (SalesReport) Kind() ReportKind     { return ReportSales }
func (InventoryReport) Kind() ReportKind { return ReportInventory }
func (ProfitReport) Kind() ReportKind    { return ReportProfit }

func (SalesReport) sealed()     {}
func (InventoryReport) sealed() {}
func (ProfitReport) sealed()    {}

// BuildReport computes the report of the given kind over period.
func BuildReport(kind ReportKind, snap ledger.Snapshot, period ledger.Period) (Report, error) {
	switch kind {
	case ReportSales:
		return Sales(snap, period), nil
	case ReportInventory:
		return Inventory(snap), nil
	case ReportProfit:
		return Profit(snap, period), nil
	}
	return nil, &ledger.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown report %q", kind)}
}

func Sales(snap ledger.Snapshot, period ledger.Period) SalesReport {
	r := SalesReport{Sales: []SaleLine{}, TotalRevenue: decimal.Zero}
	for _, s := range snap.Sales {
		if !period.Contains(s.Date) {
			continue
		}
		r.Sales = append(r.Sales, saleLine(snap, s))
		r.TotalRevenue = r.TotalRevenue.Add(s.Total)
		r.ItemsSold += s.Quantity
	}
	return r
}

func Inventory(snap ledger.Snapshot) InventoryReport {
	r := InventoryReport{Products: make([]InventoryLine, 0, len(snap.Products))}
	for _, p := range snap.Products {
		r.Products = append(r.Products, InventoryLine{
			Product:    p,
			StockValue: p.CostPrice.Mul(ledger.Amount(int64(p.Stock))),
		})
		r.TotalUnits += p.Stock
		r.TotalTesters += p.TesterStock
	}
	r.TotalStockValue = StockValue(snap.Products)
	return r
}

// Profit nets sales in the period against their cost of goods and the
// tester conversions booked in the same period.
func Profit(snap ledger.Snapshot, period ledger.Period) ProfitReport {
	r := ProfitReport{
		Lines:            []ProfitLine{},
		TotalRevenue:     decimal.Zero,
		TotalCostOfGoods: decimal.Zero,
		TotalTesterCost:  decimal.Zero,
	}
	for _, s := range snap.Sales {
		if !period.Contains(s.Date) {
			continue
		}
		cost := decimal.Zero
		name := UnknownProduct
		if p, ok := snap.Product(s.ProductID); ok {
			cost = p.CostPrice.Mul(ledger.Amount(int64(s.Quantity)))
			name = p.Name
		}
		r.Lines = append(r.Lines, ProfitLine{
			Sale:        s,
			ProductName: name,
			Cost:        cost,
			Profit:      s.Total.Sub(cost),
		})
		r.TotalRevenue = r.TotalRevenue.Add(s.Total)
		r.TotalCostOfGoods = r.TotalCostOfGoods.Add(cost)
	}
	for _, a := range snap.Adjustments {
		if a.Type == ledger.AdjTesterConversion && period.Contains(a.Date) {
			r.TotalTesterCost = r.TotalTesterCost.Add(a.Cost)
		}
	}

	r.GrossProfit = r.TotalRevenue.Sub(r.TotalCostOfGoods)
	r.NetProfit = r.GrossProfit.Sub(r.TotalTesterCost)
	r.Margin = decimal.Zero
	if r.TotalRevenue.IsPositive() {
		r.Margin = r.NetProfit.Div(r.TotalRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return r
}
