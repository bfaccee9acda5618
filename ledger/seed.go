package ledger

import (
	"fmt"
	"time"
)

// DefaultSeed returns the opening catalog: nine products with the purchases
// that explain their stock. Sales, adjustments and customers start empty.
func DefaultSeed() Snapshot {
	type line struct {
		sku    string
		name   string
		brand  string
		gender Gender
		stock  int
		cost   int64
		price  int64
	}
	catalog := []line{
		{"10001", "ECLAIRE EDP 100 ML", "Lattafa", GenderFemale, 2, 24990, 40000},
		{"10002", "NOW WOMEN EDP 100ML", "Rave", GenderFemale, 2, 19990, 35000},
		{"10003", "BIG PONY 2 PINK EDT 100ml", "Ralph Lauren", GenderFemale, 1, 29990, 45000},
		{"10004", "PRIDE WINNERS TROPHY SILVER EDP 100 ML", "Lattafa", GenderMale, 2, 27990, 45000},
		{"10005", "CHAMPION G.O.A.T EDP 80ML", "Fragrance World", GenderMale, 3, 19990, 35000},
		{"10006", "JORGE DI PROFUMO AQUA EDP 100ML", "Maison Alhambra", GenderMale, 1, 15990, 30000},
		{"10007", "LIAM BLUE SHINE EDP 100ML", "Lattafa", GenderMale, 1, 23990, 40000},
		{"10008", "TOMMY GIRL EDT 100ML", "Tommy Hilfiger", GenderFemale, 1, 24990, 42000},
		{"10009", "MAYAR NATURAL INTENSE EDP 100ML", "Lattafa", GenderFemale, 1, 26990, 45000},
	}

	opened := NewDate(2025, time.September, 11)
	seed := Snapshot{
		Products:    make([]Product, 0, len(catalog)),
		Purchases:   make([]Purchase, 0, len(catalog)),
		Sales:       []Sale{},
		Adjustments: []Adjustment{},
		Customers:   []Customer{},
	}
	for i, l := range catalog {
		seed.Products = append(seed.Products, Product{
			ID:        l.sku,
			Name:      l.name,
			Brand:     l.brand,
			Gender:    l.gender,
			Stock:     l.stock,
			CostPrice: Amount(l.cost),
			SalePrice: Amount(l.price),
		})
		seed.Purchases = append(seed.Purchases, Purchase{
			ID:             fmt.Sprintf("p_init_%d", i+1),
			ProductID:      l.sku,
			Date:           opened,
			Quantity:       l.stock,
			UnitCost:       Amount(l.cost),
			Supplier:       "PROVEEDOR INICIAL",
			DocumentType:   DocFactura,
			DocumentNumber: "F-001",
		})
	}
	return seed
}

// EmptySeed starts every collection empty.
func EmptySeed() Snapshot {
	return Snapshot{
		Products:    []Product{},
		Purchases:   []Purchase{},
		Sales:       []Sale{},
		Adjustments: []Adjustment{},
		Customers:   []Customer{},
	}
}
