package views

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/perfume-ledger/ledger"
)

// =============================================================================
// CASH FLOW - Income and expenses with a running balance
// =============================================================================

type FlowType string

const (
	FlowIncome  FlowType = "income"
	FlowExpense FlowType = "expense"
)

type CashEntry struct {
	Date        ledger.Date  `json:"date"`
	Type        FlowType     `json:"type"`
	Description string       `json:"description"`
	Amount      ledger.Money `json:"amount"`
	Balance     ledger.Money `json:"balance"`
}

// DailyBalance is the running balance at the end of a day.
type DailyBalance struct {
	Date    ledger.Date  `json:"date"`
	Balance ledger.Money `json:"balance"`
}

type CashFlowStatement struct {
	Period        ledger.Period  `json:"-"`
	Entries       []CashEntry    `json:"entries"`
	Daily         []DailyBalance `json:"daily"`
	TotalIncome   ledger.Money   `json:"totalIncome"`
	TotalExpenses ledger.Money   `json:"totalExpenses"`
	Net           ledger.Money   `json:"net"`
}

// CashFlow merges sale income, purchase cost and tester conversion cost in
// the period into one ascending list. The balance starts at zero at the
// beginning of the period.
func CashFlow(snap ledger.Snapshot, period ledger.Period) CashFlowStatement {
	var entries []CashEntry
	income := decimal.Zero
	expenses := decimal.Zero

	for _, s := range snap.Sales {
		if !period.Contains(s.Date) {
			continue
		}
		entries = append(entries, CashEntry{
			Date:        s.Date,
			Type:        FlowIncome,
			Description: "Sale - " + ProductName(snap, s.ProductID),
			Amount:      s.Total,
		})
		income = income.Add(s.Total)
	}
	for _, p := range snap.Purchases {
		if !period.Contains(p.Date) {
			continue
		}
		entries = append(entries, CashEntry{
			Date:        p.Date,
			Type:        FlowExpense,
			Description: "Purchase - " + ProductName(snap, p.ProductID),
			Amount:      p.Cost(),
		})
		expenses = expenses.Add(p.Cost())
	}
	for _, a := range snap.Adjustments {
		if a.Type != ledger.AdjTesterConversion || !period.Contains(a.Date) {
			continue
		}
		entries = append(entries, CashEntry{
			Date:        a.Date,
			Type:        FlowExpense,
			Description: "Tester investment - " + ProductName(snap, a.ProductID),
			Amount:      a.Cost,
		})
		expenses = expenses.Add(a.Cost)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	balance := decimal.Zero
	var daily []DailyBalance
	for i := range entries {
		if entries[i].Type == FlowIncome {
			balance = balance.Add(entries[i].Amount)
		} else {
			balance = balance.Sub(entries[i].Amount)
		}
		entries[i].Balance = balance

		if n := len(daily); n > 0 && daily[n-1].Date.Equal(entries[i].Date) {
			daily[n-1].Balance = balance
		} else {
			daily = append(daily, DailyBalance{Date: entries[i].Date, Balance: balance})
		}
	}

	return CashFlowStatement{
		Period:        period,
		Entries:       entries,
		Daily:         daily,
		TotalIncome:   income,
		TotalExpenses: expenses,
		Net:           income.Sub(expenses),
	}
}
