package model

import "github.com/shopspring/decimal"

// BudgetStats summarizes one month of bills against the monthly budget.
type BudgetStats struct {
	Month       string
	Budget      decimal.Decimal
	Funds       decimal.Decimal
	Outstanding decimal.Decimal // remaining balance of open bills due in Month
	Prioritized decimal.Decimal // remaining balance of prioritized bills
	Paid        decimal.Decimal // amount paid off on bills due in Month
	OpenBills   int
	PaidBills   int
}

// Headroom is the budget left after the prioritized bills.
func (s BudgetStats) Headroom() decimal.Decimal {
	return s.Budget.Sub(s.Prioritized)
}
