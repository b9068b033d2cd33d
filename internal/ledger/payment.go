package ledger

import (
	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/shopspring/decimal"
)

// ProcessPartialPayment pays amount towards a bill from the funds balance.
// Preconditions are checked in order and nothing changes when one fails:
// the bill exists, is not canceled, amount is positive, amount does not
// exceed the remaining balance, and amount does not exceed the funds.
//
// A payment that clears the balance settles the bill and, for auto-generating
// monthly bills, creates next month's occurrence.
func (l *Ledger) ProcessPartialPayment(id string, amount decimal.Decimal) (model.Bill, error) {
	i := l.index(id)
	if i < 0 {
		return model.Bill{}, ErrNotFound
	}
	b := &l.bills[i]
	switch {
	case b.Status == model.StatusCanceled:
		return *b, ErrCanceled
	case !amount.IsPositive():
		return *b, ErrInvalidAmount
	case amount.GreaterThan(b.AmountRemaining):
		return *b, ErrExceedsRemaining
	case amount.GreaterThan(l.funds):
		return *b, ErrInsufficientFunds
	}

	l.funds = l.funds.Sub(amount)
	b.AmountRemaining = b.AmountRemaining.Sub(amount)
	b.UpdatedAt = l.now().UTC()

	if b.AmountRemaining.IsZero() {
		return l.settle(i), nil
	}

	b.Status = model.StatusPartial
	updated := *b
	l.persist()
	l.notify(LevelInfo, "Paid %s towards %s, %s left", amount.StringFixed(2), updated.Name, updated.AmountRemaining.StringFixed(2))
	return updated, nil
}

// PayInFull pays a bill's whole remaining balance from the funds balance.
func (l *Ledger) PayInFull(id string) (model.Bill, error) {
	i := l.index(id)
	if i < 0 {
		return model.Bill{}, ErrNotFound
	}
	b := &l.bills[i]
	switch {
	case b.Status == model.StatusCanceled:
		return *b, ErrCanceled
	case b.Status == model.StatusPaid:
		return *b, ErrAlreadyPaid
	case b.AmountRemaining.GreaterThan(l.funds):
		return *b, ErrInsufficientFunds
	}

	l.funds = l.funds.Sub(b.AmountRemaining)
	b.AmountRemaining = decimal.Zero
	b.UpdatedAt = l.now().UTC()
	return l.settle(i), nil
}

// settle marks bill i paid, persists, and spawns the next occurrence when the
// rule asks for it.
func (l *Ledger) settle(i int) model.Bill {
	b := &l.bills[i]
	b.Scheduled = true
	b.Status = model.StatusPaid
	b.Prioritized = false
	paid := *b

	if paid.RecurringRule.Recurs() && paid.RecurringRule.AutoGenerate {
		l.generateNext(paid)
	}
	l.persist()
	l.notify(LevelSuccess, "Paid %s in full", paid.Name)
	return paid
}
