// Package model defines the bill, reminder and persisted state types.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a bill.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusPartial   Status = "partial"
	StatusPaid      Status = "paid"
	StatusCanceled  Status = "canceled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusPartial, StatusPaid, StatusCanceled:
		return true
	}
	return false
}

// Closed reports whether no further payments are expected for the status.
func (s Status) Closed() bool {
	return s == StatusPaid || s == StatusCanceled
}

// Interval is how often a recurring bill repeats.
type Interval string

const (
	IntervalNone    Interval = "none"
	IntervalMonthly Interval = "monthly"
)

// RecurringRule controls next-period generation for a bill.
type RecurringRule struct {
	Interval     Interval `json:"interval"`
	AutoGenerate bool     `json:"autoGenerate"`
}

// NoRecurrence is the rule for one-off bills.
var NoRecurrence = RecurringRule{Interval: IntervalNone}

// Monthly is the rule for bills that regenerate when paid off.
var Monthly = RecurringRule{Interval: IntervalMonthly, AutoGenerate: true}

// Recurs reports whether the rule ever produces a successor.
func (r RecurringRule) Recurs() bool {
	return r.Interval == IntervalMonthly
}

// Bill is a tracked payable obligation.
type Bill struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	AmountRemaining decimal.Decimal `json:"amountRemaining"`
	Due             Date            `json:"due"`
	Scheduled       bool            `json:"scheduled"`
	Prioritized     bool            `json:"prioritized"`
	Category        string          `json:"category"`
	RecurringRule   RecurringRule   `json:"recurringRule"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Paid returns how much of the original amount has been paid off.
func (b Bill) Paid() decimal.Decimal {
	return b.Amount.Sub(b.AmountRemaining)
}

// DeriveStatus computes a bill's status from its balance and scheduling flag.
// Cancellation overrides every other derivation.
func DeriveStatus(amount, remaining decimal.Decimal, scheduled, canceled bool) Status {
	switch {
	case canceled:
		return StatusCanceled
	case remaining.IsZero() && amount.IsPositive():
		return StatusPaid
	case remaining.LessThan(amount):
		return StatusPartial
	case scheduled:
		return StatusScheduled
	default:
		return StatusPending
	}
}

// RefreshStatus re-derives Status from the bill's current fields. A paid
// bill with nothing remaining stays paid, which covers zero-amount bills.
func (b *Bill) RefreshStatus() {
	if b.Status == StatusPaid && b.AmountRemaining.IsZero() {
		return
	}
	b.Status = DeriveStatus(b.Amount, b.AmountRemaining, b.Scheduled, b.Status == StatusCanceled)
}

// Normalize repairs a bill that came from storage or an import so that
// 0 <= AmountRemaining <= Amount holds and Status agrees with the balance.
// An unknown interval is treated as none.
func (b *Bill) Normalize() {
	if b.Amount.IsNegative() {
		b.Amount = decimal.Zero
	}
	switch {
	case b.AmountRemaining.IsNegative():
		b.AmountRemaining = decimal.Zero
	case b.AmountRemaining.GreaterThan(b.Amount):
		b.AmountRemaining = b.Amount
	}
	if b.RecurringRule.Interval != IntervalMonthly {
		b.RecurringRule.Interval = IntervalNone
	}
	b.RefreshStatus()
}

// Reminder is the notification record paired one-to-one with a bill.
type Reminder struct {
	BillID string `json:"billId"`
	When   Date   `json:"when"`
	Note   string `json:"note"`
}
