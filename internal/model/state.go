package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the full persisted and exchanged shape of a ledger.
type State struct {
	Version                   int             `json:"version"`
	Bills                     []Bill          `json:"bills"`
	Reminders                 []Reminder      `json:"reminders"`
	Points                    int             `json:"points"`
	MonthlyBudget             decimal.Decimal `json:"monthlyBudget"`
	Funds                     decimal.Decimal `json:"funds"`
	OTPMonth                  *string         `json:"otpMonth"`
	UseWeightedPrioritization bool            `json:"useWeightedPrioritization"`
	LastSaved                 time.Time       `json:"lastSaved,omitzero"`
	ExportedAt                time.Time       `json:"exportedAt,omitzero"`
}

// SchemaVersion is the current version of the persisted State shape.
const SchemaVersion = 3
