package ledger

import "errors"

// Precondition failures. Operations check these before mutating anything.
var (
	ErrNotFound          = errors.New("bill not found")
	ErrCanceled          = errors.New("bill is canceled")
	ErrAlreadyPaid       = errors.New("bill is already paid")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrExceedsRemaining  = errors.New("amount exceeds remaining balance")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// DeleteResult tells callers which way a delete request went.
type DeleteResult int

const (
	DeleteNotFound DeleteResult = iota
	DeleteDeclined
	Deleted
)

func (r DeleteResult) String() string {
	switch r {
	case DeleteDeclined:
		return "declined"
	case Deleted:
		return "deleted"
	default:
		return "not found"
	}
}

// CancelResult tells callers which way a cancel request went.
type CancelResult int

const (
	CancelNotFound CancelResult = iota
	CancelDeclined
	CancelRefused // the bill is already paid off
	Canceled
)

func (r CancelResult) String() string {
	switch r {
	case CancelDeclined:
		return "declined"
	case CancelRefused:
		return "refused"
	case Canceled:
		return "canceled"
	default:
		return "not found"
	}
}
