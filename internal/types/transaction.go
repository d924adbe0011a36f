package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// State represents the processing state a transaction arrived with.
// Unknown states are passed through verbatim rather than rejected.
type State string

const (
	StateExecuted State = "EXECUTED"
	StateCanceled State = "CANCELED"
)

// Transaction is the canonical record every source format normalizes into.
// Records are immutable after normalization; aggregators only read them.
type Transaction struct {
	ID          string
	State       State
	Date        time.Time
	Amount      decimal.Decimal // signed: debits negative, credits positive
	Currency    string          // 3-letter ISO code, always present
	Description string
	Category    string
	From        string // source card/account, may be empty for income
	To          string
}

// IsDebit reports whether the transaction is an expense.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}
