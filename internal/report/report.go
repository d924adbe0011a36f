// Package report builds the three analytical reports over a batch of
// canonical transactions: the dashboard, the round-up savings estimate
// and the category spending report.
//
// The aggregators share no mutable state; each call takes an immutable
// transaction slice and returns a fresh result, so the three reports
// may run concurrently over the same batch.
package report

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/bank-transaction-reports/internal/rates"
)

// ValidationError reports a report parameter that violates its
// constraints. It is always surfaced, never silently corrected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Aggregator builds reports with explicit dependencies. The currency
// and stock resolvers are the only collaborators that leave the
// process.
type Aggregator struct {
	logger     *log.Logger
	currencies rates.Resolver
	stocks     rates.Resolver
	base       string
}

// New creates an aggregator expressing monetary outputs in the base
// currency.
func New(logger *log.Logger, currencies rates.Resolver, stocks rates.Resolver, base string) *Aggregator {
	return &Aggregator{
		logger:     logger,
		currencies: currencies,
		stocks:     stocks,
		base:       base,
	}
}
