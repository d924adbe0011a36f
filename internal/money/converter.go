// Package money resolves transaction amounts into a base currency.
package money

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/lox/bank-transaction-reports/internal/rates"
	"github.com/lox/bank-transaction-reports/internal/types"
)

// Converter turns a transaction's stated amount into the base currency.
// Conversions keep full decimal precision; rounding happens only when a
// value is presented, never while aggregating.
type Converter struct {
	base     string
	resolver rates.Resolver
	logger   *log.Logger
}

func NewConverter(base string, resolver rates.Resolver, logger *log.Logger) *Converter {
	return &Converter{
		base:     base,
		resolver: resolver,
		logger:   logger,
	}
}

// Resolve returns the transaction's signed amount expressed in the base
// currency, consulting the rate resolver when the currencies differ. A
// failed lookup surfaces as a rates.LookupError; no default is assumed.
func (c *Converter) Resolve(ctx context.Context, t types.Transaction) (decimal.Decimal, error) {
	if t.Currency == c.base {
		return t.Amount, nil
	}

	rate, err := c.resolver.Resolve(ctx, t.Currency)
	if err != nil {
		return decimal.Decimal{}, err
	}

	converted := t.Amount.Mul(rate)
	c.logger.Debug("Converted amount",
		"id", t.ID,
		"currency", t.Currency,
		"amount", t.Amount,
		"rate", rate,
		"converted", converted)
	return converted, nil
}
