// Package rates looks up exchange rates and security quotes from
// external services behind a narrow Resolver interface.
package rates

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Resolver answers a single synchronous question: what is the current
// rate or price for a symbol. Implementations must be safe for
// concurrent use.
type Resolver interface {
	Resolve(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// LookupError indicates the external service could not supply a value
// for a symbol. Callers decide fallback policy; no default is
// substituted.
type LookupError struct {
	Symbol string
	Err    error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup failed for %q: %v", e.Symbol, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Cached memoizes successful lookups for the lifetime of one resolver
// instance. Aggregations create a fresh Cached per invocation, so no
// value ever outlives the call that fetched it.
type Cached struct {
	resolver Resolver

	mu    sync.Mutex
	known map[string]decimal.Decimal
}

func NewCached(resolver Resolver) *Cached {
	return &Cached{
		resolver: resolver,
		known:    make(map[string]decimal.Decimal),
	}
}

func (c *Cached) Resolve(ctx context.Context, symbol string) (decimal.Decimal, error) {
	c.mu.Lock()
	if value, ok := c.known[symbol]; ok {
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	value, err := c.resolver.Resolve(ctx, symbol)
	if err != nil {
		return decimal.Decimal{}, err
	}

	c.mu.Lock()
	c.known[symbol] = value
	c.mu.Unlock()
	return value, nil
}

var _ Resolver = (*Cached)(nil)

// Unavailable is a resolver for a provider that was never configured.
// Every lookup fails with a LookupError, so report sections degrade to
// omission instead of aborting.
type Unavailable struct {
	Reason string
}

func (u *Unavailable) Resolve(_ context.Context, symbol string) (decimal.Decimal, error) {
	return decimal.Decimal{}, &LookupError{Symbol: symbol, Err: fmt.Errorf("provider unavailable: %s", u.Reason)}
}

var _ Resolver = (*Unavailable)(nil)

// ValidSymbol checks if a string looks like a currency code or ticker:
// 1 to 5 upper-case ASCII letters.
func ValidSymbol(symbol string) bool {
	if len(symbol) == 0 || len(symbol) > 5 {
		return false
	}
	for _, c := range symbol {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// ValidCurrencyCode checks if a string is a plausible ISO 4217 currency
// code: exactly 3 upper-case ASCII letters.
func ValidCurrencyCode(code string) bool {
	return len(code) == 3 && ValidSymbol(code)
}
