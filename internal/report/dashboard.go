package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lox/bank-transaction-reports/internal/mask"
	"github.com/lox/bank-transaction-reports/internal/money"
	"github.com/lox/bank-transaction-reports/internal/rates"
	"github.com/lox/bank-transaction-reports/internal/types"
)

const (
	topTransactionCount = 5
	cashbackDivisor     = 100 // 1% of total spend
	displayDateFormat   = "02.01.2006"
)

// Dashboard builds the main-page report for asOf: per-card spend and
// cashback over the month to date, the top transactions by magnitude,
// and rate/price snapshots for the requested symbols.
//
// Rate lookups are memoized for the duration of this call only; every
// invocation starts with a cold cache. A failed lookup in the
// currency/stock sections omits that symbol and logs the omission; a
// failed lookup while summing card spend fails the dashboard, because
// a partial total would be wrong rather than incomplete.
func (a *Aggregator) Dashboard(ctx context.Context, transactions []types.Transaction, asOf time.Time, currencies, stocks []string) (*types.Dashboard, error) {
	startTime := time.Now()
	filtered := monthToDate(transactions, asOf)
	a.logger.Info("Building dashboard",
		"as_of", asOf.Format(displayDateFormat),
		"total_transactions", len(transactions),
		"in_window", len(filtered))

	// One cold cache per invocation, shared between card spend
	// conversion and the currency section.
	cachedCurrencies := rates.NewCached(a.currencies)
	converter := money.NewConverter(a.base, cachedCurrencies, a.logger)
	cards, err := a.cardSummaries(ctx, filtered, converter)
	if err != nil {
		return nil, fmt.Errorf("error building card summaries: %w", err)
	}

	dashboard := &types.Dashboard{
		Greeting:        greeting(asOf),
		Cards:           cards,
		TopTransactions: topTransactions(filtered),
		CurrencyRates:   a.currencySection(ctx, cachedCurrencies, currencies),
		StockPrices:     a.stockSection(ctx, stocks),
	}

	a.logger.Info("Dashboard built",
		"cards", len(dashboard.Cards),
		"top_transactions", len(dashboard.TopTransactions),
		"duration", time.Since(startTime))
	return dashboard, nil
}

// monthToDate keeps transactions dated within [start of month, asOf],
// inclusive on both ends, preserving source order.
func monthToDate(transactions []types.Transaction, asOf time.Time) []types.Transaction {
	start := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	filtered := make([]types.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !t.Date.Before(start) && !t.Date.After(asOf) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func greeting(asOf time.Time) string {
	switch hour := asOf.Hour(); {
	case hour >= 5 && hour < 12:
		return "Доброе утро!"
	case hour >= 12 && hour < 18:
		return "Добрый день!"
	case hour >= 18 && hour < 22:
		return "Добрый вечер!"
	default:
		return "Доброй ночи!"
	}
}

// cardSummaries groups debit transactions by the last-4 segment of the
// source card/account and sums absolute base-currency amounts. Cards
// appear in order of first appearance; totals keep full precision until
// the final rounding.
func (a *Aggregator) cardSummaries(ctx context.Context, transactions []types.Transaction, converter *money.Converter) ([]types.CardSummary, error) {
	totals := make(map[string]decimal.Decimal)
	var order []string

	for _, t := range transactions {
		if !t.IsDebit() {
			continue
		}
		key := mask.LastDigits(t.From, 4)
		if key == "" {
			continue
		}

		amount, err := converter.Resolve(ctx, t)
		if err != nil {
			return nil, err
		}

		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] = totals[key].Add(amount.Abs())
	}

	cards := make([]types.CardSummary, 0, len(order))
	for _, key := range order {
		total := totals[key]
		cards = append(cards, types.CardSummary{
			LastDigits: key,
			TotalSpent: total.Round(2),
			Cashback:   total.Div(decimal.NewFromInt(cashbackDivisor)).Round(2),
		})
	}
	return cards, nil
}

// topTransactions selects the largest transactions by absolute amount.
// Equal magnitudes keep their original relative order.
func topTransactions(transactions []types.Transaction) []types.TopTransaction {
	sorted := make([]types.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.Abs().GreaterThan(sorted[j].Amount.Abs())
	})

	if len(sorted) > topTransactionCount {
		sorted = sorted[:topTransactionCount]
	}

	top := make([]types.TopTransaction, 0, len(sorted))
	for _, t := range sorted {
		top = append(top, types.TopTransaction{
			Date:        t.Date.Format(displayDateFormat),
			Amount:      t.Amount.Round(2),
			Category:    t.Category,
			Description: t.Description,
		})
	}
	return top
}

// currencySection resolves each requested currency, omitting symbols
// whose lookup failed. Partial results beat a failed dashboard here.
func (a *Aggregator) currencySection(ctx context.Context, resolver rates.Resolver, currencies []string) []types.CurrencyRate {
	section := make([]types.CurrencyRate, 0, len(currencies))
	for _, currency := range currencies {
		rate, err := resolver.Resolve(ctx, currency)
		if err != nil {
			a.logger.Warn("Omitting currency from dashboard", "currency", currency, "error", err)
			continue
		}
		section = append(section, types.CurrencyRate{Currency: currency, Rate: rate.Round(2)})
	}
	return section
}

func (a *Aggregator) stockSection(ctx context.Context, stocks []string) []types.StockQuote {
	cached := rates.NewCached(a.stocks)
	section := make([]types.StockQuote, 0, len(stocks))
	for _, stock := range stocks {
		price, err := cached.Resolve(ctx, stock)
		if err != nil {
			a.logger.Warn("Omitting stock from dashboard", "stock", stock, "error", err)
			continue
		}
		section = append(section, types.StockQuote{Stock: stock, Price: price.Round(2)})
	}
	return section
}
