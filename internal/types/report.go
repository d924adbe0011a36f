package types

import "github.com/shopspring/decimal"

func init() {
	// Report shapes serialize amounts as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// CardSummary aggregates month-to-date spend for a single card.
type CardSummary struct {
	LastDigits string          `json:"last_digits"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Cashback   decimal.Decimal `json:"cashback"`
}

// TopTransaction is a read-only projection of a transaction selected by magnitude.
type TopTransaction struct {
	Date        string          `json:"date"` // DD.MM.YYYY
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// CurrencyRate is an exchange rate snapshot for one currency code.
type CurrencyRate struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
}

// StockQuote is a price snapshot for one ticker symbol.
type StockQuote struct {
	Stock string          `json:"stock"`
	Price decimal.Decimal `json:"price"`
}

// Dashboard is the main-page report for a given date.
type Dashboard struct {
	Greeting        string           `json:"greeting"`
	Cards           []CardSummary    `json:"cards"`
	TopTransactions []TopTransaction `json:"top_transactions"`
	CurrencyRates   []CurrencyRate   `json:"currency_rates"`
	StockPrices     []StockQuote     `json:"stock_prices"`
}

// RoundUpResult is the hypothetical savings total for one month.
type RoundUpResult struct {
	Month            string          `json:"month"` // YYYY-MM
	InvestmentAmount decimal.Decimal `json:"investment_amount"`
}

// CategoryRow is one exportable row of a category spending report.
type CategoryRow struct {
	Date        string          `json:"date"` // DD.MM.YYYY
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}
