package report

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bank-transaction-reports/internal/rates"
	"github.com/lox/bank-transaction-reports/internal/types"
)

type stubResolver struct {
	rates map[string]string
	calls map[string]int
}

func newStubResolver(values map[string]string) *stubResolver {
	return &stubResolver{rates: values, calls: make(map[string]int)}
}

func (r *stubResolver) Resolve(_ context.Context, symbol string) (decimal.Decimal, error) {
	r.calls[symbol]++
	value, ok := r.rates[symbol]
	if !ok {
		return decimal.Zero, &rates.LookupError{Symbol: symbol, Err: assert.AnError}
	}
	return decimal.RequireFromString(value), nil
}

func debit(id, date, amount, from, category, description string) types.Transaction {
	t := transaction(id, date, amount)
	t.From = from
	t.Category = category
	t.Description = description
	return t
}

func TestDashboard(t *testing.T) {
	currencies := newStubResolver(map[string]string{"USD": "92.57", "EUR": "99.12"})
	stocks := newStubResolver(map[string]string{"AAPL": "150.12", "TSLA": "1007.08"})
	aggregator := New(log.New(io.Discard), currencies, stocks, "RUB")

	asOf := time.Date(2021, 12, 20, 14, 30, 0, 0, time.UTC)
	transactions := []types.Transaction{
		debit("1", "2021-12-15 18:51:10", "-1712.00", "Visa Platinum 7000792289606361", "Супермаркеты", "Лента"),
		debit("2", "2021-12-16 10:00:00", "-300.50", "Visa Platinum 7000792289606361", "Фастфуд", "Бургерная"),
		debit("3", "2021-12-17 12:00:00", "-50.00", "Maestro 1596837868705199", "Связь", "МТС"),
		debit("4", "2021-12-18 09:00:00", "10000.00", "", "Пополнения", "Перевод с карты"),
		debit("5", "2021-11-30 23:59:59", "-9999.00", "Maestro 1596837868705199", "Разное", "Вне окна"),
	}

	dashboard, err := aggregator.Dashboard(context.Background(), transactions, asOf, []string{"USD", "EUR"}, []string{"AAPL", "TSLA"})
	require.NoError(t, err)

	assert.Equal(t, "Добрый день!", dashboard.Greeting)

	require.Len(t, dashboard.Cards, 2)
	assert.Equal(t, "6361", dashboard.Cards[0].LastDigits)
	assert.True(t, decimal.RequireFromString("2012.50").Equal(dashboard.Cards[0].TotalSpent))
	assert.True(t, decimal.RequireFromString("20.13").Equal(dashboard.Cards[0].Cashback))
	assert.Equal(t, "5199", dashboard.Cards[1].LastDigits)
	assert.True(t, decimal.RequireFromString("50").Equal(dashboard.Cards[1].TotalSpent))

	// November's large expense is outside the month-to-date window, so
	// the credit tops the list.
	require.Len(t, dashboard.TopTransactions, 4)
	assert.Equal(t, "18.12.2021", dashboard.TopTransactions[0].Date)
	assert.Equal(t, "15.12.2021", dashboard.TopTransactions[1].Date)

	require.Len(t, dashboard.CurrencyRates, 2)
	assert.Equal(t, "USD", dashboard.CurrencyRates[0].Currency)
	assert.True(t, decimal.RequireFromString("92.57").Equal(dashboard.CurrencyRates[0].Rate))

	require.Len(t, dashboard.StockPrices, 2)
	assert.Equal(t, "AAPL", dashboard.StockPrices[0].Stock)
}

func TestDashboardOmitsFailedSymbols(t *testing.T) {
	currencies := newStubResolver(map[string]string{"USD": "92.57"})
	stocks := newStubResolver(map[string]string{})
	aggregator := New(log.New(io.Discard), currencies, stocks, "RUB")

	dashboard, err := aggregator.Dashboard(context.Background(), nil, time.Now(), []string{"USD", "XXX"}, []string{"AAPL"})
	require.NoError(t, err)

	require.Len(t, dashboard.CurrencyRates, 1)
	assert.Equal(t, "USD", dashboard.CurrencyRates[0].Currency)
	assert.Empty(t, dashboard.StockPrices)
}

func TestDashboardFailsOnSpendConversionError(t *testing.T) {
	currencies := newStubResolver(map[string]string{})
	aggregator := New(log.New(io.Discard), currencies, newStubResolver(nil), "RUB")

	transactions := []types.Transaction{
		debit("1", "2021-12-15 18:51:10", "-100.00", "Visa 7000792289606361", "Разное", ""),
	}
	transactions[0].Currency = "USD"

	_, err := aggregator.Dashboard(context.Background(), transactions, time.Date(2021, 12, 20, 0, 0, 0, 0, time.UTC), nil, nil)
	var lookupErr *rates.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "USD", lookupErr.Symbol)
}

func TestDashboardSharesRateCacheWithinCall(t *testing.T) {
	currencies := newStubResolver(map[string]string{"USD": "90"})
	aggregator := New(log.New(io.Discard), currencies, newStubResolver(nil), "RUB")

	asOf := time.Date(2021, 12, 20, 0, 0, 0, 0, time.UTC)
	transactions := []types.Transaction{
		debit("1", "2021-12-15 18:51:10", "-10.00", "Visa 7000792289606361", "", ""),
		debit("2", "2021-12-16 18:51:10", "-10.00", "Visa 7000792289606361", "", ""),
	}
	transactions[0].Currency = "USD"
	transactions[1].Currency = "USD"

	_, err := aggregator.Dashboard(context.Background(), transactions, asOf, []string{"USD"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, currencies.calls["USD"], "two conversions and the currency section should share one lookup")

	// The next invocation starts cold.
	_, err = aggregator.Dashboard(context.Background(), transactions, asOf, []string{"USD"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, currencies.calls["USD"])
}

func TestTopTransactionsStableForEqualMagnitudes(t *testing.T) {
	transactions := []types.Transaction{
		transaction("1", "2021-12-01 10:00:00", "-100.00"),
		transaction("2", "2021-12-02 10:00:00", "100.00"),
		transaction("3", "2021-12-03 10:00:00", "-500.00"),
	}

	top := topTransactions(transactions)
	require.Len(t, top, 3)
	assert.Equal(t, "03.12.2021", top[0].Date)
	assert.Equal(t, "01.12.2021", top[1].Date)
	assert.Equal(t, "02.12.2021", top[2].Date)
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{hour: 5, want: "Доброе утро!"},
		{hour: 11, want: "Доброе утро!"},
		{hour: 12, want: "Добрый день!"},
		{hour: 17, want: "Добрый день!"},
		{hour: 18, want: "Добрый вечер!"},
		{hour: 21, want: "Добрый вечер!"},
		{hour: 22, want: "Доброй ночи!"},
		{hour: 3, want: "Доброй ночи!"},
	}

	for _, tt := range tests {
		asOf := time.Date(2021, 12, 20, tt.hour, 0, 0, 0, time.UTC)
		assert.Equal(t, tt.want, greeting(asOf), "hour %d", tt.hour)
	}
}
