package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bank-transaction-reports/internal/types"
)

const jsonFixture = `[
	{
		"id": 441945886,
		"state": "EXECUTED",
		"date": "2019-08-26T10:50:58.294041",
		"operationAmount": {
			"amount": "31957.58",
			"currency": {"name": "руб.", "code": "RUB"}
		},
		"description": "Перевод организации",
		"from": "Maestro 1596837868705199",
		"to": "Счет 64686473678894779589"
	},
	{
		"id": 41428829,
		"state": "EXECUTED",
		"date": "2019-07-03T18:35:29.512364",
		"operationAmount": {
			"amount": "-8221.37",
			"currency": {"name": "USD", "code": "USD"}
		},
		"description": "Перевод организации",
		"from": "MasterCard 7158300734726758",
		"to": "Счет 35383033474447895560"
	}
]`

func TestJSONParse(t *testing.T) {
	format := NewJSON(log.New(io.Discard))

	transactions, err := format.Parse(context.Background(), strings.NewReader(jsonFixture))
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	first := transactions[0]
	assert.Equal(t, "441945886", first.ID)
	assert.Equal(t, types.StateExecuted, first.State)
	assert.Equal(t, "RUB", first.Currency)
	assert.True(t, first.Amount.Equal(decimal.NewFromFloat(31957.58)))
	assert.Equal(t, "Maestro 1596837868705199", first.From)
	assert.Equal(t, 2019, first.Date.Year())

	second := transactions[1]
	assert.Equal(t, "USD", second.Currency)
	assert.True(t, second.IsDebit())
}

func TestJSONParseFlattenedFields(t *testing.T) {
	format := NewJSON(log.New(io.Discard))

	transactions, err := format.Parse(context.Background(), strings.NewReader(`[
		{"id": "1", "state": "EXECUTED", "date": "2021-12-01", "amount": "-100.50", "currency_code": "RUB", "category": "Супермаркеты"}
	]`))
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "Супермаркеты", transactions[0].Category)
	assert.True(t, transactions[0].Amount.Equal(decimal.NewFromFloat(-100.50)))
}

func TestJSONParseIDShapes(t *testing.T) {
	format := NewJSON(log.New(io.Discard))

	source := `[
		{"id": "txn-abc", "state": "EXECUTED", "date": "2021-12-01", "amount": "-10.00", "currency_code": "RUB"},
		{"id": 441945886, "state": "EXECUTED", "date": "2021-12-02", "amount": "-20.00", "currency_code": "RUB"},
		{"id": null, "state": "EXECUTED", "date": "2021-12-03", "amount": "-30.00", "currency_code": "RUB"}
	]`
	transactions, err := format.Parse(context.Background(), strings.NewReader(source))
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "txn-abc", transactions[0].ID)
	assert.Equal(t, "441945886", transactions[1].ID)
}

func TestJSONParseNotASequence(t *testing.T) {
	format := NewJSON(log.New(io.Discard))

	for _, source := range []string{`{"id": 1}`, `not json at all`, `42`} {
		transactions, err := format.Parse(context.Background(), strings.NewReader(source))
		require.NoError(t, err)
		assert.Empty(t, transactions, "source %q should yield an empty batch", source)
	}
}

func TestJSONParseSkipsMalformedRecords(t *testing.T) {
	format := NewJSON(log.New(io.Discard))

	var elements []string
	for i := range 10 {
		if i == 3 {
			// No amount at all on this one.
			elements = append(elements, fmt.Sprintf(`{"id": %d, "state": "EXECUTED", "date": "2021-01-02"}`, i))
			continue
		}
		elements = append(elements, fmt.Sprintf(
			`{"id": %d, "state": "EXECUTED", "date": "2021-01-02", "amount": "-10.00", "currency_code": "RUB"}`, i))
	}
	source := "[" + strings.Join(elements, ",") + "]"

	transactions, err := format.Parse(context.Background(), strings.NewReader(source))
	require.NoError(t, err)
	assert.Len(t, transactions, 9)
}

func TestJSONParsePreservesSourceOrder(t *testing.T) {
	format := NewJSON(log.New(io.Discard))

	source := `[
		{"id": "b", "date": "2021-01-02", "amount": "-1", "currency_code": "RUB"},
		{"id": "a", "date": "2021-01-01", "amount": "-2", "currency_code": "RUB"},
		{"id": "c", "date": "2021-01-03", "amount": "-3", "currency_code": "RUB"}
	]`
	transactions, err := format.Parse(context.Background(), strings.NewReader(source))
	require.NoError(t, err)
	require.Len(t, transactions, 3)
	assert.Equal(t, "b", transactions[0].ID)
	assert.Equal(t, "a", transactions[1].ID)
	assert.Equal(t, "c", transactions[2].ID)
}
