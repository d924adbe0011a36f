package ingest

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvFixture = "id;state;date;amount;currency_name;currency_code;description;from;to\n" +
	"650703;EXECUTED;2023-09-05T11:30:32;16210.00;Sol;PEN;Перевод организации;Счет 58803664561298323391;Счет 39745660563456619397\n" +
	"3598919;EXECUTED;2020-12-06T23:00:58;-29740.00;Peso;COP;Перевод с карты на карту;Discover 3172601889670065;Discover 0720428384694643\n"

func TestCSVParse(t *testing.T) {
	format := NewCSV(log.New(io.Discard))

	transactions, err := format.Parse(context.Background(), strings.NewReader(csvFixture))
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	first := transactions[0]
	assert.Equal(t, "650703", first.ID)
	assert.Equal(t, "PEN", first.Currency)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(16210)))
	assert.False(t, first.IsDebit())

	second := transactions[1]
	assert.Equal(t, "Discover 3172601889670065", second.From)
	assert.True(t, second.IsDebit())
}

func TestCSVParseAcceptsFlattenedOperationColumns(t *testing.T) {
	format := NewCSV(log.New(io.Discard))

	source := "id;state;date;operation_amount;operation_amount_currency_code\n" +
		"1;EXECUTED;2021-06-01;-500.00;RUB\n"
	transactions, err := format.Parse(context.Background(), strings.NewReader(source))
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "RUB", transactions[0].Currency)
}

func TestCSVParseZeroValueSuppression(t *testing.T) {
	format := NewCSV(log.New(io.Discard))

	source := "id;state;date;amount;currency_code;description;from;to\n" +
		"1;EXECUTED;2021-06-01;-500.00;RUB;0;0;Счет 12345678901234567890\n"
	transactions, err := format.Parse(context.Background(), strings.NewReader(source))
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Empty(t, transactions[0].Description)
	assert.Empty(t, transactions[0].From)
	assert.Equal(t, "Счет 12345678901234567890", transactions[0].To)
}

func TestCSVParseSkipsRowsMissingRequiredFields(t *testing.T) {
	format := NewCSV(log.New(io.Discard))

	source := "id;state;date;amount;currency_code\n" +
		"1;EXECUTED;2021-06-01;-500.00;RUB\n" +
		"2;EXECUTED;2021-06-02;;RUB\n" +
		"3;EXECUTED;2021-06-03;-700.00;\n" +
		"4;EXECUTED;not-a-date;-900.00;RUB\n" +
		"5;EXECUTED;2021-06-05;-100.00;RUB\n"
	transactions, err := format.Parse(context.Background(), strings.NewReader(source))
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "1", transactions[0].ID)
	assert.Equal(t, "5", transactions[1].ID)
}

func TestCSVParseMissingHeader(t *testing.T) {
	format := NewCSV(log.New(io.Discard))

	transactions, err := format.Parse(context.Background(), strings.NewReader("state;date\nEXECUTED;2021-06-01\n"))
	require.NoError(t, err)
	assert.Empty(t, transactions)

	transactions, err = format.Parse(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, transactions)
}
