package ingest

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, workbook.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, workbook.Write(&buf))
	return &buf
}

func TestXLSXParse(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"id", "state", "date", "amount", "currency_code", "description", "from", "to"},
		{"716496", "EXECUTED", "2021-12-15 18:51:10", "-1712.00", "RUB", "Супермаркеты", "Visa Platinum 7000792289606361", ""},
		{"716497", "CANCELED", "2021-12-16 10:00:00", "-300.50", "RUB", "Фастфуд", "Visa Platinum 7000792289606361", ""},
	})

	format := NewXLSX(log.New(io.Discard))
	transactions, err := format.Parse(context.Background(), buf)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "716496", transactions[0].ID)
	assert.True(t, transactions[0].IsDebit())
	assert.Equal(t, "Visa Platinum 7000792289606361", transactions[0].From)
}

func TestXLSXParseSkipsMalformedRows(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"id", "state", "date", "amount", "currency_code"},
		{"1", "EXECUTED", "2021-12-15 18:51:10", "-1712.00", "RUB"},
		{"2", "EXECUTED", "2021-12-16 10:00:00", "", "RUB"},
		{"3", "EXECUTED", "2021-12-17 12:00:00", "-50.00", "RUB"},
	})

	format := NewXLSX(log.New(io.Discard))
	transactions, err := format.Parse(context.Background(), buf)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "1", transactions[0].ID)
	assert.Equal(t, "3", transactions[1].ID)
}

func TestXLSXParseNotAWorkbook(t *testing.T) {
	format := NewXLSX(log.New(io.Discard))
	transactions, err := format.Parse(context.Background(), strings.NewReader("this is not a spreadsheet"))
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestRegistry(t *testing.T) {
	logger := log.New(io.Discard)
	registry := NewRegistry()
	registry.Register(NewJSON(logger))
	registry.Register(NewCSV(logger))
	registry.Register(NewXLSX(logger))

	assert.ElementsMatch(t, []string{"json", "csv", "xlsx"}, registry.List())

	format, ok := registry.ForPath("data/operations.xlsx")
	require.True(t, ok)
	assert.Equal(t, "xlsx", format.Name())

	format, ok = registry.ForPath("operations.CSV")
	require.True(t, ok)
	assert.Equal(t, "csv", format.Name())

	_, ok = registry.ForPath("operations.txt")
	assert.False(t, ok)

	format, ok = registry.Get("json")
	require.True(t, ok)
	assert.Equal(t, []string{".json"}, format.Extensions())
}
