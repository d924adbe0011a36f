package ingest

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lox/bank-transaction-reports/internal/types"
)

// columnAliases maps canonical column names to the header spellings the
// tabular exports use. Nested JSON fields arrive flattened here.
var columnAliases = map[string][]string{
	"id":          {"id"},
	"state":       {"state"},
	"date":        {"date"},
	"amount":      {"amount", "operation_amount"},
	"currency":    {"currency_code", "operation_amount_currency_code", "currency"},
	"description": {"description"},
	"category":    {"category"},
	"from":        {"from"},
	"to":          {"to"},
}

// header resolves canonical column names to their index in a header row.
type header map[string]int

func parseHeader(row []string) header {
	byName := make(map[string]int, len(row))
	for i, cell := range row {
		byName[strings.ToLower(strings.TrimSpace(cell))] = i
	}

	h := make(header)
	for canonical, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := byName[alias]; ok {
				h[canonical] = i
				break
			}
		}
	}
	return h
}

// valid reports whether the header carries every required column.
func (h header) valid() bool {
	for _, required := range []string{"id", "amount", "currency"} {
		if _, ok := h[required]; !ok {
			return false
		}
	}
	return true
}

func (h header) cell(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// optionalCell applies zero-value suppression: tabular exports render
// absent optional fields as a literal zero, which must not survive as a
// record field.
func (h header) optionalCell(row []string, name string) string {
	value := h.cell(row, name)
	if value == "0" || value == "0.0" || strings.EqualFold(value, "nan") {
		return ""
	}
	return value
}

// normalizeRow builds a canonical transaction from one tabular row.
// Rows missing id, amount or currency are rejected individually.
func normalizeRow(h header, row []string) (types.Transaction, bool) {
	id := h.cell(row, "id")
	rawAmount := h.cell(row, "amount")
	currency := h.cell(row, "currency")
	if id == "" || rawAmount == "" || currency == "" {
		return types.Transaction{}, false
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return types.Transaction{}, false
	}

	date, ok := parseDate(h.cell(row, "date"))
	if !ok {
		return types.Transaction{}, false
	}

	return types.Transaction{
		ID:          id,
		State:       types.State(h.cell(row, "state")),
		Date:        date,
		Amount:      amount,
		Currency:    currency,
		Description: h.optionalCell(row, "description"),
		Category:    h.optionalCell(row, "category"),
		From:        h.optionalCell(row, "from"),
		To:          h.optionalCell(row, "to"),
	}, true
}
