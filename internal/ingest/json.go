package ingest

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/lox/bank-transaction-reports/internal/types"
)

// JSON parses an array of transaction objects. Both the nested
// operationAmount shape and flattened amount/currency_code fields are
// accepted.
type JSON struct {
	logger   *log.Logger
	progress Progress
}

// NewJSON creates a new JSON format implementation
func NewJSON(logger *log.Logger) *JSON {
	return &JSON{
		logger:   logger,
		progress: NewNoopProgress(),
	}
}

// WithProgress sets the progress tracker used during parsing
func (j *JSON) WithProgress(progress Progress) *JSON {
	j.progress = progress
	return j
}

// Name returns the name of the format
func (j *JSON) Name() string {
	return "json"
}

// Extensions returns the file extensions the format claims
func (j *JSON) Extensions() []string {
	return []string{".json"}
}

// jsonID accepts both string and numeric ids; exports in the wild carry
// either. A null id decodes to "" and is rejected later as missing.
type jsonID string

func (id *jsonID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = jsonID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = jsonID(n.String())
	return nil
}

type jsonAmount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"currency"`
}

type jsonTransaction struct {
	ID                   jsonID           `json:"id"`
	State                string           `json:"state"`
	Date                 string           `json:"date"`
	OperationAmount      *jsonAmount      `json:"operationAmount"`
	OperationAmountSnake *jsonAmount      `json:"operation_amount"`
	Amount               *decimal.Decimal `json:"amount"`
	CurrencyCode         string           `json:"currency_code"`
	Description          string           `json:"description"`
	Category             string           `json:"category"`
	From                 string           `json:"from"`
	To                   string           `json:"to"`
}

// Parse normalizes a JSON array of transaction objects
func (j *JSON) Parse(ctx context.Context, r io.Reader) ([]types.Transaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(content, &elements); err != nil {
		j.logger.Warn("Source is not a JSON array, yielding empty batch", "error", err)
		return []types.Transaction{}, nil
	}

	transactions := make([]types.Transaction, 0, len(elements))
	for i, element := range elements {
		var raw jsonTransaction
		if err := json.Unmarshal(element, &raw); err != nil {
			j.logger.Warn("Skipping undecodable record", "index", i, "error", err)
			continue
		}

		t, ok := j.normalize(raw)
		if !ok {
			j.logger.Warn("Skipping record missing required fields", "index", i, "id", string(raw.ID))
			continue
		}
		transactions = append(transactions, t)

		if err := j.progress.Add(1); err != nil {
			j.logger.Warn("Failed to update progress", "error", err)
		}
	}

	j.logger.Info("Normalized JSON source", "records", len(transactions), "skipped", len(elements)-len(transactions))
	return transactions, nil
}

func (j *JSON) normalize(raw jsonTransaction) (types.Transaction, bool) {
	amount := raw.Amount
	currency := raw.CurrencyCode

	nested := raw.OperationAmount
	if nested == nil {
		nested = raw.OperationAmountSnake
	}
	if nested != nil {
		amount = &nested.Amount
		currency = nested.Currency.Code
	}

	if raw.ID == "" || amount == nil || currency == "" {
		return types.Transaction{}, false
	}

	date, ok := parseDate(raw.Date)
	if !ok {
		return types.Transaction{}, false
	}

	return types.Transaction{
		ID:          string(raw.ID),
		State:       types.State(raw.State),
		Date:        date,
		Amount:      *amount,
		Currency:    currency,
		Description: raw.Description,
		Category:    raw.Category,
		From:        raw.From,
		To:          raw.To,
	}, true
}

// Ensure JSON implements the Format interface
var _ Format = (*JSON)(nil)
