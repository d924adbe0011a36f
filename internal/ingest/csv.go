package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/bank-transaction-reports/internal/types"
)

// CSV parses semicolon-delimited text with a header row matching the
// canonical field names.
type CSV struct {
	logger   *log.Logger
	progress Progress
}

// NewCSV creates a new CSV format implementation
func NewCSV(logger *log.Logger) *CSV {
	return &CSV{
		logger:   logger,
		progress: NewNoopProgress(),
	}
}

// WithProgress sets the progress tracker used during parsing
func (c *CSV) WithProgress(progress Progress) *CSV {
	c.progress = progress
	return c
}

// Name returns the name of the format
func (c *CSV) Name() string {
	return "csv"
}

// Extensions returns the file extensions the format claims
func (c *CSV) Extensions() []string {
	return []string{".csv"}
}

// Parse normalizes semicolon-delimited transaction rows
func (c *CSV) Parse(ctx context.Context, r io.Reader) ([]types.Transaction, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		c.logger.Warn("Source has no header row, yielding empty batch", "error", err)
		return []types.Transaction{}, nil
	}

	h := parseHeader(headerRow)
	if !h.valid() {
		c.logger.Warn("Header is missing required columns, yielding empty batch", "header", headerRow)
		return []types.Transaction{}, nil
	}

	var transactions []types.Transaction
	var skipped int
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.logger.Warn("Skipping unreadable row", "line", line, "error", err)
			skipped++
			continue
		}

		t, ok := normalizeRow(h, row)
		if !ok {
			c.logger.Warn("Skipping row missing required fields", "line", line)
			skipped++
			continue
		}
		transactions = append(transactions, t)

		if err := c.progress.Add(1); err != nil {
			c.logger.Warn("Failed to update progress", "error", err)
		}
	}

	c.logger.Info("Normalized CSV source", "records", len(transactions), "skipped", skipped)
	if transactions == nil {
		transactions = []types.Transaction{}
	}
	return transactions, nil
}

// Ensure CSV implements the Format interface
var _ Format = (*CSV)(nil)
