package ingest

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"github.com/lox/bank-transaction-reports/internal/types"
)

// XLSX parses spreadsheet tabular data with the same header convention
// as the CSV format. Only the first sheet is read.
type XLSX struct {
	logger   *log.Logger
	progress Progress
}

// NewXLSX creates a new XLSX format implementation
func NewXLSX(logger *log.Logger) *XLSX {
	return &XLSX{
		logger:   logger,
		progress: NewNoopProgress(),
	}
}

// WithProgress sets the progress tracker used during parsing
func (x *XLSX) WithProgress(progress Progress) *XLSX {
	x.progress = progress
	return x
}

// Name returns the name of the format
func (x *XLSX) Name() string {
	return "xlsx"
}

// Extensions returns the file extensions the format claims
func (x *XLSX) Extensions() []string {
	return []string{".xlsx", ".xls"}
}

// Parse normalizes spreadsheet transaction rows from the first sheet
func (x *XLSX) Parse(ctx context.Context, r io.Reader) ([]types.Transaction, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		x.logger.Warn("Source is not a readable workbook, yielding empty batch", "error", err)
		return []types.Transaction{}, nil
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		x.logger.Warn("Workbook has no sheets, yielding empty batch")
		return []types.Transaction{}, nil
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		x.logger.Warn("Failed to read sheet rows, yielding empty batch", "sheet", sheets[0], "error", err)
		return []types.Transaction{}, nil
	}
	if len(rows) == 0 {
		return []types.Transaction{}, nil
	}

	h := parseHeader(rows[0])
	if !h.valid() {
		x.logger.Warn("Header is missing required columns, yielding empty batch", "header", rows[0])
		return []types.Transaction{}, nil
	}

	transactions := make([]types.Transaction, 0, len(rows)-1)
	var skipped int
	for i, row := range rows[1:] {
		t, ok := normalizeRow(h, row)
		if !ok {
			x.logger.Warn("Skipping row missing required fields", "row", i+2)
			skipped++
			continue
		}
		transactions = append(transactions, t)

		if err := x.progress.Add(1); err != nil {
			x.logger.Warn("Failed to update progress", "error", err)
		}
	}

	x.logger.Info("Normalized XLSX source", "sheet", sheets[0], "records", len(transactions), "skipped", skipped)
	return transactions, nil
}

// Ensure XLSX implements the Format interface
var _ Format = (*XLSX)(nil)
