// Package export writes category report rows back out to files, in the
// same three formats the ingest side reads.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"github.com/lox/bank-transaction-reports/internal/types"
)

var columns = []string{"date", "amount", "category", "description"}

// Writer serializes report rows to a single output format.
type Writer interface {
	Name() string
	Extensions() []string
	Write(w io.Writer, rows []types.CategoryRow) error
}

// ForPath selects a writer by the extension of path.
func ForPath(logger *log.Logger, path string) (Writer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, writer := range []Writer{NewJSON(logger), NewCSV(logger), NewXLSX(logger)} {
		for _, candidate := range writer.Extensions() {
			if candidate == ext {
				return writer, nil
			}
		}
	}
	return nil, fmt.Errorf("no writer for extension '%s'", ext)
}

// ToFile writes rows to path, choosing the format from the extension.
func ToFile(logger *log.Logger, path string, rows []types.CategoryRow) error {
	writer, err := ForPath(logger, path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}

	if err := writer.Write(file, rows); err != nil {
		file.Close()
		return fmt.Errorf("error writing %s output: %w", writer.Name(), err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing output file: %w", err)
	}
	logger.Info("Wrote report", "path", path, "format", writer.Name(), "rows", len(rows))
	return nil
}

// JSONWriter emits rows as a JSON array.
type JSONWriter struct {
	logger *log.Logger
}

var _ Writer = (*JSONWriter)(nil)

func NewJSON(logger *log.Logger) *JSONWriter {
	return &JSONWriter{logger: logger}
}

func (j *JSONWriter) Name() string         { return "json" }
func (j *JSONWriter) Extensions() []string { return []string{".json"} }

func (j *JSONWriter) Write(w io.Writer, rows []types.CategoryRow) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

// CSVWriter emits semicolon-separated rows with a header line,
// mirroring the ingest dialect.
type CSVWriter struct {
	logger *log.Logger
}

var _ Writer = (*CSVWriter)(nil)

func NewCSV(logger *log.Logger) *CSVWriter {
	return &CSVWriter{logger: logger}
}

func (c *CSVWriter) Name() string         { return "csv" }
func (c *CSVWriter) Extensions() []string { return []string{".csv"} }

func (c *CSVWriter) Write(w io.Writer, rows []types.CategoryRow) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{row.Date, row.Amount.String(), row.Category, row.Description}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// XLSXWriter emits rows to the first sheet of a new workbook.
type XLSXWriter struct {
	logger *log.Logger
}

var _ Writer = (*XLSXWriter)(nil)

func NewXLSX(logger *log.Logger) *XLSXWriter {
	return &XLSXWriter{logger: logger}
}

func (x *XLSXWriter) Name() string         { return "xlsx" }
func (x *XLSXWriter) Extensions() []string { return []string{".xlsx"} }

func (x *XLSXWriter) Write(w io.Writer, rows []types.CategoryRow) error {
	workbook := excelize.NewFile()
	defer workbook.Close()
	sheet := workbook.GetSheetName(0)

	headerRow := make([]any, len(columns))
	for i, column := range columns {
		headerRow[i] = column
	}
	if err := setRow(workbook, sheet, 1, headerRow); err != nil {
		return err
	}

	for i, row := range rows {
		amount, _ := row.Amount.Float64()
		cells := []any{row.Date, amount, row.Category, row.Description}
		if err := setRow(workbook, sheet, i+2, cells); err != nil {
			return err
		}
	}

	return workbook.Write(w)
}

func setRow(workbook *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return workbook.SetSheetRow(sheet, cell, &cells)
}
