package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jankiewiet1/circav2-migration/constants"
)

// SpreadsheetExtractor reads XLSX workbooks and CSV files through the same
// Extractor contract as the PDF adapters: one RawPage per sheet, one
// RawTable per sheet that carries a header row plus data.
type SpreadsheetExtractor struct {
	logger *slog.Logger
}

func NewSpreadsheetExtractor(logger *slog.Logger) *SpreadsheetExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpreadsheetExtractor{logger: logger}
}

func (e *SpreadsheetExtractor) Extract(ctx context.Context, path string) ExtractionResult {
	e.logger.Info("extract.spreadsheet.start", "path", path)

	var result ExtractionResult
	var err error
	switch constants.MapExtToFormat(filepath.Ext(path)) {
	case constants.SPREADSHEET:
		result, err = e.extractXLSX(path)
	case constants.CSVFile:
		result, err = e.extractCSV(path)
	default:
		err = fmt.Errorf("not a spreadsheet: %s", filepath.Base(path))
	}
	if err != nil {
		e.logger.Error("extract.spreadsheet.failed", "path", path, "error", err)
		result.Err = err.Error()
		return result
	}

	e.logger.Info("extract.spreadsheet.ok",
		"path", path,
		"pages", len(result.Pages),
		"text_len", len(result.Text),
		"tables", len(result.Tables),
	)
	return result
}

func (e *SpreadsheetExtractor) extractXLSX(path string) (ExtractionResult, error) {
	var result ExtractionResult

	f, err := excelize.OpenFile(path)
	if err != nil {
		return result, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("extract.spreadsheet.close_failed", "path", path, "error", err)
		}
	}()

	sheets := f.GetSheetList()
	result.Metadata.TotalPages = len(sheets)

	var b strings.Builder
	for i, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return result, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		page := pageFromGrid(rows, i+1)
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s", page.Number, page.Text)
		result.Tables = append(result.Tables, page.Tables...)
		result.Pages = append(result.Pages, page)
	}
	result.Text = b.String()
	return result, nil
}

func (e *SpreadsheetExtractor) extractCSV(path string) (ExtractionResult, error) {
	var result ExtractionResult

	f, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return result, fmt.Errorf("read csv: %w", err)
	}

	page := pageFromGrid(rows, 1)
	result.Pages = []RawPage{page}
	result.Tables = page.Tables
	result.Metadata.TotalPages = 1
	result.Text = fmt.Sprintf("\n--- Page 1 ---\n%s", page.Text)
	return result, nil
}

func pageFromGrid(rows [][]string, number int) RawPage {
	page := RawPage{Number: number}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	page.Text = b.String()

	if table, ok := tableFromGrid(rows, constants.SourceSpreadsheet); ok {
		table.Page = number
		page.Tables = []RawTable{table}
	}
	return page
}
