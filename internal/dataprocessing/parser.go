package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawTable is a parsed tabular input before schema validation: a header row
// and string cells exactly as they appeared in the source.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ColumnIndex returns the position of a header, matched case-insensitively
// and ignoring surrounding whitespace. Returns -1 when absent.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at (row, col), or "" when the row is shorter
// than col. Ragged rows are common in hand-maintained spreadsheets.
func (t *RawTable) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// ParseCSV reads a CSV document into a RawTable. The first non-empty row is
// the header. Fields may vary per row; quoting follows encoding/csv rules.
func ParseCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	table := &RawTable{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if isBlankRow(record) {
			continue
		}
		if table.Headers == nil {
			table.Headers = trimAll(record)
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	if table.Headers == nil {
		return nil, fmt.Errorf("csv input has no header row")
	}

	// Strip a UTF-8 BOM that spreadsheet exports like to prepend.
	table.Headers[0] = strings.TrimPrefix(table.Headers[0], "\uFEFF")

	slog.Debug("parsed csv input",
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// ParseWorkbook reads the first sheet of an Excel workbook into a RawTable.
// The first non-empty row is the header, the same contract as ParseCSV.
func ParseWorkbook(r io.Reader) (*RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	table := &RawTable{}
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if table.Headers == nil {
			table.Headers = trimAll(row)
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	if table.Headers == nil {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	slog.Debug("parsed workbook input",
		slog.String("sheet", sheets[0]),
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// ParseNumber converts a cell to a float pointer, nil when the cell is empty
// or not numeric. Thousands separators are tolerated.
func ParseNumber(cell string) *float64 {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cell == "" || cell == "." {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	return &v
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
