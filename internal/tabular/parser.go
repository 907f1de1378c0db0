// Package tabular turns uploaded review exports into header-keyed records.
// It accepts comma-delimited CSV (with optional double-quote field quoting
// and a UTF-8 byte order mark) and XLSX workbooks, reading the first sheet.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reviewlens/reviewlens/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Table is one parsed upload: the ordered header row plus every non-blank
// data row keyed by header. Cell values are carried verbatim.
type Table struct {
	Headers []string
	Records []domain.RawRecord
}

// Parse dispatches on the file extension. Files without an extension are
// treated as CSV, matching the raw-text upload path.
func Parse(fileName string, payload []byte) (Table, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case "", ".csv":
		return ParseCSV(payload)
	case ".xlsx":
		return ParseExcel(payload)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ParseCSV reads comma-delimited text, tolerating a leading BOM and rows
// with a different field count than the header.
func ParseCSV(payload []byte) (Table, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read csv: %w", err)
	}

	return buildTable(rows)
}

// ParseExcel reads the first sheet of an xlsx workbook.
func ParseExcel(payload []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return Table{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return buildTable(rows)
}

func buildTable(rows [][]string) (Table, error) {
	var headerRow []string
	var dataRows [][]string

	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if headerRow == nil {
			headerRow = row
			continue
		}
		dataRows = append(dataRows, row)
	}

	if headerRow == nil {
		return Table{}, errors.New("no header row detected")
	}

	headers := dedupeHeaders(headerRow)

	records := make([]domain.RawRecord, 0, len(dataRows))
	for _, row := range dataRows {
		row = padRow(row, len(headers))
		record := make(domain.RawRecord, len(headers))
		for idx, header := range headers {
			record[header] = row[idx]
		}
		records = append(records, record)
	}

	return Table{Headers: headers, Records: records}, nil
}

// dedupeHeaders trims header cells and suffixes repeats so they can key a
// record without collisions. Blank headers get positional names.
func dedupeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int)

	for idx, value := range raw {
		name := strings.TrimSpace(value)
		if name == "" {
			name = fmt.Sprintf("column_%d", idx+1)
		}

		base := name
		count := seen[base]
		if count > 0 {
			name = fmt.Sprintf("%s_%d", base, count+1)
		}
		seen[base] = count + 1

		headers[idx] = name
	}

	return headers
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
