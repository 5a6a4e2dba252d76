// Package tabular loads uploaded spreadsheet payloads into a plain
// header+rows table. It recognizes delimited text and xlsx workbooks; on an
// ambiguous payload it attempts exactly one alternate parse before giving up.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is one parsed input table. Headers come from the first non-empty
// row; Rows keep the source's order and raw cell text.
type Table struct {
	Headers []string
	Rows    [][]string
}

var xlsxMagic = []byte("PK\x03\x04")

// Load parses content as a table. The primary format is chosen from the
// payload's magic bytes (xlsx files are zip archives); if the primary parse
// fails, the other format is tried once before the combined error is
// returned.
func Load(content []byte) (Table, error) {
	if len(content) == 0 {
		return Table{}, errors.New("empty payload")
	}

	primary, fallback := parseDelimited, parseWorkbook
	primaryName, fallbackName := "delimited text", "xlsx"
	if bytes.HasPrefix(content, xlsxMagic) {
		primary, fallback = parseWorkbook, parseDelimited
		primaryName, fallbackName = "xlsx", "delimited text"
	}

	table, primaryErr := primary(content)
	if primaryErr == nil {
		return table, nil
	}
	table, fallbackErr := fallback(content)
	if fallbackErr == nil {
		return table, nil
	}
	return Table{}, fmt.Errorf(
		"not parseable as %s (%w) nor as %s (%w)",
		primaryName, primaryErr, fallbackName, fallbackErr,
	)
}

// LoadFile reads and parses the file at path.
func LoadFile(path string) (Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	return Load(content)
}

func parseDelimited(content []byte) (Table, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if !isMostlyText(content) {
		return Table{}, errors.New("payload is not text")
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var table Table
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, err
		}
		if isEmptyRow(record) {
			continue
		}
		if table.Headers == nil {
			table.Headers = record
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	if table.Headers == nil {
		return Table{}, errors.New("no header row found")
	}
	return table, nil
}

func parseWorkbook(content []byte) (Table, error) {
	book, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Table{}, err
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return Table{}, err
	}

	var table Table
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if table.Headers == nil {
			table.Headers = row
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	if table.Headers == nil {
		return Table{}, errors.New("no header row found")
	}
	return table, nil
}

// detectDelimiter picks the separator occurring most often in the first line.
// Counties export commas, semicolons and tabs interchangeably.
func detectDelimiter(content []byte) rune {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte(","))
	for _, candidate := range []byte{';', '\t'} {
		if n := bytes.Count(line, []byte{candidate}); n > bestCount {
			best, bestCount = rune(candidate), n
		}
	}
	return best
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isMostlyText rejects binary payloads before they reach the csv reader,
// which would otherwise happily produce one garbage row.
func isMostlyText(content []byte) bool {
	sample := content
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	var control int
	for _, b := range sample {
		if b == 0 {
			return false
		}
		if b < 0x09 || (b > 0x0d && b < 0x20) {
			control++
		}
	}
	return control*20 < len(sample)
}
