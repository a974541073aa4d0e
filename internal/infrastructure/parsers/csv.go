package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser parses a manifest in CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed items.
// Expected columns: email, first_name, last_name, case_title, document_path, document_name
func (p *CSVParser) Parse(r io.Reader) ([]RawItem, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		col = strings.TrimPrefix(col, "\ufeff")
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	requiredCols := []string{"case_title", "document_path"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	_, hasEmail := colIndex["email"]
	_, hasFirst := colIndex["first_name"]
	_, hasLast := colIndex["last_name"]
	if !hasEmail && !hasFirst && !hasLast {
		return nil, fmt.Errorf("missing identity column: need email, first_name or last_name")
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawItems.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawItem, error) {
	var items []RawItem
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		items = append(items, RawItem{
			Email:        getColumn(record, colIndex, "email"),
			FirstName:    getColumn(record, colIndex, "first_name"),
			LastName:     getColumn(record, colIndex, "last_name"),
			CaseTitle:    getColumn(record, colIndex, "case_title"),
			DocumentPath: getColumn(record, colIndex, "document_path"),
			DocumentName: getColumn(record, colIndex, "document_name"),
			LineNum:      lineNum,
		})
	}

	return items, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
