package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses a manifest given as a JSON array of items.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed items.
func (p *JSONParser) Parse(r io.Reader) ([]RawItem, error) {
	var items []RawItem

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Array index + 1
	for i := range items {
		items[i].LineNum = i + 1
	}

	return items, nil
}
