// Package parsers reads ingest manifests: lists of items to resolve, each
// pointing at a document file.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawItem is one manifest entry before its document is read.
type RawItem struct {
	Email        string `json:"email,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	CaseTitle    string `json:"case_title"`
	DocumentPath string `json:"document_path"`
	DocumentName string `json:"document_name,omitempty"` // Defaults to the base name of DocumentPath
	LineNum      int    `json:"-"`                       // Line number in source file (set by parser)
}

// Parser defines the interface for parsing manifests from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawItem, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}
