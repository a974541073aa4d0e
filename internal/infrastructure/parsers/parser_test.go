package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawItem
	}{
		{
			name:  "single item",
			input: `[{"email": "alice@x.com", "case_title": "Lease", "document_path": "docs/lease.pdf"}]`,
			expected: []RawItem{
				{Email: "alice@x.com", CaseTitle: "Lease", DocumentPath: "docs/lease.pdf", LineNum: 1},
			},
		},
		{
			name:     "empty array",
			input:    "[]",
			expected: []RawItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestJSONParser_Parse_AllFields(t *testing.T) {
	input := `[{
		"email": "alice@x.com",
		"first_name": "Alice",
		"last_name": "Martin",
		"case_title": "Dossier Contrat 2026",
		"document_path": "in/contrat.pdf",
		"document_name": "contrat-signed.pdf"
	}, {
		"first_name": "Bob",
		"case_title": "Other",
		"document_path": "in/b.pdf"
	}]`

	parser := &JSONParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 2)

	item := result[0]
	assert.Equal(t, "alice@x.com", item.Email)
	assert.Equal(t, "Alice", item.FirstName)
	assert.Equal(t, "Martin", item.LastName)
	assert.Equal(t, "Dossier Contrat 2026", item.CaseTitle)
	assert.Equal(t, "in/contrat.pdf", item.DocumentPath)
	assert.Equal(t, "contrat-signed.pdf", item.DocumentName)
	assert.Equal(t, 1, item.LineNum)
	assert.Equal(t, 2, result[1].LineNum)
}

func TestJSONParser_Parse_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "not json"},
		{name: "object instead of array", input: `{"email": "a@x.com"}`},
		{name: "unknown field", input: `[{"mail": "a@x.com"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			assert.ErrorContains(t, err, "parsing JSON")
		})
	}
}

func TestCSVParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawItem
	}{
		{
			name:  "required columns only",
			input: "email,case_title,document_path\nalice@x.com,Lease,lease.pdf\n",
			expected: []RawItem{
				{Email: "alice@x.com", CaseTitle: "Lease", DocumentPath: "lease.pdf", LineNum: 2},
			},
		},
		{
			name:     "empty CSV (header only)",
			input:    "email,case_title,document_path\n",
			expected: nil,
		},
		{
			name:  "columns in different order and case",
			input: "Document_Path, Case_Title, Last_Name\nb.pdf, Divorce, Stone\n",
			expected: []RawItem{
				{LastName: "Stone", CaseTitle: "Divorce", DocumentPath: "b.pdf", LineNum: 2},
			},
		},
		{
			name:  "byte order mark",
			input: "\ufeffemail,case_title,document_path\na@x.com,A,a.pdf\n",
			expected: []RawItem{
				{Email: "a@x.com", CaseTitle: "A", DocumentPath: "a.pdf", LineNum: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCSVParser_Parse_AllColumns(t *testing.T) {
	input := "email,first_name,last_name,case_title,document_path,document_name\n" +
		"alice@x.com,Alice,Martin,Dossier Contrat 2026,in/contrat.pdf,contrat.pdf\n" +
		",Alicia,Martins,dossier contrat 2026,in/copy.pdf,\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 2)

	item := result[0]
	assert.Equal(t, "alice@x.com", item.Email)
	assert.Equal(t, "Alice", item.FirstName)
	assert.Equal(t, "Martin", item.LastName)
	assert.Equal(t, "Dossier Contrat 2026", item.CaseTitle)
	assert.Equal(t, "in/contrat.pdf", item.DocumentPath)
	assert.Equal(t, "contrat.pdf", item.DocumentName)

	assert.Empty(t, result[1].Email)
	assert.Empty(t, result[1].DocumentName)
	assert.Equal(t, 3, result[1].LineNum)
}

func TestCSVParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{
			name:   "empty input",
			input:  "",
			errMsg: "reading CSV header",
		},
		{
			name:   "missing required column",
			input:  "email,case_title\na@x.com,Lease\n",
			errMsg: "missing required column: document_path",
		},
		{
			name:   "no identity column",
			input:  "case_title,document_path\nLease,a.pdf\n",
			errMsg: "missing identity column",
		},
		{
			name:   "wrong field count",
			input:  "email,case_title,document_path\na@x.com,Lease\n",
			errMsg: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("json"))
	assert.IsType(t, &CSVParser{}, ForFormat("CSV"))
	assert.Nil(t, ForFormat("unknown"))
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFile("items.json"))
	assert.IsType(t, &CSVParser{}, ForFile("manifest.CSV"))
	assert.Nil(t, ForFile("file.txt"))
	assert.Nil(t, ForFile("noextension"))
}
