package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docintel/internal/doctree"
)

// csvBatchRows is the number of data rows grouped under one heading line.
const csvBatchRows = 20

// CSVParser handles CSV files. Data rows are rendered as "header: value"
// lines in batches, each batch under a "Rows a-b" heading line.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Parsed, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := strings.TrimSuffix(filename, ".csv")
	if len(records) < 2 {
		return &doctree.Parsed{Title: title}, nil
	}

	headers := records[0]
	rows := records[1:]
	var blocks []string
	for i := 0; i < len(rows); i += csvBatchRows {
		end := min(i+csvBatchRows, len(rows))
		var sb strings.Builder
		// Spreadsheet row numbers: header is row 1.
		fmt.Fprintf(&sb, "Rows %d-%d\n", i+2, end+1)
		for _, row := range rows[i:end] {
			cells := make([]string, len(row))
			for j, cell := range row {
				if j < len(headers) && headers[j] != "" {
					cells[j] = headers[j] + ": " + cell
				} else {
					cells[j] = cell
				}
			}
			sb.WriteString(strings.Join(cells, ", ") + ".\n")
		}
		blocks = append(blocks, strings.TrimRight(sb.String(), "\n"))
	}
	return singlePage(title, blocks), nil
}
