package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser renders CSV files as a Markdown table. The first row is taken as
// the header row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	// The table is as wide as the widest row, so ragged rows pad with empty
	// cells instead of losing data.
	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}
	pad := func(row []string) []string {
		cells := make([]string, width)
		copy(cells, row)
		return cells
	}

	var md strings.Builder
	md.WriteString("# " + baseName(filename) + "\n\n")
	md.WriteString("| " + strings.Join(escapeCells(pad(records[0])), " | ") + " |\n")
	md.WriteString("|" + strings.Repeat(" --- |", width) + "\n")

	for _, row := range records[1:] {
		md.WriteString("| " + strings.Join(escapeCells(pad(row)), " | ") + " |\n")
	}

	return md.String(), nil
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", "\\|")
		c = strings.ReplaceAll(c, "\n", " ")
		out[i] = strings.TrimSpace(c)
	}
	return out
}
