package parser

import (
	"strings"
	"testing"
)

func TestCSVParser_MarkdownTable(t *testing.T) {
	input := "name,plays\nSong A,100\nSong B,250\n"
	p := &CSVParser{}
	md, err := p.Parse(strings.NewReader(input), "plays.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(md, "# plays\n\n") {
		t.Errorf("expected filename title, got %q", md)
	}
	if !strings.Contains(md, "| name | plays |") {
		t.Errorf("expected header row, got %q", md)
	}
	if !strings.Contains(md, "| --- | --- |") {
		t.Errorf("expected alignment row, got %q", md)
	}
	if !strings.Contains(md, "| Song A | 100 |") || !strings.Contains(md, "| Song B | 250 |") {
		t.Errorf("expected data rows, got %q", md)
	}
}

func TestCSVParser_EscapesPipes(t *testing.T) {
	input := "title\na|b\n"
	p := &CSVParser{}
	md, err := p.Parse(strings.NewReader(input), "x.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(md, `a\|b`) {
		t.Errorf("expected escaped pipe in cell, got %q", md)
	}
}

func TestCSVParser_RaggedRows(t *testing.T) {
	input := "a,b,c\n1,2\n1,2,3,4\n"
	p := &CSVParser{}
	md, err := p.Parse(strings.NewReader(input), "ragged.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The widest row sets the table width: short rows (the header included)
	// pad with empty cells, wide rows keep every cell.
	if !strings.Contains(md, "| a | b | c |  |\n") {
		t.Errorf("expected padded header row, got %q", md)
	}
	if !strings.Contains(md, "| --- | --- | --- | --- |\n") {
		t.Errorf("expected 4-column alignment row, got %q", md)
	}
	if !strings.Contains(md, "| 1 | 2 |  |  |\n") {
		t.Errorf("expected padded short row, got %q", md)
	}
	if !strings.Contains(md, "| 1 | 2 | 3 | 4 |\n") {
		t.Errorf("expected wide row kept intact, got %q", md)
	}
}

func TestCSVParser_EmptyInput(t *testing.T) {
	p := &CSVParser{}
	md, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md != "" {
		t.Errorf("expected empty output, got %q", md)
	}
}
