package parser

import (
	"strings"
	"testing"
)

func TestTextParser_TitlePromotion(t *testing.T) {
	input := "My Field Notes\n\nFirst paragraph.\n\nSecond paragraph."
	p := &TextParser{}
	md, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(md, "# My Field Notes\n") {
		t.Errorf("expected promoted title heading, got %q", md)
	}
	if !strings.Contains(md, "First paragraph.") || !strings.Contains(md, "Second paragraph.") {
		t.Errorf("expected both paragraphs in output, got %q", md)
	}
}

func TestTextParser_FilenameTitleFallback(t *testing.T) {
	// A first paragraph ending in a period is body text, not a title.
	input := "This is a full sentence that should stay in the body.\n\nMore text."
	p := &TextParser{}
	md, err := p.Parse(strings.NewReader(input), "journal.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(md, "# journal\n") {
		t.Errorf("expected filename-derived title, got %q", md)
	}
	if !strings.Contains(md, "This is a full sentence that should stay in the body.") {
		t.Errorf("expected first paragraph preserved in body, got %q", md)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	md, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md != "" {
		t.Errorf("expected empty output for empty input, got %q", md)
	}
}

func TestTextParser_MultipleBlankLines(t *testing.T) {
	input := "Title Here\n\n\n\nPara one.\n\n\nPara two."
	p := &TextParser{}
	md, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "# Title Here\n\nPara one.\n\nPara two.\n"
	if md != want {
		t.Errorf("expected %q, got %q", want, md)
	}
}

func TestTextParser_WhitespaceOnlyLinesAreBlank(t *testing.T) {
	input := "Heading\n   \nPara one.\n \t \nPara two."
	p := &TextParser{}
	md, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(md, "\n\n") != 2 {
		t.Errorf("expected two paragraph breaks, got %q", md)
	}
}
