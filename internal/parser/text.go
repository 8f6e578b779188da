package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. Paragraphs are separated by blank
// lines; a short first paragraph is promoted to the title heading.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	if len(paragraphs) == 0 {
		return "", nil
	}

	title := baseName(filename)
	if isTitleLike(paragraphs[0]) {
		title = paragraphs[0]
		paragraphs = paragraphs[1:]
	}

	var md strings.Builder
	md.WriteString("# " + title + "\n")
	for _, para := range paragraphs {
		md.WriteString("\n" + para + "\n")
	}
	return md.String(), nil
}

// isTitleLike reports whether a paragraph reads as a title: one line, short,
// no terminal punctuation.
func isTitleLike(para string) bool {
	if strings.Contains(para, "\n") || len(para) > 80 {
		return false
	}
	return !strings.HasSuffix(para, ".") && !strings.HasSuffix(para, "!") && !strings.HasSuffix(para, "?")
}
