package parser

import (
	"io"
	"strings"

	"github.com/docfold/docfold/internal/article"
)

// MarkdownParser passes Markdown through mostly untouched: the stream format
// is already Markdown, so the only normalization is making sure the span
// carries a title heading for downstream extraction.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := string(src)
	if strings.TrimSpace(md) == "" {
		return "", nil
	}

	if article.Extract(0, md).Title == "" {
		md = "# " + baseName(filename) + "\n\n" + md
	}
	return md, nil
}
