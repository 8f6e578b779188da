package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/docfold/docfold/internal/article"
)

// HTMLParser converts HTML pages to Markdown. The page is sanitized first so
// scripts, styles and event handlers never reach the converter.
type HTMLParser struct {
	policy *bluemonday.Policy
	conv   *converter.Converter
}

func NewHTMLParser() *HTMLParser {
	return &HTMLParser{
		policy: bluemonday.UGCPolicy(),
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(strings.NewReader(string(src)))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	title := findTitle(doc)
	if title == "" {
		title = baseName(filename)
	}

	sanitized := p.policy.Sanitize(string(src))
	md, err := p.conv.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	md = strings.TrimSpace(md)
	if md == "" {
		return "", nil
	}

	if article.Extract(0, md).Title == "" {
		md = "# " + title + "\n\n" + md
	}
	return md + "\n", nil
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
