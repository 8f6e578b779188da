// Package article derives document metadata from raw Markdown spans by
// convention: an optional YAML/TOML frontmatter block, a leading "#" heading
// as the title, deeper headings as sections, and a trailing line of the form
// "**Tags:** #tag1 #tag2".
package article

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/docfold/docfold/internal/docmodel"
)

// tagLinePrefix marks the conventional trailing tag line.
const tagLinePrefix = "**Tags:**"

type frontMeta struct {
	Title string   `yaml:"title" toml:"title"`
	Tags  []string `yaml:"tags" toml:"tags"`
}

// Extract builds a Document from one raw span. Extraction is total:
// malformed input yields a Document with empty metadata, never an error,
// and Raw always carries the span verbatim.
func Extract(index int, raw string) *docmodel.Document {
	doc := &docmodel.Document{
		Index: index,
		Raw:   raw,
		Tags:  []string{},
	}
	if strings.TrimSpace(raw) == "" {
		doc.Blank = true
		return doc
	}

	var fm frontMeta
	body, err := frontmatter.Parse(strings.NewReader(raw), &fm)
	if err != nil {
		// Malformed frontmatter: treat the whole span as body.
		body = []byte(raw)
		fm = frontMeta{}
	}

	bodyText, tagLine := stripTagLine(string(body))

	doc.Title = strings.TrimSpace(fm.Title)
	doc.Tags = normalizeTags(fm.Tags)
	if len(doc.Tags) == 0 {
		doc.Tags = parseTagLine(tagLine)
	}

	title, sections := walkHeadings([]byte(bodyText))
	if doc.Title == "" {
		doc.Title = title
	}
	doc.Sections = sections

	// Word count covers body prose only: headings and the tag line are
	// excluded.
	for _, s := range sections {
		doc.WordCount += len(strings.Fields(s.Text))
	}

	return doc
}

// stripTagLine removes the trailing "**Tags:** ..." line (and the horizontal
// rule the generator writes above it) from the body, returning the remaining
// body and the tag line itself.
func stripTagLine(body string) (string, string) {
	lines := strings.Split(body, "\n")

	last := len(lines) - 1
	for last >= 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last < 0 || !strings.HasPrefix(strings.TrimSpace(lines[last]), tagLinePrefix) {
		return body, ""
	}

	tagLine := strings.TrimSpace(lines[last])
	end := last
	// Drop the "---" rule directly above the tag line, if present.
	prev := end - 1
	for prev >= 0 && strings.TrimSpace(lines[prev]) == "" {
		prev--
	}
	if prev >= 0 && strings.TrimSpace(lines[prev]) == "---" {
		end = prev
	}
	return strings.Join(lines[:end], "\n"), tagLine
}

// parseTagLine extracts hashtag tokens from a "**Tags:** #a #b" line.
func parseTagLine(line string) []string {
	if line == "" {
		return []string{}
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, tagLinePrefix))
	var tags []string
	for _, field := range strings.Fields(rest) {
		tag := strings.ToLower(strings.TrimPrefix(field, "#"))
		tag = strings.Trim(tag, ",")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if tags == nil {
		tags = []string{}
	}
	return tags
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(t, "#")))
		if t != "" {
			out = append(out, t)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// walkHeadings parses the body with goldmark and collects the title (first
// level-1 heading) and one Section per deeper heading. Text before the first
// section is kept as an unnamed leading section.
func walkHeadings(src []byte) (string, []docmodel.Section) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var (
		title    string
		sections []docmodel.Section
		current  *docmodel.Section
		preamble bytes.Buffer
	)

	appendText := func(t string) {
		if t == "" {
			return
		}
		if current != nil {
			if current.Text != "" {
				current.Text += "\n\n"
			}
			current.Text += t
			return
		}
		if preamble.Len() > 0 {
			preamble.WriteString("\n\n")
		}
		preamble.WriteString(t)
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			appendText(blockText(n, src))
			continue
		}

		headingText := string(heading.Text(src))
		if heading.Level == 1 && title == "" {
			title = headingText
			continue
		}
		if current != nil {
			sections = append(sections, *current)
		}
		current = &docmodel.Section{
			Heading: headingText,
			Level:   heading.Level,
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}

	if pre := strings.TrimSpace(preamble.String()); pre != "" {
		sections = append([]docmodel.Section{{Text: pre}}, sections...)
	}
	return title, sections
}

// blockText collects the text content of a non-heading goldmark block node.
// Leaf blocks carry their source lines directly; container blocks (lists,
// blockquotes) are walked recursively.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var t string
		if txt, ok := c.(*ast.Text); ok {
			t = string(txt.Value(src))
		} else {
			t = blockText(c, src)
		}
		if t != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
