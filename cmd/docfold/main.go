// Command docfold unfolds a document stream into individual Markdown files,
// or folds files back into a single stream.
//
// Usage:
//
//	docfold unfold -in stream.md -out articles/
//	docfold fold -out stream.md articles/*.md
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docfold/docfold/internal/article"
	"github.com/docfold/docfold/internal/splitter"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "unfold":
		err = runUnfold(os.Args[2:])
	case "fold":
		err = runFold(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "docfold:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: docfold unfold -in stream.md -out dir")
	fmt.Fprintln(os.Stderr, "       docfold fold -out stream.md file...")
}

func runUnfold(args []string) error {
	fs := flag.NewFlagSet("unfold", flag.ExitOnError)
	in := fs.String("in", "-", "input stream file (- for stdin)")
	out := fs.String("out", ".", "output directory")
	sep := fs.String("sep", splitter.DefaultSeparator, "document separator literal")
	fs.Parse(args)

	var r io.Reader = os.Stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	sc := splitter.NewScanner(r, *sep)
	index := 0
	written := 0
	for sc.Scan() {
		span := sc.Text()
		doc := article.Extract(index, span)
		index++
		if doc.Blank {
			continue
		}

		name := fmt.Sprintf("%03d-%s.md", doc.Index, slugify(doc.Title))
		path := filepath.Join(*out, name)
		if err := os.WriteFile(path, []byte(span), 0o644); err != nil {
			return err
		}
		written++
	}
	if err := sc.Err(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "unfolded %d documents to %s\n", written, *out)
	return nil
}

func runFold(args []string) error {
	fs := flag.NewFlagSet("fold", flag.ExitOnError)
	out := fs.String("out", "-", "output stream file (- for stdout)")
	sep := fs.String("sep", splitter.DefaultSeparator, "document separator literal")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("at least one input file is required")
	}

	docs := make([]string, 0, fs.NArg())
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, string(data))
	}

	stream := splitter.Join(docs, *sep)
	if *out == "-" {
		_, err := io.WriteString(os.Stdout, stream)
		return err
	}
	return os.WriteFile(*out, []byte(stream), 0o644)
}

// slugify turns a document title into a safe filename fragment.
func slugify(title string) string {
	if title == "" {
		return "untitled"
	}
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "untitled"
	}
	if len(slug) > 60 {
		slug = strings.TrimSuffix(slug[:60], "-")
	}
	return slug
}
