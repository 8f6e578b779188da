package splitter

import (
	"bufio"
	"bytes"
	"io"
)

// MaxDocumentBytes is the default cap on a single document span when
// scanning. Streams are unbounded; individual documents are not.
const MaxDocumentBytes = 16 * 1024 * 1024

// Scanner yields the documents of a folded stream one at a time without
// loading the whole stream into memory. Segment semantics match Split,
// including the trailing empty document after a final separator and the
// single empty document for an empty stream.
type Scanner struct {
	sc  *bufio.Scanner
	sep []byte
}

// NewScanner returns a Scanner reading documents from r, delimited by sep.
func NewScanner(r io.Reader, sep string) *Scanner {
	s := &Scanner{
		sc:  bufio.NewScanner(r),
		sep: []byte(sep),
	}
	s.sc.Buffer(make([]byte, 0, 64*1024), MaxDocumentBytes)
	s.sc.Split(s.splitDoc)
	return s
}

// Scan advances to the next document. It returns false at end of stream or
// on a read error; check Err afterwards.
func (s *Scanner) Scan() bool {
	return s.sc.Scan()
}

// Text returns the current document span verbatim.
func (s *Scanner) Text() string {
	return s.sc.Text()
}

// Err returns the first non-EOF error encountered while reading.
func (s *Scanner) Err() error {
	return s.sc.Err()
}

func (s *Scanner) splitDoc(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if len(s.sep) > 0 {
		if i := bytes.Index(data, s.sep); i >= 0 {
			return i + len(s.sep), data[:i], nil
		}
	}
	if atEOF {
		// The final span may be empty (trailing separator or empty
		// stream); a non-nil token keeps the k+1 law intact.
		if token = data; token == nil {
			token = []byte{}
		}
		return len(data), token, bufio.ErrFinalToken
	}
	return 0, nil, nil
}
