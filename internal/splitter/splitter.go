// Package splitter implements the folded-stream container format: an ordered
// sequence of documents concatenated in one blob and delimited by a fixed
// literal separator.
package splitter

import "strings"

// DefaultSeparator is the literal that delimits documents in a folded stream.
const DefaultSeparator = "