"

// Split partitions a stream into the ordered sequence of document spans.
// Each element is the verbatim text between two separator occurrences (or
// between stream start/end and the nearest occurrence). A stream with k
// separator occurrences always yields k+1 elements: no occurrences yield a
// single element holding the whole blob, consecutive separators yield empty
// elements, and the empty stream yields [""].
//
// Empty elements are preserved so that Join(Split(blob)) == blob for every
// input. Callers that want to hide blank documents filter at a higher layer.
func Split(blob, sep string) []string {
	if sep == "" {
		return []string{blob}
	}
	return strings.Split(blob, sep)
}

// Join is the inverse of Split: it reassembles document spans into one
// stream. Join(Split(blob, sep), sep) reproduces blob byte-for-byte.
func Join(docs []string, sep string) string {
	return strings.Join(docs, sep)
}

// Count returns the number of separator occurrences in the stream, which is
// always one less than the number of elements Split would produce.
func Count(blob, sep string) int {
	if sep == "" {
		return 0
	}
	return strings.Count(blob, sep)
}
