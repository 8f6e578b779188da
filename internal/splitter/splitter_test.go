package splitter

import (
	"strings"
	"testing"
)

func TestSplit_BasicThreeDocuments(t *testing.T) {
	got := Split("A<SEP>B<SEP>C", "<SEP>")
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("doc[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplit_NoSeparator(t *testing.T) {
	got := Split("only one doc, no separator", "<SEP>")
	if len(got) != 1 {
		t.Fatalf("expected 1 document, got %d", len(got))
	}
	if got[0] != "only one doc, no separator" {
		t.Errorf("expected whole blob back, got %q", got[0])
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	// Documented convention: the empty stream is one empty document, so the
	// k-occurrences/k+1-elements law holds for k=0.
	got := Split("", "<SEP>")
	if len(got) != 1 {
		t.Fatalf("expected 1 element for empty input, got %d", len(got))
	}
	if got[0] != "" {
		t.Errorf("expected empty document, got %q", got[0])
	}
}

func TestSplit_ConsecutiveSeparators(t *testing.T) {
	got := Split("A<SEP><SEP>B", "<SEP>")
	want := []string{"A", "", "B"}
	if len(got) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("doc[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplit_LeadingAndTrailingSeparators(t *testing.T) {
	got := Split("<SEP>A<SEP>", "<SEP>")
	want := []string{"", "A", ""}
	if len(got) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("doc[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplit_Cardinality(t *testing.T) {
	inputs := []string{
		"",
		"one",
		"a<SEP>b",
		"<SEP>",
		"<SEP><SEP><SEP>",
		"x<SEP>y<SEP>z<SEP>",
	}
	for _, in := range inputs {
		k := Count(in, "<SEP>")
		parts := Split(in, "<SEP>")
		if len(parts) != k+1 {
			t.Errorf("input %q: %d occurrences but %d elements, want %d", in, k, len(parts), k+1)
		}
	}
}

func TestJoinSplit_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"single document",
		"# Title\n\nBody text.\n" + DefaultSeparator + "# Other\n\nMore.\n",
		DefaultSeparator,
		DefaultSeparator + DefaultSeparator,
		"lead" + DefaultSeparator,
		DefaultSeparator + "trail",
	}
	for _, in := range inputs {
		out := Join(Split(in, DefaultSeparator), DefaultSeparator)
		if out != in {
			t.Errorf("round trip changed stream:\n in: %q\nout: %q", in, out)
		}
	}
}

func TestSplitJoin_Idempotence(t *testing.T) {
	// Splitting the join of N known documents returns the original N, for
	// several N including zero.
	cases := [][]string{
		{},
		{""},
		{"only"},
		{"a", "b"},
		{"a", "", "b"},
		{"# One\n\ntext", "# Two\n\ntext", "# Three\n\ntext"},
	}
	for _, docs := range cases {
		if len(docs) == 0 {
			// Joining zero documents yields the empty stream, which splits
			// to one empty document; N=0 is unrecoverable by convention.
			continue
		}
		joined := Join(docs, DefaultSeparator)
		got := Split(joined, DefaultSeparator)
		if len(got) != len(docs) {
			t.Fatalf("expected %d documents back, got %d", len(docs), len(got))
		}
		for i := range docs {
			if got[i] != docs[i] {
				t.Errorf("doc[%d]: expected %q, got %q", i, docs[i], got[i])
			}
		}
	}
}

func TestSplit_SeparatorNeverInDocuments(t *testing.T) {
	in := "a" + DefaultSeparator + "b" + DefaultSeparator + "c"
	for i, doc := range Split(in, DefaultSeparator) {
		if strings.Contains(doc, DefaultSeparator) {
			t.Errorf("doc[%d] still contains the separator", i)
		}
	}
}

func TestScanner_AgreesWithSplit(t *testing.T) {
	inputs := []string{
		"",
		"one document only",
		"A<SEP>B<SEP>C",
		"A<SEP><SEP>B",
		"<SEP>A<SEP>",
		"<SEP>",
		strings.Repeat("x", 200*1024) + "<SEP>tail",
	}
	for _, in := range inputs {
		want := Split(in, "<SEP>")

		sc := NewScanner(strings.NewReader(in), "<SEP>")
		var got []string
		for sc.Scan() {
			got = append(got, sc.Text())
		}
		if err := sc.Err(); err != nil {
			t.Fatalf("input %q: unexpected scan error: %v", in, err)
		}

		if len(got) != len(want) {
			t.Fatalf("input len=%d: scanner yielded %d documents, Split yielded %d", len(in), len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("doc[%d]: scanner %q, Split %q", i, got[i], want[i])
			}
		}
	}
}

func TestScanner_RealSeparator(t *testing.T) {
	stream := "# First\n\nbody\n" + DefaultSeparator + "# Second\n\nbody\n"
	sc := NewScanner(strings.NewReader(stream), DefaultSeparator)

	var docs []string
	for sc.Scan() {
		docs = append(docs, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if !strings.HasPrefix(docs[0], "# First") {
		t.Errorf("unexpected first document: %q", docs[0])
	}
	if !strings.HasPrefix(docs[1], "# Second") {
		t.Errorf("unexpected second document: %q", docs[1])
	}
}
