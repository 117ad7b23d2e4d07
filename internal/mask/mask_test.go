package mask

import (
	"errors"
	"iter"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phyten/spellmask/internal/extract"
	"github.com/phyten/spellmask/internal/model"
)

func comments(src string, texts ...model.Span) iter.Seq[model.Comment] {
	var cs []model.Comment
	for _, sp := range texts {
		cs = append(cs, model.Comment{Source: src, Text: sp, Code: sp})
	}
	return slices.Values(cs)
}

func newlineOffsets(s string) []int {
	var out []int
	for i := range len(s) {
		if s[i] == '\n' {
			out = append(out, i)
		}
	}
	return out
}

func TestMaskEndToEnd(t *testing.T) {
	src := "x = 1  # set x\ny = 2\n"
	got, err := Mask(src, comments(src, model.Span{Start: 7, End: 14}), nil)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	want := "       # set x\n     \n"
	if got != want {
		t.Fatalf("Mask = %q, want %q", got, want)
	}
}

func TestMaskPreservesLayout(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		spans []model.Span
	}{
		{"multibyte gap", "é = 'ü' # naïve\n\tok\r\n", []model.Span{{Start: 11, End: 18}}},
		{"block at start", "/* a\nb */ x\n", []model.Span{{Start: 2, End: 7}}},
		{"two comments", "a # b\nc # d", []model.Span{{Start: 3, End: 5}, {Start: 9, End: 11}}},
		{"invalid utf8", "\xff\xfe x # y\n", []model.Span{{Start: 6, End: 8}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Mask(tc.src, comments(tc.src, tc.spans...), nil)
			if err != nil {
				t.Fatalf("Mask: %v", err)
			}
			if len(got) != len(tc.src) {
				t.Fatalf("length %d, want %d", len(got), len(tc.src))
			}
			if diff := cmp.Diff(newlineOffsets(tc.src), newlineOffsets(got)); diff != "" {
				t.Fatalf("newline offsets differ (-want +got):\n%s", diff)
			}
			for _, sp := range tc.spans {
				if got[sp.Start:sp.End] != tc.src[sp.Start:sp.End] {
					t.Fatalf("comment %v = %q, want %q", sp, got[sp.Start:sp.End], tc.src[sp.Start:sp.End])
				}
			}
		})
	}
}

func TestMaskWithoutComments(t *testing.T) {
	src := "int main() {\n\treturn 0;\n}\n"
	got, err := Mask(src, comments(src), nil)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	if strings.TrimSpace(got) != "" {
		t.Fatalf("Mask = %q, want whitespace only", got)
	}
	if want := "            \n\t         \n \n"; got != want {
		t.Fatalf("Mask = %q, want %q", got, want)
	}
}

func TestMaskEmptyInput(t *testing.T) {
	got, err := Mask("", comments(""), nil)
	if err != nil || got != "" {
		t.Fatalf("Mask(\"\") = %q, %v", got, err)
	}
}

func TestMaskIgnorePatterns(t *testing.T) {
	src := "TODO fixme 12345"
	ignores, err := CompileIgnores([]string{`\d+`})
	if err != nil {
		t.Fatalf("CompileIgnores: %v", err)
	}
	got, err := Mask(src, comments(src, model.Span{Start: 0, End: len(src)}), ignores)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	if want := "TODO fixme      "; got != want {
		t.Fatalf("Mask = %q, want %q", got, want)
	}
}

func TestIgnoresApplyInOrder(t *testing.T) {
	src := "# see https://example.com/a now\n# ^done\n"
	ignores, err := CompileIgnores([]string{`https?://\S+`, `^# \^`})
	if err != nil {
		t.Fatalf("CompileIgnores: %v", err)
	}
	var seen []string
	opts := Options{Ignores: ignores, OnIgnore: func(_ *regexp.Regexp, m string) { seen = append(seen, m) }}
	got, err := mask(src, comments(src, model.Span{Start: 0, End: len(src)}), opts)
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	if want := "# see " + strings.Repeat(" ", 21) + " now\n   done\n"; got != want {
		t.Fatalf("mask = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"https://example.com/a", "# ^"}, seen); diff != "" {
		t.Fatalf("OnIgnore mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileIgnoresInvalid(t *testing.T) {
	_, err := CompileIgnores([]string{`ok`, `(unclosed`})
	if !errors.Is(err, model.ErrInvalidPattern) {
		t.Fatalf("err = %v, want ErrInvalidPattern", err)
	}
	if !strings.Contains(err.Error(), "(unclosed") {
		t.Fatalf("error %q does not name the pattern", err)
	}
}

func TestMaskRejectsBadOrdering(t *testing.T) {
	src := "abcdef"
	cases := map[string][]model.Span{
		"overlap":  {{Start: 1, End: 4}, {Start: 3, End: 5}},
		"reversed": {{Start: 4, End: 2}},
		"too long": {{Start: 2, End: 9}},
	}
	for name, spans := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Mask(src, comments(src, spans...), nil)
			if !errors.Is(err, model.ErrInvariantViolation) {
				t.Fatalf("err = %v, want ErrInvariantViolation", err)
			}
		})
	}
}

func TestTerseRoundTrip(t *testing.T) {
	cases := []string{
		"!\n^a b\n^c\n",
		"!\n^only",
		"!\n^\n^x\n",
	}
	for _, in := range cases {
		if got := EncodeTerse(DecodeTerse(in)); got != in {
			t.Fatalf("round trip of %q = %q", in, got)
		}
	}
	if got := DecodeTerse("!\n^a b\n^c\n"); got != "a b\nc\n" {
		t.Fatalf("DecodeTerse = %q", got)
	}
}

func TestFilterPython(t *testing.T) {
	py, _ := extract.Default(nil).Lookup("python")
	got, err := Filter("x = 1  # set x\ny = 2\n", py, Options{})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if want := strings.Repeat(" ", 9) + "set x\n     \n"; got != want {
		t.Fatalf("Filter = %q, want %q", got, want)
	}
}

func TestFilterTerse(t *testing.T) {
	py, _ := extract.Default(nil).Lookup("python")
	got, err := Filter("!\n^x = 1  # set x\n^y = 2\n", py, Options{})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if want := "!\n^" + strings.Repeat(" ", 9) + "set x\n^     \n"; got != want {
		t.Fatalf("Filter = %q, want %q", got, want)
	}
}

type brokenExtractor struct{ spans []model.Span }

func (b brokenExtractor) ExtractComments(text string) iter.Seq[model.Comment] {
	return comments(text, b.spans...)
}

type panickyExtractor struct{}

func (panickyExtractor) ExtractComments(string) iter.Seq[model.Comment] {
	return func(func(model.Comment) bool) { panic("boom") }
}

func TestFilterFailsOpen(t *testing.T) {
	src := "keep me\n"
	cases := map[string]extract.Extractor{
		"invalid spans": brokenExtractor{spans: []model.Span{{Start: 5, End: 2}}},
		"panic":         panickyExtractor{},
	}
	for name, e := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Filter(src, e, Options{})
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got != src {
				t.Fatalf("Filter = %q, want original", got)
			}
		})
	}
}
