package pylex_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phyten/spellmask/internal/lex"
	"github.com/phyten/spellmask/internal/lex/pylex"
	"github.com/phyten/spellmask/internal/model"
)

type scanResult struct {
	comments []model.Comment
	errs     []error
}

func scan(src string) scanResult {
	var res scanResult
	a := lex.Adapter{New: pylex.New, OnError: func(err error) { res.errs = append(res.errs, err) }}
	for c := range a.Comments(src) {
		res.comments = append(res.comments, c)
	}
	return res
}

func bodies(cs []model.Comment) []string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Body())
	}
	return out
}

func TestTolerantScanOfUnterminatedStatement(t *testing.T) {
	src := "# ok\nx = (\n"
	res := scan(src)
	want := []model.Comment{{Source: src, Text: model.Span{Start: 1, End: 4}, Code: model.Span{Start: 0, End: 4}}}
	if diff := cmp.Diff(want, res.comments); diff != "" {
		t.Fatalf("comments mismatch (-want +got):\n%s", diff)
	}
	if len(res.errs) != 1 || !errors.Is(res.errs[0], pylex.ErrEOFInStatement) {
		t.Fatalf("errors = %v, want one ErrEOFInStatement", res.errs)
	}
}

func TestCommentsAndDocstrings(t *testing.T) {
	src := "def f():\n" +
		"    \"\"\"Doc string.\"\"\"\n" +
		"    return \"#not\"  # real\n"
	res := scan(src)
	if diff := cmp.Diff([]string{"Doc string.", " real"}, bodies(res.comments)); diff != "" {
		t.Fatalf("bodies mismatch (-want +got):\n%s", diff)
	}
	if !res.comments[0].Multiline || res.comments[1].Multiline {
		t.Fatalf("multiline flags = %v, %v", res.comments[0].Multiline, res.comments[1].Multiline)
	}
	if len(res.errs) != 0 {
		t.Fatalf("unexpected errors: %v", res.errs)
	}
}

func TestMultilineStringSpansLines(t *testing.T) {
	src := "x = \"\"\"a\nb\"\"\"\ny = 1\n"
	res := scan(src)
	if len(res.comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(res.comments))
	}
	c := res.comments[0]
	if c.Body() != "a\nb" {
		t.Fatalf("Body() = %q", c.Body())
	}
	if got := src[c.Code.Start:c.Code.End]; got != "\"\"\"a\nb\"\"\"" {
		t.Fatalf("code = %q", got)
	}
}

func TestPrefixedAndSingleQuotedTripleStrings(t *testing.T) {
	res := scan("a = r'''raw'''\nb = f\"\"\"fmt {x}\"\"\"\nc = b'bytes'\n")
	if diff := cmp.Diff([]string{"raw", "fmt {x}"}, bodies(res.comments)); diff != "" {
		t.Fatalf("bodies mismatch (-want +got):\n%s", diff)
	}
}

func TestUnterminatedDocstringKeepsPartialBody(t *testing.T) {
	src := "\"\"\"abc\n# not a comment\n"
	res := scan(src)
	if diff := cmp.Diff([]string{"abc\n# not a comment\n"}, bodies(res.comments)); diff != "" {
		t.Fatalf("bodies mismatch (-want +got):\n%s", diff)
	}
	if len(res.errs) != 1 || !errors.Is(res.errs[0], pylex.ErrEOFInString) {
		t.Fatalf("errors = %v, want ErrEOFInString", res.errs)
	}
}

func TestUnterminatedStringRecoversOnNextLine(t *testing.T) {
	res := scan("s = 'abc\n# after\n")
	if diff := cmp.Diff([]string{" after"}, bodies(res.comments)); diff != "" {
		t.Fatalf("bodies mismatch (-want +got):\n%s", diff)
	}
	if len(res.errs) != 1 || !errors.Is(res.errs[0], pylex.ErrUnterminated) {
		t.Fatalf("errors = %v, want ErrUnterminated", res.errs)
	}
}

func TestEscapedNewlineContinuesString(t *testing.T) {
	res := scan("s = \"abc\\\n# def\"  # c\n")
	if diff := cmp.Diff([]string{" c"}, bodies(res.comments)); diff != "" {
		t.Fatalf("bodies mismatch (-want +got):\n%s", diff)
	}
}

func TestHashInsideStringIsNotComment(t *testing.T) {
	res := scan("s = \"# no\"\nt = '# nope'\n")
	if len(res.comments) != 0 {
		t.Fatalf("got comments %v, want none", bodies(res.comments))
	}
}

func TestBackslashContinuationAtEOF(t *testing.T) {
	res := scan("x = 1 + \\\n")
	if len(res.errs) != 1 || !errors.Is(res.errs[0], pylex.ErrEOFInStatement) {
		t.Fatalf("errors = %v, want ErrEOFInStatement", res.errs)
	}
}

func TestLoneCarriageReturnIsNotLineEnd(t *testing.T) {
	src := "a\rb  # note\r\nc = 1  # crlf\r\n"
	res := scan(src)
	if diff := cmp.Diff([]string{" note", " crlf"}, bodies(res.comments)); diff != "" {
		t.Fatalf("bodies mismatch (-want +got):\n%s", diff)
	}
	if len(res.errs) != 0 {
		t.Fatalf("errors = %v, want none", res.errs)
	}
}

func TestEmptyInput(t *testing.T) {
	res := scan("")
	if len(res.comments) != 0 || len(res.errs) != 0 {
		t.Fatalf("got %v / %v, want nothing", res.comments, res.errs)
	}
}
