package debuglog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestNilTracerIsSilent(t *testing.T) {
	var tr *Tracer
	tr.Printf("x %d", 1)
	tr.Dump("config", map[string]int{"a": 1})
	tr.Block("input", "text")
	tr.Preview("body", "text")
	tr.ScanError("go", errors.New("boom"))
	tr.Ignore(regexp.MustCompile(`\d+`), "12")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close on nil tracer: %v", err)
	}
}

func TestOpenExpandsTimestamp(t *testing.T) {
	dir := t.TempDir()
	now := time.Unix(1700000000, 0)
	tr, err := Open(filepath.Join(dir, "trace-{}.log"), now)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tr.Printf("hello")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "trace-1700000000.log"))
	if err != nil {
		t.Fatalf("trace file missing: %v", err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("trace = %q", data)
	}
}

func TestOpenEmptyPattern(t *testing.T) {
	tr, err := Open("  ", time.Now())
	if err != nil || tr != nil {
		t.Fatalf("Open(\"\") = %v, %v; want nil, nil", tr, err)
	}
}

func TestTracerFormats(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)
	tr.Dump("filterConfig", map[string][]string{"ignoreRegexps": {"a"}})
	tr.Preview("input", "one\ntwo")
	tr.ScanError("python", errors.New("EOF in multi-line statement"))
	tr.Ignore(regexp.MustCompile(`\d+`), "12345")
	out := buf.String()
	for _, want := range []string{
		"filterConfig:\n" + rule + "\nignoreRegexps:\n    - a\n" + rule,
		`input: [one\ntwo] (7 bytes)`,
		"scan python: EOF in multi-line statement",
		`ignore \d+: [12345]`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("trace missing %q:\n%s", want, out)
		}
	}
}
