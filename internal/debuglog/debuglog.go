// Package debuglog writes the optional wrapper trace file. A nil *Tracer is
// valid and discards everything.
package debuglog

import (
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phyten/spellmask/internal/textutil"
)

const (
	rule         = "---------------------------------------------------------"
	previewWidth = 72
)

type Tracer struct {
	l *log.Logger
	c io.Closer
}

// Open creates the trace file named by pattern, with "{}" replaced by the
// Unix time of now. An empty pattern returns a nil Tracer.
func Open(pattern string, now time.Time) (*Tracer, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, nil
	}
	path := strings.ReplaceAll(pattern, "{}", strconv.FormatInt(now.Unix(), 10))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open debug file: %w", err)
	}
	return &Tracer{l: log.New(f, "", 0), c: f}, nil
}

// New traces to w; used by tests and by callers that own the writer.
func New(w io.Writer) *Tracer {
	return &Tracer{l: log.New(w, "", 0)}
}

func (t *Tracer) Close() error {
	if t == nil || t.c == nil {
		return nil
	}
	return t.c.Close()
}

func (t *Tracer) Printf(format string, args ...any) {
	if t == nil {
		return
	}
	t.l.Printf(format, args...)
}

// Dump writes v as YAML between rules.
func (t *Tracer) Dump(title string, v any) {
	if t == nil {
		return
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		t.l.Printf("%s: cannot dump: %v", title, err)
		return
	}
	t.l.Printf("%s:\n%s\n%s%s", title, rule, out, rule)
}

// Block writes s verbatim between rules.
func (t *Tracer) Block(title, s string) {
	if t == nil {
		return
	}
	t.l.Printf("%s:\n%s\n%s\n%s", title, rule, s, rule)
}

// Preview writes a one-line, width-limited rendering of s.
func (t *Tracer) Preview(label, s string) {
	if t == nil {
		return
	}
	t.l.Printf("%s: [%s] (%d bytes)", label, textutil.Preview(s, previewWidth), len(s))
}

// ScanError records an error an extractor skipped over.
func (t *Tracer) ScanError(lang string, err error) {
	if t == nil {
		return
	}
	t.l.Printf("scan %s: %v", lang, err)
}

// Ignore records one ignore pattern replacement.
func (t *Tracer) Ignore(re *regexp.Regexp, match string) {
	if t == nil {
		return
	}
	t.l.Printf("ignore %s: [%s]", re, textutil.Preview(match, previewWidth))
}
