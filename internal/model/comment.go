package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariantViolation reports a comment sequence that is out of order,
	// overlapping or out of bounds for its source text.
	ErrInvariantViolation = errors.New("comment span invariant violated")

	// ErrInvalidPattern reports an ignore pattern that failed to compile.
	ErrInvalidPattern = errors.New("invalid ignore pattern")
)

// Span is a half-open byte range [Start, End) of the source text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Start, s.End) }

// Comment is one comment-like region found by an extractor.
//
// Code covers the whole lexical token including delimiters; Text is the part
// that is handed to the spell checker. Multiline marks regions derived from
// triple-quoted strings rather than comment markers.
type Comment struct {
	Source    string
	Text      Span
	Code      Span
	Multiline bool
}

// Body returns the source bytes covered by the comment's text span.
func (c Comment) Body() string {
	if c.Text.Start < 0 || c.Text.End > len(c.Source) || c.Text.Start > c.Text.End {
		return ""
	}
	return c.Source[c.Text.Start:c.Text.End]
}

// Valid checks the per-comment invariants: ordered spans, Text within Code,
// and both within the source.
func (c Comment) Valid() error {
	switch {
	case c.Code.Start < 0 || c.Code.Start > c.Code.End:
		return fmt.Errorf("%w: code span %v", ErrInvariantViolation, c.Code)
	case c.Text.Start > c.Text.End:
		return fmt.Errorf("%w: text span %v", ErrInvariantViolation, c.Text)
	case !c.Code.Contains(c.Text):
		return fmt.Errorf("%w: text span %v outside code span %v", ErrInvariantViolation, c.Text, c.Code)
	case c.Code.End > len(c.Source):
		return fmt.Errorf("%w: code span %v beyond text length %d", ErrInvariantViolation, c.Code, len(c.Source))
	}
	return nil
}
