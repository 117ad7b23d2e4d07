package model

import (
	"errors"
	"testing"
)

func TestCommentBody(t *testing.T) {
	src := "x = 1  # set x\n"
	c := Comment{Source: src, Text: Span{Start: 8, End: 14}, Code: Span{Start: 7, End: 14}}
	if got := c.Body(); got != " set x" {
		t.Fatalf("Body() = %q, want %q", got, " set x")
	}
	if err := c.Valid(); err != nil {
		t.Fatalf("Valid() = %v, want nil", err)
	}
}

func TestCommentValidRejectsBadSpans(t *testing.T) {
	src := "abc"
	cases := map[string]Comment{
		"reversed code":   {Source: src, Code: Span{Start: 2, End: 1}, Text: Span{Start: 2, End: 2}},
		"text outside":    {Source: src, Code: Span{Start: 1, End: 2}, Text: Span{Start: 0, End: 2}},
		"beyond source":   {Source: src, Code: Span{Start: 0, End: 9}, Text: Span{Start: 0, End: 1}},
		"reversed text":   {Source: src, Code: Span{Start: 0, End: 3}, Text: Span{Start: 2, End: 1}},
		"negative offset": {Source: src, Code: Span{Start: -1, End: 1}, Text: Span{Start: 0, End: 1}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := c.Valid()
			if !errors.Is(err, ErrInvariantViolation) {
				t.Fatalf("Valid() = %v, want ErrInvariantViolation", err)
			}
		})
	}
}

func TestSpanString(t *testing.T) {
	if got := (Span{Start: 3, End: 7}).String(); got != "3..7" {
		t.Fatalf("String() = %q", got)
	}
	if got := (Span{Start: 3, End: 7}).Len(); got != 4 {
		t.Fatalf("Len() = %d", got)
	}
}
