// Package lex turns line-oriented lexical scanners into producers of
// absolute-offset comment spans.
//
// Scanners report positions as (line, column) pairs and may fail partway
// through malformed input. The Adapter keeps the line offset table needed to
// flatten positions, and it skips recoverable scanner errors instead of
// abandoning the scan: the text being spell checked is rarely valid code.
package lex

import (
	"iter"
	"strings"

	"github.com/phyten/spellmask/internal/model"
)

// A scanner that keeps failing without reading input is considered stuck.
const maxConsecutiveErrors = 64

// PosToken is a token with its absolute byte span in the source.
type PosToken struct {
	Token
	Span model.Span
}

// Adapter drives a Scanner over a complete source text.
type Adapter struct {
	New NewScanner

	// OnError, if set, observes every scanner error the adapter discards.
	OnError func(err error)
}

// Tokens returns the positioned tokens of src. The sequence ends at the end
// of input; scanner errors are discarded.
func (a Adapter) Tokens(src string) iter.Seq[PosToken] {
	return func(yield func(PosToken) bool) {
		lr := newLineReader(src)
		sc := a.New(lr.ReadLine)
		errs, mark := 0, lr.pos
		for {
			step := sc.Next()
			switch step.Kind {
			case StepEnd:
				return
			case StepError:
				if a.OnError != nil {
					a.OnError(step.Err)
				}
				if lr.pos != mark {
					errs, mark = 0, lr.pos
				}
				errs++
				if errs >= maxConsecutiveErrors {
					return
				}
				continue
			}
			errs, mark = 0, lr.pos
			tok := step.Token
			start, end := lr.Offset(tok.Start), lr.Offset(tok.End)
			if end < start {
				end = start
			}
			if !yield(PosToken{Token: tok, Span: model.Span{Start: start, End: end}}) {
				return
			}
		}
	}
}

// Comments returns the comments of src, in source order.
func (a Adapter) Comments(src string) iter.Seq[model.Comment] {
	return func(yield func(model.Comment) bool) {
		for tok := range a.Tokens(src) {
			c, ok := Recognize(src, tok)
			if !ok {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// Recognize maps a token onto a comment. Line and block comments are shrunk
// by their delimiters; strings qualify only when opened by a triple quote, in
// which case they are reported as multiline comments.
func Recognize(src string, t PosToken) (model.Comment, bool) {
	var multiline bool
	switch t.Type {
	case LineComment, BlockComment:
	case String:
		if !IsTripleQuoted(t.Open) {
			return model.Comment{}, false
		}
		multiline = true
	default:
		return model.Comment{}, false
	}
	code := t.Span
	text := model.Span{Start: code.Start + len(t.Open), End: code.End - len(t.Close)}
	if text.Start > code.End {
		text.Start = code.End
	}
	if text.End < text.Start {
		text.End = text.Start
	}
	return model.Comment{Source: src, Text: text, Code: code, Multiline: multiline}, true
}

// IsTripleQuoted reports whether a string's opening delimiter, prefix
// letters included, ends in a triple quote.
func IsTripleQuoted(open string) bool {
	return strings.HasSuffix(open, `"""`) || strings.HasSuffix(open, `'''`)
}
