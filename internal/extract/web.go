package extract

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"github.com/tdewolff/parse/v2/js"
	"golang.org/x/net/html"

	"github.com/phyten/spellmask/internal/model"
)

// The tdewolff lexers and the html tokenizer return every byte of input in
// some token, so offsets are the running sum of token lengths.

// CSS extracts /* */ comments from style sheets.
func CSS(onError func(error)) Extractor {
	return Func(func(text string) iter.Seq[model.Comment] {
		return func(yield func(model.Comment) bool) {
			l := css.NewLexer(parse.NewInputString(text))
			lexErr := lexErrors{onError: onError}
			offset := 0
			for {
				tt, data := l.Next()
				if tt == css.ErrorToken {
					if !lexErr.resume(l.Err(), len(data)) {
						return
					}
					offset += len(data)
					continue
				}
				lexErr.stalled = 0
				start := offset
				offset += len(data)
				if tt != css.CommentToken {
					continue
				}
				if !yield(delimited(text, start, offset, "/*", "*/")) {
					return
				}
			}
		}
	})
}

// JS extracts line and block comments from JavaScript and TypeScript.
// Regular expression literals containing comment markers may be misread.
func JS(onError func(error)) Extractor {
	return Func(func(text string) iter.Seq[model.Comment] {
		return func(yield func(model.Comment) bool) {
			l := js.NewLexer(parse.NewInputString(text))
			lexErr := lexErrors{onError: onError}
			offset := 0
			for {
				tt, data := l.Next()
				if tt == js.ErrorToken {
					if !lexErr.resume(l.Err(), len(data)) {
						return
					}
					offset += len(data)
					continue
				}
				lexErr.stalled = 0
				start := offset
				offset += len(data)
				if tt != js.CommentToken && tt != js.CommentLineTerminatorToken {
					continue
				}
				var c model.Comment
				switch {
				case bytes.HasPrefix(data, []byte("//")):
					c = delimited(text, start, offset, "//", "")
				case bytes.HasPrefix(data, []byte("/*")):
					c = delimited(text, start, offset, "/*", "*/")
				default:
					continue
				}
				if !yield(c) {
					return
				}
			}
		}
	})
}

// HTML extracts <!-- --> comments. Bogus comments such as processing
// instructions are left alone.
func HTML(onError func(error)) Extractor {
	return Func(func(text string) iter.Seq[model.Comment] {
		return func(yield func(model.Comment) bool) {
			z := html.NewTokenizer(strings.NewReader(text))
			lexErr := lexErrors{onError: onError}
			offset := 0
			for {
				tt := z.Next()
				if tt == html.ErrorToken {
					n := len(z.Raw())
					if !lexErr.resume(z.Err(), n) {
						return
					}
					offset += n
					continue
				}
				lexErr.stalled = 0
				start := offset
				offset += len(z.Raw())
				if tt != html.CommentToken || !strings.HasPrefix(text[start:offset], "<!--") {
					continue
				}
				if !yield(delimited(text, start, offset, "<!--", "-->")) {
					return
				}
			}
		}
	})
}

// maxStalledErrors bounds the errors in a row that consume no input.
const maxStalledErrors = 8

// lexErrors reports lexer errors and decides whether the scan goes on. The
// JS lexer skips the offending rune and returns it with the error token, so
// scanning resumes after it; EOF ends the scan.
type lexErrors struct {
	onError func(error)
	stalled int
}

func (e *lexErrors) resume(err error, consumed int) bool {
	if err == nil || errors.Is(err, io.EOF) {
		return false
	}
	if e.onError != nil {
		e.onError(err)
	}
	if consumed > 0 {
		e.stalled = 0
		return true
	}
	e.stalled++
	return e.stalled < maxStalledErrors
}

// delimited builds a comment for text[start:end], trimming open and, when
// present, close. An unterminated comment keeps everything after open.
func delimited(text string, start, end int, open, close string) model.Comment {
	code := model.Span{Start: start, End: end}
	inner := model.Span{Start: start + len(open), End: end}
	if inner.Start > end {
		inner.Start = end
	}
	if close != "" && strings.HasSuffix(text[inner.Start:end], close) {
		inner.End = end - len(close)
	}
	return model.Comment{Source: text, Text: inner, Code: code}
}
