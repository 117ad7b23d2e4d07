package extract

import (
	"fmt"
	"go/scanner"
	"go/token"
	"iter"
	"strings"

	"github.com/phyten/spellmask/internal/model"
)

// Go extracts // and /* */ comments with the standard Go scanner.
func Go(onError func(error)) Extractor {
	return Func(func(text string) iter.Seq[model.Comment] {
		return func(yield func(model.Comment) bool) {
			src := []byte(text)
			fset := token.NewFileSet()
			file := fset.AddFile("", fset.Base(), len(src))
			var s scanner.Scanner
			s.Init(file, src, func(pos token.Position, msg string) {
				if onError != nil {
					onError(fmt.Errorf("%d:%d: %s", pos.Line, pos.Column, msg))
				}
			}, scanner.ScanComments)
			for {
				pos, tok, _ := s.Scan()
				if tok == token.EOF {
					return
				}
				if tok != token.COMMENT {
					continue
				}
				if !yield(goComment(text, file.Offset(pos))) {
					return
				}
			}
		}
	})
}

// goComment measures the comment at start from the source itself; the
// scanner's literal has carriage returns removed.
func goComment(text string, start int) model.Comment {
	c := model.Comment{Source: text}
	if strings.HasPrefix(text[start:], "//") {
		end := len(text)
		if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
			end = start + i
		}
		end = start + len(strings.TrimRight(text[start:end], "\r"))
		c.Code = model.Span{Start: start, End: end}
		c.Text = model.Span{Start: start + 2, End: end}
		return c
	}
	if i := strings.Index(text[start+2:], "*/"); i >= 0 {
		end := start + 2 + i + 2
		c.Code = model.Span{Start: start, End: end}
		c.Text = model.Span{Start: start + 2, End: end - 2}
		return c
	}
	c.Code = model.Span{Start: start, End: len(text)}
	c.Text = model.Span{Start: start + 2, End: len(text)}
	return c
}
