package extract

import (
	"iter"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/phyten/spellmask/internal/model"
)

var markdownOptions = []goldmark.Option{
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
	),
}

// Markdown extracts prose from a markdown document. Each text segment is a
// comment; code, raw HTML, autolinks and link destinations are left out.
func Markdown() Extractor {
	md := goldmark.New(markdownOptions...)
	return Func(func(src string) iter.Seq[model.Comment] {
		return func(yield func(model.Comment) bool) {
			doc := md.Parser().Parse(text.NewReader([]byte(src)))
			var spans []model.Span
			_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if !entering {
					return ast.WalkContinue, nil
				}
				switch n := n.(type) {
				case *ast.CodeSpan, *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML, *ast.AutoLink:
					return ast.WalkSkipChildren, nil
				case *ast.Text:
					if seg := n.Segment; seg.Stop > seg.Start {
						spans = append(spans, model.Span{Start: seg.Start, End: seg.Stop})
					}
				}
				return ast.WalkContinue, nil
			})
			sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
			last := 0
			for _, sp := range spans {
				if sp.Start < last || sp.End > len(src) {
					continue
				}
				last = sp.End
				if !yield(model.Comment{Source: src, Text: sp, Code: sp}) {
					return
				}
			}
		}
	})
}
