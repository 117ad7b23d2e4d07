// Package mask blanks everything but comment text so a spell checker sees
// only prose, while byte offsets and line layout stay those of the source.
package mask

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phyten/spellmask/internal/extract"
	"github.com/phyten/spellmask/internal/model"
)

// Options tune a Filter run.
type Options struct {
	// Ignores are applied to every comment body in order; each match is
	// replaced by spaces of the same byte length.
	Ignores []*regexp.Regexp

	// OnIgnore, if set, observes each ignore replacement.
	OnIgnore func(re *regexp.Regexp, match string)
}

// CompileIgnores compiles ignore patterns in multi-line mode.
func CompileIgnores(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?m)" + p)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", model.ErrInvalidPattern, p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Mask keeps the text span of every comment, with ignore matches blanked,
// and replaces every other non-whitespace byte of text by a space. Comments
// must arrive in source order without overlapping text spans.
func Mask(text string, comments iter.Seq[model.Comment], ignores []*regexp.Regexp) (string, error) {
	return mask(text, comments, Options{Ignores: ignores})
}

func mask(text string, comments iter.Seq[model.Comment], opts Options) (string, error) {
	var b strings.Builder
	b.Grow(len(text))
	codeEnd := 0
	for c := range comments {
		switch {
		case c.Text.Start < codeEnd:
			return "", fmt.Errorf("%w: text span %v starts before %d", model.ErrInvariantViolation, c.Text, codeEnd)
		case c.Text.End < c.Text.Start:
			return "", fmt.Errorf("%w: text span %v is reversed", model.ErrInvariantViolation, c.Text)
		case c.Text.End > len(text):
			return "", fmt.Errorf("%w: text span %v beyond text length %d", model.ErrInvariantViolation, c.Text, len(text))
		}
		blank(&b, text[codeEnd:c.Text.Start])
		b.WriteString(applyIgnores(text[c.Text.Start:c.Text.End], opts))
		codeEnd = c.Text.End
	}
	blank(&b, text[codeEnd:])
	return b.String(), nil
}

// blank writes s with each byte of a non-whitespace rune turned into a space.
func blank(b *strings.Builder, s string) {
	for len(s) > 0 {
		r, n := utf8.DecodeRuneInString(s)
		if r != utf8.RuneError && unicode.IsSpace(r) {
			b.WriteString(s[:n])
		} else {
			b.WriteString(strings.Repeat(" ", n))
		}
		s = s[n:]
	}
}

func applyIgnores(body string, opts Options) string {
	for _, re := range opts.Ignores {
		body = re.ReplaceAllStringFunc(body, func(m string) string {
			if opts.OnIgnore != nil {
				opts.OnIgnore(re, m)
			}
			return strings.Repeat(" ", len(m))
		})
	}
	return body
}

// Filter masks text with the comments e finds. Aspell terse payloads are
// unwrapped first and wrapped again afterwards. On any failure Filter
// returns text unchanged together with the error.
func Filter(text string, e extract.Extractor, opts Options) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = text, fmt.Errorf("mask: extractor panic: %v", r)
		}
	}()
	body := text
	terse := IsTerse(text)
	if terse {
		body = DecodeTerse(text)
	}
	masked, err := mask(body, e.ExtractComments(body), opts)
	if err != nil {
		return text, err
	}
	if terse {
		return EncodeTerse(masked), nil
	}
	return masked, nil
}
