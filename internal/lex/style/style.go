// Package style lexes languages whose comments can be described by a small
// table of delimiters: line prefixes, block pairs and string quotes.
package style

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phyten/spellmask/internal/lex"
)

var ErrUnterminatedBlock = errors.New("unterminated block")

// Style describes the comment syntax of a language.
type Style struct {
	LinePrefixes []string
	Blocks       []Block
	StringDelims []string
}

// Block is a delimited region that may span lines. Kind is lex.BlockComment
// for comments and lex.String for multi-line string forms.
type Block struct {
	Start string
	End   string
	Kind  lex.Type
	// LineStartOnly restricts Start to the first non-blank text of a
	// line, as for Ruby's =begin.
	LineStartOnly bool
}

// Scanner returns a lex.NewScanner for st.
func (st Style) Scanner() lex.NewScanner {
	return func(readLine lex.ReadLine) lex.Scanner {
		return &scanner{style: st, readLine: readLine, needLine: true}
	}
}

type openBlock struct {
	pattern Block
	start   lex.Pos
	text    strings.Builder
}

type scanner struct {
	style    Style
	readLine lex.ReadLine

	line     string
	lineno   int
	col      int
	needLine bool
	block    *openBlock
	pending  []lex.Step
	done     bool
}

func (s *scanner) Next() lex.Step {
	for {
		if len(s.pending) > 0 {
			step := s.pending[0]
			s.pending = s.pending[1:]
			return step
		}
		if s.done {
			return lex.EndStep
		}
		if s.needLine && !s.advance() {
			continue
		}
		if s.block != nil {
			if step, ok := s.continueBlock(); ok {
				return step
			}
			continue
		}
		if step, ok := s.scanLine(); ok {
			return step
		}
	}
}

func (s *scanner) advance() bool {
	line, err := s.readLine()
	if err != nil {
		s.done = true
		if !errors.Is(err, io.EOF) {
			s.pending = append(s.pending, lex.ErrorStep(err))
			return false
		}
		if s.block != nil {
			tok := s.blockToken(lex.Pos{Line: s.lineno, Col: len(s.line)}, "")
			s.pending = append(s.pending,
				lex.TokenStep(tok),
				lex.ErrorStep(fmt.Errorf("%w %q at %v", ErrUnterminatedBlock, s.block.pattern.Start, s.block.start)))
			s.block = nil
		}
		return false
	}
	s.line = line
	s.lineno++
	s.col = 0
	s.needLine = false
	return true
}

func (s *scanner) continueBlock() (lex.Step, bool) {
	idx := strings.Index(s.line, s.block.pattern.End)
	if idx < 0 {
		s.block.text.WriteString(s.line)
		s.needLine = true
		return lex.Step{}, false
	}
	end := idx + len(s.block.pattern.End)
	s.block.text.WriteString(s.line[:end])
	tok := s.blockToken(lex.Pos{Line: s.lineno, Col: end}, s.block.pattern.End)
	s.block = nil
	s.col = end
	return lex.TokenStep(tok), true
}

func (s *scanner) blockToken(end lex.Pos, close string) lex.Token {
	return lex.Token{
		Type:  s.block.pattern.Kind,
		Text:  s.block.text.String(),
		Open:  s.block.pattern.Start,
		Close: close,
		Start: s.block.start,
		End:   end,
	}
}

// scanLine finds the leftmost comment, block or string at or after the
// current column.
func (s *scanner) scanLine() (lex.Step, bool) {
	body := strings.TrimRight(s.line, "\r\n")
	for i := s.col; i < len(body); i++ {
		if b, ok := s.blockAt(body, i); ok {
			return s.startBlock(body, i, b), true
		}
		if prefix, ok := hasAnyPrefix(body[i:], s.style.LinePrefixes); ok {
			s.col = len(body)
			return lex.TokenStep(lex.Token{
				Type:  lex.LineComment,
				Text:  body[i:],
				Open:  prefix,
				Start: lex.Pos{Line: s.lineno, Col: i},
				End:   lex.Pos{Line: s.lineno, Col: len(body)},
			}), true
		}
		if delim, ok := hasAnyPrefix(body[i:], s.style.StringDelims); ok {
			if isEscaped(body, i) {
				continue
			}
			end := findClosingDelimiter(body, i+len(delim), delim)
			if end < 0 {
				// A stray quote: skip it so later comments on the line are
				// still found.
				s.col = i + len(delim)
				s.pending = append(s.pending, lex.ErrorStep(fmt.Errorf("unterminated string %q at %v", delim, lex.Pos{Line: s.lineno, Col: i})))
				return lex.Step{}, false
			}
			s.col = end + len(delim)
			return lex.TokenStep(lex.Token{
				Type:  lex.String,
				Text:  body[i:s.col],
				Open:  delim,
				Close: delim,
				Start: lex.Pos{Line: s.lineno, Col: i},
				End:   lex.Pos{Line: s.lineno, Col: s.col},
			}), true
		}
	}
	s.needLine = true
	return lex.Step{}, false
}

func (s *scanner) blockAt(body string, i int) (Block, bool) {
	for _, b := range s.style.Blocks {
		if !strings.HasPrefix(body[i:], b.Start) {
			continue
		}
		if b.LineStartOnly && strings.TrimLeft(body[:i], " \t") != "" {
			continue
		}
		return b, true
	}
	return Block{}, false
}

func (s *scanner) startBlock(body string, i int, b Block) lex.Step {
	start := lex.Pos{Line: s.lineno, Col: i}
	from := i + len(b.Start)
	if idx := strings.Index(body[from:], b.End); idx >= 0 {
		end := from + idx + len(b.End)
		s.col = end
		return lex.TokenStep(lex.Token{
			Type:  b.Kind,
			Text:  body[i:end],
			Open:  b.Start,
			Close: b.End,
			Start: start,
			End:   lex.Pos{Line: s.lineno, Col: end},
		})
	}
	s.block = &openBlock{pattern: b, start: start}
	s.block.text.WriteString(s.line[i:])
	s.needLine = true
	return s.Next()
}

func hasAnyPrefix(s string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}

func findClosingDelimiter(line string, start int, delim string) int {
	if len(delim) == 0 {
		return -1
	}
	if len(delim) == 1 {
		target := delim[0]
		for i := start; i < len(line); i++ {
			if line[i] != target {
				continue
			}
			if isEscaped(line, i) {
				continue
			}
			return i
		}
		return -1
	}
	idx := strings.Index(line[start:], delim)
	if idx < 0 {
		return -1
	}
	return start + idx
}

func isEscaped(line string, pos int) bool {
	if pos == 0 {
		return false
	}
	count := 0
	for i := pos - 1; i >= 0; i-- {
		if line[i] != '\\' {
			break
		}
		count++
	}
	return count%2 == 1
}
