// Package pylex is a line-oriented lexer for Python source.
//
// It recognizes just enough of the language to delimit comments and string
// literals reliably: comments, prefixed and triple-quoted strings (including
// strings spanning lines), bracket nesting and backslash continuations.
// Structural problems are reported as recoverable errors and lexing resumes.
package pylex

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phyten/spellmask/internal/lex"
)

var (
	ErrEOFInString    = errors.New("EOF in multi-line string")
	ErrEOFInStatement = errors.New("EOF in multi-line statement")
	ErrUnterminated   = errors.New("unterminated string literal")
)

// openString is a string literal that continues past the end of a line.
type openString struct {
	start lex.Pos
	open  string
	delim string
	text  strings.Builder
}

type scanner struct {
	readLine lex.ReadLine

	line     string
	lineno   int
	col      int
	needLine bool
	depth    int  // bracket nesting
	joined   bool // previous line ended in a backslash continuation
	str      *openString
	pending  []lex.Step
	done     bool
}

// New returns a Python scanner reading its input through readLine.
func New(readLine lex.ReadLine) lex.Scanner {
	return &scanner{readLine: readLine, needLine: true}
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
		if s.needLine {
			if !s.advance() {
				continue
			}
			if s.str != nil {
				if step, ok := s.continueString(); ok {
					return step
				}
				continue
			}
		}
		if step, ok := s.scanToken(); ok {
			return step
		}
	}
}

// advance reads the next line. At the end of input it queues whatever the
// open constructs require and reports false.
func (s *scanner) advance() bool {
	line, err := s.readLine()
	if err != nil {
		s.done = true
		if !errors.Is(err, io.EOF) {
			s.pending = append(s.pending, lex.ErrorStep(err))
			return false
		}
		pos := lex.Pos{Line: s.lineno + 1}
		switch {
		case s.str != nil:
			s.pending = append(s.pending,
				lex.TokenStep(s.stringToken(lex.Pos{Line: s.lineno, Col: len(s.line)}, "")),
				lex.ErrorStep(fmt.Errorf("%w at %v", ErrEOFInString, s.str.start)))
			s.str = nil
		case s.depth > 0 || s.joined:
			s.pending = append(s.pending, lex.ErrorStep(fmt.Errorf("%w at %v", ErrEOFInStatement, pos)))
		}
		return false
	}
	s.line = line
	s.lineno++
	s.col = 0
	s.needLine = false
	s.joined = false
	return true
}

func (s *scanner) continueString() (lex.Step, bool) {
	idx, escapedEOL := findClose(s.line, 0, s.str.delim)
	if idx < 0 {
		if len(s.str.delim) == 1 && !escapedEOL {
			// A single-quoted string may only continue through an escaped
			// newline.
			s.str.text.WriteString(trimEOL(s.line))
			tok := s.stringToken(lex.Pos{Line: s.lineno, Col: len(trimEOL(s.line))}, "")
			start := s.str.start
			s.str = nil
			s.col = len(trimEOL(s.line))
			s.pending = append(s.pending, lex.ErrorStep(fmt.Errorf("%w at %v", ErrUnterminated, start)))
			return lex.TokenStep(tok), true
		}
		s.str.text.WriteString(s.line)
		s.needLine = true
		return lex.Step{}, false
	}
	end := idx + len(s.str.delim)
	s.str.text.WriteString(s.line[:end])
	tok := s.stringToken(lex.Pos{Line: s.lineno, Col: end}, s.str.delim)
	s.str = nil
	s.col = end
	return lex.TokenStep(tok), true
}

func (s *scanner) stringToken(end lex.Pos, close string) lex.Token {
	return lex.Token{
		Type:  lex.String,
		Text:  s.str.text.String(),
		Open:  s.str.open,
		Close: close,
		Start: s.str.start,
		End:   end,
	}
}

// scanToken scans one token starting at the current column. It reports false
// when the line is exhausted without producing a token.
func (s *scanner) scanToken() (lex.Step, bool) {
	line := s.line
	for s.col < len(line) && isBlank(line[s.col]) {
		s.col++
	}
	if atEOL(line, s.col) {
		s.needLine = true
		return lex.Step{}, false
	}
	start := lex.Pos{Line: s.lineno, Col: s.col}
	ch := line[s.col]

	switch {
	case ch == '\\' && s.col+1 < len(line) && atEOL(line, s.col+1):
		s.joined = true
		s.needLine = true
		return lex.Step{}, false

	case ch == '#':
		text := trimEOL(line[s.col:])
		s.col += len(text)
		return lex.TokenStep(lex.Token{
			Type:  lex.LineComment,
			Text:  text,
			Open:  "#",
			Start: start,
			End:   lex.Pos{Line: s.lineno, Col: s.col},
		}), true
	}

	if n, ok := stringPrefix(line, s.col); ok {
		return s.scanString(start, n), true
	}

	switch {
	case isNameByte(ch):
		end := s.col
		for end < len(line) && (isNameByte(line[end]) || (line[end] == '.' && isDigit(ch))) {
			end++
		}
		return s.other(start, end), true
	case ch == '(' || ch == '[' || ch == '{':
		s.depth++
	case ch == ')' || ch == ']' || ch == '}':
		if s.depth > 0 {
			s.depth--
		}
	}
	return s.other(start, s.col+1), true
}

func (s *scanner) other(start lex.Pos, end int) lex.Step {
	text := s.line[s.col:end]
	s.col = end
	return lex.TokenStep(lex.Token{
		Type:  lex.Other,
		Text:  text,
		Start: start,
		End:   lex.Pos{Line: s.lineno, Col: end},
	})
}

// scanString scans a string literal whose prefix is n bytes long.
func (s *scanner) scanString(start lex.Pos, n int) lex.Step {
	line := s.line
	q := line[s.col+n]
	delim := string(q)
	if strings.HasPrefix(line[s.col+n:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	open := line[s.col : s.col+n+len(delim)]
	bodyStart := s.col + len(open)

	idx, escapedEOL := findClose(line, bodyStart, delim)
	if idx >= 0 {
		end := idx + len(delim)
		text := line[s.col:end]
		s.col = end
		return lex.TokenStep(lex.Token{
			Type:  lex.String,
			Text:  text,
			Open:  open,
			Close: delim,
			Start: start,
			End:   lex.Pos{Line: s.lineno, Col: end},
		})
	}
	if len(delim) == 3 || escapedEOL {
		s.str = &openString{start: start, open: open, delim: delim}
		s.str.text.WriteString(line[s.col:])
		s.needLine = true
		return s.Next()
	}

	text := trimEOL(line[s.col:])
	s.col += len(text)
	s.pending = append(s.pending, lex.ErrorStep(fmt.Errorf("%w at %v", ErrUnterminated, start)))
	return lex.TokenStep(lex.Token{
		Type:  lex.String,
		Text:  text,
		Open:  open,
		Start: start,
		End:   lex.Pos{Line: s.lineno, Col: s.col},
	})
}

// findClose finds delim in line at or after from, skipping backslash
// escapes. escapedEOL reports whether a backslash escaped the line ending.
func findClose(line string, from int, delim string) (idx int, escapedEOL bool) {
	for i := from; i < len(line); i++ {
		if line[i] == '\\' {
			if i+1 < len(line) && atEOL(line, i+1) {
				escapedEOL = true
			}
			i++
			continue
		}
		if strings.HasPrefix(line[i:], delim) {
			return i, false
		}
	}
	return -1, escapedEOL
}

// stringPrefix reports whether a string literal starts at col, and the length
// of its prefix letters (r, b, u, f, t in any case, at most two).
func stringPrefix(line string, col int) (int, bool) {
	i := col
	for i < len(line) && i-col < 2 && isPrefixByte(line[i]) {
		i++
	}
	if i < len(line) && (line[i] == '"' || line[i] == '\'') {
		return i - col, true
	}
	return 0, false
}

func trimEOL(s string) string { return strings.TrimRight(s, "\r\n") }

// atEOL reports whether line ends at i. A lone '\r' inside a line is text.
func atEOL(line string, i int) bool {
	switch {
	case i >= len(line):
		return true
	case line[i] == '\n':
		return true
	case line[i] == '\r':
		return i+1 == len(line) || line[i+1] == '\n'
	}
	return false
}

func isBlank(ch byte) bool { return ch == ' ' || ch == '\t' || ch == '\f' }

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isNameByte(ch byte) bool {
	return ch == '_' || ch >= 0x80 || isDigit(ch) ||
		('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isPrefixByte(ch byte) bool {
	switch ch {
	case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F', 't', 'T':
		return true
	}
	return false
}
