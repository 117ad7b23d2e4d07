package lex

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// lineReader feeds a scanner one line at a time and remembers where every
// line started, so (line, column) positions can be turned back into absolute
// offsets.
type lineReader struct {
	r    *bufio.Reader
	size int
	pos  int   // stream position of the next unread byte
	line []int // line[n] is the offset of line n (1-based); line[0] is a 0 sentinel
}

func newLineReader(src string) *lineReader {
	return &lineReader{
		r:    bufio.NewReader(strings.NewReader(src)),
		size: len(src),
		line: []int{0},
	}
}

// ReadLine records the current stream position as the start of the next
// line, then reads that line.
func (lr *lineReader) ReadLine() (string, error) {
	lr.line = append(lr.line, lr.pos)
	text, err := lr.r.ReadString('\n')
	lr.pos += len(text)
	if errors.Is(err, io.EOF) {
		if text == "" {
			return "", io.EOF
		}
		return text, nil
	}
	return text, err
}

// Offset converts a scanner position into an absolute offset clamped to the
// bounds of the input.
func (lr *lineReader) Offset(p Pos) int {
	if p.Line <= 0 {
		return 0
	}
	if p.Line >= len(lr.line) {
		return lr.size
	}
	off := lr.line[p.Line] + p.Col
	switch {
	case off < 0:
		return 0
	case off > lr.size:
		return lr.size
	}
	return off
}
