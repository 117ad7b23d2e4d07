package lex

import "fmt"

// Type classifies a lexical token. Only the classes the comment extractors
// care about are distinguished; everything else is Other.
type Type int

const (
	Other Type = iota
	LineComment
	BlockComment
	String
)

var typeNames = [...]string{
	Other:        "other",
	LineComment:  "line-comment",
	BlockComment: "block-comment",
	String:       "string",
}

func (t Type) String() string {
	if int(t) < 0 || int(t) >= len(typeNames) {
		return typeNames[Other]
	}
	return typeNames[t]
}

// Pos is a scanner position: 1-based line, 0-based byte column within the line.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Token is one token as reported by a line-oriented scanner.
//
// Open and Close hold the delimiters that enclose the payload of comments and
// strings, e.g. "#" and "" for a Python comment or `r"""` and `"""` for a raw
// docstring. Close is empty when the construct was not terminated.
type Token struct {
	Type  Type
	Text  string
	Open  string
	Close string
	Start Pos
	End   Pos
}

// StepKind is the outcome of a single scan attempt.
type StepKind int

const (
	// StepToken carries the next token.
	StepToken StepKind = iota
	// StepError carries a structural error the scanner recovered from.
	// Drivers skip it and ask for the next step.
	StepError
	// StepEnd means the input is exhausted.
	StepEnd
)

// Step is the tri-state result of Scanner.Next.
type Step struct {
	Kind  StepKind
	Token Token
	Err   error
}

func TokenStep(t Token) Step   { return Step{Kind: StepToken, Token: t} }
func ErrorStep(err error) Step { return Step{Kind: StepError, Err: err} }

// EndStep marks the end of input.
var EndStep = Step{Kind: StepEnd}

// A Scanner produces tokens from a line-oriented read of its input. Once it
// returns StepEnd it must keep doing so.
type Scanner interface {
	Next() Step
}

// ReadLine returns the next line of input including its trailing newline, or
// "" and io.EOF once the input is exhausted.
type ReadLine func() (string, error)

// NewScanner constructs a scanner reading its input through readLine.
type NewScanner func(readLine ReadLine) Scanner
