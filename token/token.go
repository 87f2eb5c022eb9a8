// Package token defines the lexeme and token-class types shared by the lex,
// parse, and glr packages.
package token

import (
	"fmt"
	"strings"
)

// Class identifies the lexical category of a Token. Two classes are equal iff
// their IDs are equal.
type Class interface {
	// ID uniquely identifies the class among all classes used by one
	// tokenizer.
	ID() string

	// Human is a human-readable name for the class, used in error messages.
	Human() string

	Equal(o any) bool
}

type simpleClass string

func (c simpleClass) ID() string { return strings.ToLower(string(c)) }

func (c simpleClass) Human() string { return string(c) }

func (c simpleClass) Equal(o any) bool {
	other, ok := o.(Class)
	if !ok {
		otherPtr, ok := o.(*Class)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return other.ID() == c.ID()
}

// Reserved sentinel classes. Every tokenizer configuration reserves these
// four IDs regardless of the patterns the user supplies.
const (
	Undefined = simpleClass("undefined_token")

	// End is emitted once the stream is exhausted.
	End = simpleClass("$")

	// Error is emitted when the scanner meets a byte no pattern accepts, or
	// stalls on a zero-length match; the stream then latches.
	Error = simpleClass("error")

	// Ignore is the reserved class name a tokenizer configuration uses to
	// mark patterns whose matches should be discarded rather than surfaced
	// (e.g. whitespace, comments).
	Ignore = simpleClass("IGNORE")
)

// NewClass returns a Class whose ID is the lower-cased form of s and whose
// Human name is s unmodified.
func NewClass(s string) Class {
	return simpleClass(s)
}

// Token is a lexeme read from text, together with enough positional
// information to report errors against it.
type Token interface {
	Class() Class
	Lexeme() string

	// LinePos is the 1-indexed column the token starts at.
	LinePos() int

	// Line is the 1-indexed line number the token appears on.
	Line() int

	// FullLine is the complete text of the source line the token appears on.
	FullLine() string

	String() string
}

// Stream is a pull-driven sequence of tokens read from source text, lazily
// advancing as tokens are consumed.
type Stream interface {
	// Next returns the current look-ahead token and advances past it.
	Next() Token

	// Peek returns the current look-ahead token without advancing.
	Peek() Token

	HasNext() bool
}

type simpleToken struct {
	class    Class
	lexeme   string
	linePos  int
	line     int
	fullLine string
}

// New builds a Token from its constituent fields.
func New(class Class, lexeme string, linePos, line int, fullLine string) Token {
	return simpleToken{class: class, lexeme: lexeme, linePos: linePos, line: line, fullLine: fullLine}
}

func (t simpleToken) Class() Class     { return t.class }
func (t simpleToken) Lexeme() string   { return t.lexeme }
func (t simpleToken) LinePos() int     { return t.linePos }
func (t simpleToken) Line() int        { return t.line }
func (t simpleToken) FullLine() string { return t.fullLine }

func (t simpleToken) String() string {
	return fmt.Sprintf("%s %q @ %d:%d", t.class.Human(), t.lexeme, t.line, t.linePos)
}
