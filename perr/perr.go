// Package perr holds the structured error types returned by construction and
// parsing across the toolkit: regex parse errors, grammar-table conflicts,
// and syntax errors raised against a token.
package perr

import (
	"fmt"

	"github.com/zanderlang/zander/internal/util"
	"github.com/zanderlang/zander/token"
)

// ParseError is a fatal error raised while parsing regex text or a pattern
// list, where Pos is the byte position the failure occurred at, or while a
// parse driver or the definition reader consumes tokens, where Pos counts
// tokens instead.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("at position %d: %s", e.Pos, e.Message)
}

// NewParseError builds a ParseError.
func NewParseError(pos int, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// ConflictKind distinguishes the two ways a single-entry parse table can be
// ambiguous.
type ConflictKind int

const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
	LL1Conflict
)

func (k ConflictKind) String() string {
	switch k {
	case ShiftReduce:
		return "shift/reduce"
	case ReduceReduce:
		return "reduce/reduce"
	case LL1Conflict:
		return "LL(1)"
	default:
		return "unknown"
	}
}

// ConflictError reports a table-construction conflict: two (or more) actions
// both apply to the same (state-or-rule, symbol) cell.
type ConflictError struct {
	Kind   ConflictKind
	Symbol string
	State  string
	Items  []string
}

func (e *ConflictError) Error() string {
	between := util.MakeTextList(append([]string(nil), e.Items...))
	if e.State != "" {
		return fmt.Sprintf("%s conflict on symbol %q in state %s between %s", e.Kind, e.Symbol, e.State, between)
	}
	return fmt.Sprintf("%s conflict on symbol %q between %s", e.Kind, e.Symbol, between)
}

// SyntaxError reports a parse-time failure against a specific input token.
type SyntaxError struct {
	Message string
	Source  token.Token
}

// NewSyntaxErrorFromToken builds a SyntaxError carrying the offending token's
// position so FullMessage can render source context.
func NewSyntaxErrorFromToken(msg string, tok token.Token) *SyntaxError {
	return &SyntaxError{Message: msg, Source: tok}
}

func (e *SyntaxError) Error() string {
	if e.Source == nil {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Source.Line(), e.Source.LinePos(), e.Message)
}

// FullMessage renders the error with the offending source line and a caret
// pointing at the token's column, for terminal-friendly diagnostics.
func (e *SyntaxError) FullMessage() string {
	if e.Source == nil {
		return e.Message
	}
	line := e.Source.FullLine()
	pos := e.Source.LinePos()
	caret := ""
	for i := 1; i < pos; i++ {
		caret += " "
	}
	caret += "^"
	return fmt.Sprintf("line %d: %s\n%s\n%s\n%s", e.Source.Line(), e.Message, line, caret, e.Source.Lexeme())
}
