// Package defs is the definition-file reader: a convenience frontend,
// external to the parser-construction core, that reads a line-oriented
// text format mixing two declaration forms -
//
//	<name> : <regex>            terminal pattern, name becomes a token value
//	<nonterm> : <rhs>           nonterminal rule, rhs uses EBNF operators
//
// - and produces the lex.Configuration/ebnf.Rule inputs the core's own
// Tokenizer and EBNF normalizer consume. It understands three reserved names
// (IGNORE for skipped terminal patterns, NEWLINE for the line-counting
// terminal, root for the start nonterminal)
// because the core itself needs to understand those; everything else about
// the format (comments, angle-bracket nonterminals, single-quoted inline
// literals) is this package's own convention, not the core's.
//
// The reader bootstraps itself on the toolkit's own lexer: a hand-built
// token class list plus a small set of regex patterns compiled into a
// two-configuration tokenizer, with the colon of a terminal-pattern line
// swapping to the second configuration so the regex body (which is full of
// characters that would otherwise collide with directive syntax) is read
// as raw text rather than re-tokenized as directives.
package defs

import (
	"github.com/zanderlang/zander/lex"
	"github.com/zanderlang/zander/token"
)

const (
	configDirective = 0
	configPattern   = 1
)

var (
	clsComment    = token.NewClass("IGNORE")
	clsWS         = token.NewClass("IGNORE")
	clsNewline    = token.NewClass("newline")
	clsNonterm    = token.NewClass("nonterm")
	clsLiteral    = token.NewClass("literal")
	clsColon      = token.NewClass("colon")
	clsLParen     = token.NewClass("lparen")
	clsRParen     = token.NewClass("rparen")
	clsAlt        = token.NewClass("alt")
	clsQMark      = token.NewClass("qmark")
	clsStar       = token.NewClass("star")
	clsPlus       = token.NewClass("plus")
	clsIdent      = token.NewClass("ident")
	clsPatternTxt = token.NewClass("patterntext")
	clsEpsilon    = token.NewClass("epsilon_marker")
)

// buildMetaTokenizer builds the two-configuration Tokenizer this package
// uses to scan a definition file: configDirective reads directive syntax
// (identifiers, angle-bracket nonterminals, single-quoted literals, EBNF
// operators), configPattern reads a terminal declaration's regex body as a
// single raw-text token running to end of line.
func buildMetaTokenizer() (*lex.Tokenizer, error) {
	directive := lex.Configuration{
		Name: "directive",
		Classes: []token.Class{
			clsComment, clsWS, clsNewline, clsNonterm, clsLiteral,
			clsColon, clsLParen, clsRParen, clsAlt, clsQMark, clsStar, clsPlus, clsEpsilon, clsIdent,
		},
		Patterns: []string{
			`#[^\n]*`,
			`[ \t\r]+`,
			`\n`,
			`<[a-zA-Z_][a-zA-Z_0-9]*>`,
			`'(\\'|[^'\n])*'`,
			`:`,
			`\(`,
			`\)`,
			`\|`,
			`\?`,
			`\*`,
			`\+`,
			`0`,
			`[a-zA-Z_][a-zA-Z_0-9]*`,
		},
	}
	pattern := lex.Configuration{
		Name:     "pattern",
		Classes:  []token.Class{clsNewline, clsPatternTxt},
		Patterns: []string{`\n`, `[^\n]+`},
	}
	return lex.Build([]lex.Configuration{directive, pattern}, nil)
}
