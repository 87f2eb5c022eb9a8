// Package match runs longest-match multi-pattern scanning over a minimized
// DFA: given input bytes and a start offset, it returns the length of the
// longest accepting prefix and the index of the winning pattern.
package match

import (
	"github.com/zanderlang/zander/encoding"
	"github.com/zanderlang/zander/fa"
	"github.com/zanderlang/zander/perr"
	"github.com/zanderlang/zander/regex"
)

// Matcher is the built, immutable product of parsing a list of patterns,
// computing their shared Encoding, and building/minimizing the DFA over it.
// Once built, the AST/NFA/intermediate DFA are no longer referenced.
type Matcher struct {
	enc *encoding.Encoding
	dfa *fa.DFA
}

// Build parses and compiles patterns (in declaration order - declaration
// order is also pattern-index order, used to break longest-match ties) into
// a Matcher. Returns a *perr.ParseError naming the failing pattern's index
// and position if any pattern fails to parse.
func Build(patterns []string) (*Matcher, error) {
	asts := make([]*regex.Node, len(patterns))
	for i, p := range patterns {
		ast, err := regex.Parse(p)
		if err != nil {
			if pe, ok := err.(*perr.ParseError); ok {
				return nil, perr.NewParseError(pe.Pos, "pattern %d: %s", i, pe.Message)
			}
			return nil, err
		}
		asts[i] = ast
	}

	var ranges []encoding.ByteRange
	for _, ast := range asts {
		ranges = append(ranges, regex.Ranges(ast)...)
	}
	enc := encoding.Build(ranges)

	nfa := fa.Build(asts, enc)
	dfa := nfa.ToDFA(enc.NumCodePoints()).Minimize()

	return &Matcher{enc: enc, dfa: dfa}, nil
}

// Match runs the DFA from the start state over input[start:], tracking the
// last position at which an accepting state was entered. Returns the length
// of the longest accepting prefix (0 if none matched) and the winning
// pattern index (fa.NoPattern if no prefix, not even the empty one, is
// accepted; a pattern accepting the empty string gives length 0 with its
// index).
func (m *Matcher) Match(input []byte, start int) (length int, pattern int) {
	state := m.dfa.Start
	bestLen := 0
	bestPattern := fa.NoPattern

	if p := m.dfa.Accept(state); p != fa.NoPattern {
		bestLen, bestPattern = 0, p
	}

	for i := start; i < len(input); i++ {
		cp := m.enc.CodePoint(input[i])
		if cp == encoding.NoCodePoint {
			break
		}
		next := m.dfa.Next(state, cp)
		if next == fa.Reject {
			break
		}
		state = next
		if p := m.dfa.Accept(state); p != fa.NoPattern {
			bestLen = i - start + 1
			bestPattern = p
		}
	}

	return bestLen, bestPattern
}
