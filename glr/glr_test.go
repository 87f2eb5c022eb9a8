package glr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/parse"
)

type sliceStream struct {
	toks       []parse.InputToken
	pos        int
	endOfInput int
}

func (s *sliceStream) Peek() parse.InputToken {
	if s.pos >= len(s.toks) {
		return parse.InputToken{TermIndex: s.endOfInput}
	}
	return s.toks[s.pos]
}

func (s *sliceStream) Next() parse.InputToken {
	t := s.Peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return t
}

// exprGrammar builds the classic ambiguous expression grammar S -> S + S | S * S | n
// over terminals {+, *, n, $}.
func exprGrammar() (*grammar.Grammar, int) {
	terminals := []string{"+", "*", "n", "$"}
	rules := []grammar.Rule{
		{
			Name: "S",
			Productions: []grammar.Production{
				{{Kind: grammar.Nonterminal, Index: 0}, {Kind: grammar.Terminal, Index: 0}, {Kind: grammar.Nonterminal, Index: 0}},
				{{Kind: grammar.Nonterminal, Index: 0}, {Kind: grammar.Terminal, Index: 1}, {Kind: grammar.Nonterminal, Index: 0}},
				{{Kind: grammar.Terminal, Index: 2}},
			},
		},
	}
	g := grammar.New(terminals, rules, 0)
	return g, 3
}

// balancedGrammar builds S -> a S b | epsilon over terminals {a, b, $}.
func balancedGrammar() (*grammar.Grammar, int) {
	terminals := []string{"a", "b", "$"}
	rules := []grammar.Rule{
		{
			Name: "S",
			Productions: []grammar.Production{
				{
					{Kind: grammar.Terminal, Index: 0},
					{Kind: grammar.Nonterminal, Index: 0},
					{Kind: grammar.Terminal, Index: 1},
				},
				{},
			},
		},
	}
	g := grammar.New(terminals, rules, 0)
	return g, 2
}

func input(endOfInput int, lexemes map[int]string, termIndexes ...int) *sliceStream {
	toks := make([]parse.InputToken, len(termIndexes))
	for i, idx := range termIndexes {
		toks[i] = parse.InputToken{TermIndex: idx, Lexeme: lexemes[idx]}
	}
	return &sliceStream{toks: toks, endOfInput: endOfInput}
}

func Test_Build_ambiguousGrammarHasConflicts(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := exprGrammar()
	table := Build(g, g.ComputeSets(), endOfInput)
	assert.True(table.HasConflicts(), "S -> S+S | S*S | n must surface shift/reduce cells")
}

func Test_Build_unambiguousGrammarHasNoConflicts(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := balancedGrammar()
	table := Build(g, g.ComputeSets(), endOfInput)
	assert.False(table.HasConflicts())
}

// exprString reduces an expression parse to a fully parenthesized string, so
// the two derivations of n+n*n are distinguishable in the result set.
func exprString(sess *Session) {
	sess.AddTerminalDecorator(2, func(termIndex int, lexeme string) any { return "n" })
	sess.AddReducer(0, func(ruleIndex int, children []any) any {
		if len(children) == 1 {
			return children[0]
		}
		return fmt.Sprintf("(%v%v%v)", children[0], children[1], children[2])
	})
}

func Test_Parse_ambiguousInputReturnsBothDerivations(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := exprGrammar()
	table := Build(g, g.ComputeSets(), endOfInput)

	sess := NewSession(table, endOfInput)
	exprString(sess)
	sess.AddTerminalDecorator(0, func(int, string) any { return "+" })
	sess.AddTerminalDecorator(1, func(int, string) any { return "*" })

	// n + n * n
	results, err := sess.Parse(input(endOfInput, nil, 2, 0, 2, 1, 2))
	assert.NoError(err)
	assert.Len(results, 2, "n+n*n has exactly two parse trees")

	strs := make([]string, len(results))
	for i, r := range results {
		strs[i] = r.(string)
	}
	assert.ElementsMatch([]string{"(n+(n*n))", "((n+n)*n)"}, strs)
}

func Test_Parse_unambiguousInputReturnsOneDerivation(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := balancedGrammar()
	table := Build(g, g.ComputeSets(), endOfInput)

	sess := NewSession(table, endOfInput)
	sess.AddReducer(0, func(ruleIndex int, children []any) any { return len(children) })

	// a a b b
	results, err := sess.Parse(input(endOfInput, nil, 0, 0, 1, 1))
	assert.NoError(err)
	assert.Len(results, 1)
}

func Test_Parse_emptyInputAcceptedForNullableStart(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := balancedGrammar()
	table := Build(g, g.ComputeSets(), endOfInput)

	sess := NewSession(table, endOfInput)
	results, err := sess.Parse(input(endOfInput, nil))
	assert.NoError(err)
	assert.Len(results, 1)
}

func Test_Parse_failureWhenAllHeadsDie(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := balancedGrammar()
	table := Build(g, g.ComputeSets(), endOfInput)

	sess := NewSession(table, endOfInput)
	_, err := sess.Parse(input(endOfInput, nil, 0, 0, 1)) // "aab": unbalanced
	assert.Error(err)
}

func Test_Table_StringRendersMultiCells(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := exprGrammar()
	table := Build(g, g.ComputeSets(), endOfInput)
	s := table.String()
	assert.Contains(s, "acc")
	assert.Contains(s, "/", "conflicting cells render every action")
}
