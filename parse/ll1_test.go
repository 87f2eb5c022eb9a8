package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zanderlang/zander/grammar"
)

// seedGrammarLL1 builds the balanced grammar S -> a S b | epsilon, with
// no end-of-input terminal: FOLLOW(S) already contains 'b' from the
// recursive occurrence, enough to predict the epsilon alternative without an
// explicit sentinel.
func seedGrammarLL1() *grammar.Grammar {
	terminals := []string{"a", "b"}
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
	return grammar.New(terminals, rules, 0)
}

type sliceInputStream struct {
	toks []InputToken
	pos  int
}

func (s *sliceInputStream) Peek() InputToken {
	if s.pos >= len(s.toks) {
		return InputToken{TermIndex: -1}
	}
	return s.toks[s.pos]
}

func (s *sliceInputStream) Next() InputToken {
	t := s.Peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return t
}

func tokens(termIndexes ...int) *sliceInputStream {
	toks := make([]InputToken, len(termIndexes))
	for i, idx := range termIndexes {
		toks[i] = InputToken{TermIndex: idx, Lexeme: ""}
	}
	return &sliceInputStream{toks: toks}
}

func Test_BuildLL1_seedGrammar(t *testing.T) {
	assert := assert.New(t)

	g := seedGrammarLL1()
	sets := g.ComputeSets()
	table, err := BuildLL1(g, sets)
	assert.NoError(err)

	assert.Equal(0, table.Get(0, 0), "lookahead 'a' predicts the recursive production")
	assert.Equal(1, table.Get(0, 1), "lookahead 'b' predicts the epsilon production")
}

func Test_LL1Session_Parse_seedGrammar(t *testing.T) {
	assert := assert.New(t)

	g := seedGrammarLL1()
	sets := g.ComputeSets()
	table, err := BuildLL1(g, sets)
	assert.NoError(err)

	sess := NewLL1Session(g, table)
	sess.AddReducer(0, func(ruleIndex int, children []any) any {
		return children
	})

	// "a a b b" -> S -> a S b, S -> a S b, S -> epsilon
	in := tokens(0, 0, 1, 1)
	result, err := sess.Parse(in)
	assert.NoError(err)
	assert.NotNil(result)
}

func Test_LL1Session_Parse_unexpectedToken(t *testing.T) {
	assert := assert.New(t)

	g := seedGrammarLL1()
	sets := g.ComputeSets()
	table, err := BuildLL1(g, sets)
	assert.NoError(err)

	sess := NewLL1Session(g, table)
	in := tokens(1) // a lone 'b' can never start S
	_, err = sess.Parse(in)
	assert.Error(err)
}

func Test_LL1Session_TerminalDecoratorAndMatchListener(t *testing.T) {
	assert := assert.New(t)

	g := seedGrammarLL1()
	sets := g.ComputeSets()
	table, err := BuildLL1(g, sets)
	assert.NoError(err)

	sess := NewLL1Session(g, table)
	sess.AddReducer(0, func(ruleIndex int, children []any) any { return children })
	var decorated []string
	sess.AddTerminalDecorator(0, func(termIndex int, lexeme string) any {
		decorated = append(decorated, "a")
		return "a"
	})
	var listenerCalls int
	sess.AddMatchListener(0, func(ownerRule, pos int) { listenerCalls++ })

	in := tokens(0, 1)
	_, err = sess.Parse(in)
	assert.NoError(err)
	assert.Equal([]string{"a"}, decorated)
	assert.Equal(2, listenerCalls, "the listener is attached to S, which owns both the 'a' and 'b' terminal positions in this production")
}

func Test_BuildLL1_conflictDetected(t *testing.T) {
	assert := assert.New(t)

	// ambiguous: A -> a | a b, both predictions fire on lookahead 'a'.
	terminals := []string{"a", "b"}
	rules := []grammar.Rule{
		{
			Name: "A",
			Productions: []grammar.Production{
				{{Kind: grammar.Terminal, Index: 0}},
				{{Kind: grammar.Terminal, Index: 0}, {Kind: grammar.Terminal, Index: 1}},
			},
		},
	}
	g := grammar.New(terminals, rules, 0)
	sets := g.ComputeSets()
	_, err := BuildLL1(g, sets)
	assert.Error(err)
}
