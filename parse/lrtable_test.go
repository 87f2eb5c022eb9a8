package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zanderlang/zander/grammar"
)

// seedGrammarLR builds the balanced grammar with a synthetic "$"
// end-of-input terminal appended as the grammar's last terminal slot, the
// convention fillShiftsAndAccepts relies on to place the accept action.
func seedGrammarLR() (*grammar.Grammar, int) {
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

// ambiguousExprGrammar builds S -> S + S | S * S | n, a classically ambiguous
// grammar: SLR/LALR construction must report a shift/reduce conflict.
func ambiguousExprGrammar() (*grammar.Grammar, int) {
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

func Test_BuildSLR_seedGrammar(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := seedGrammarLR()
	sets := g.ComputeSets()
	table, err := BuildSLR(g, sets)
	assert.NoError(err)

	start := table.Automaton.Start
	shiftOnA := table.Action(start, 0)
	assert.Equal(LRShift, shiftOnA.Type)

	reduceOnB := table.Action(start, endOfInput)
	assert.Equal(LRReduce, reduceOnB.Type, "epsilon reduces immediately on end-of-input")
}

func Test_BuildLALR_seedGrammar(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := seedGrammarLR()
	sets := g.ComputeSets()
	table, err := BuildLALR(g, sets, endOfInput)
	assert.NoError(err)
	assert.NotNil(table)
}

func Test_BuildSLR_ambiguousGrammarConflicts(t *testing.T) {
	assert := assert.New(t)

	g, _ := ambiguousExprGrammar()
	sets := g.ComputeSets()
	_, err := BuildSLR(g, sets)
	assert.Error(err, "S -> S+S | S*S | n is ambiguous and must fail SLR construction")
}

func Test_BuildLALR_ambiguousGrammarConflicts(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := ambiguousExprGrammar()
	sets := g.ComputeSets()
	_, err := BuildLALR(g, sets, endOfInput)
	assert.Error(err, "S -> S+S | S*S | n is ambiguous and must fail LALR construction")
}
